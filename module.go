package spool

import "fmt"

// Module is a named, reusable batch of registrations.
type Module struct {
	name       string
	configure  []func(c *Collection) error
	submodules []*Module
}

func NewModule(name string, configure ...func(c *Collection) error) *Module {
	return &Module{
		name:      name,
		configure: configure,
	}
}

func (m *Module) Name() string {
	return m.name
}

// Include applies submodules before m's own registrations.
func (m *Module) Include(submodules ...*Module) *Module {
	m.submodules = append(m.submodules, submodules...)
	return m
}

// Configure appends another registration step.
func (m *Module) Configure(fn func(c *Collection) error) *Module {
	m.configure = append(m.configure, fn)
	return m
}

func (m *Module) apply(c *Collection) error {
	for _, sub := range m.submodules {
		if err := sub.apply(c); err != nil {
			return err
		}
	}

	for _, fn := range m.configure {
		if err := fn(c); err != nil {
			return fmt.Errorf("module %s: %w", m.name, err)
		}
	}
	return nil
}

// Configure applies modules in order, stopping at the first error.
func (c *Collection) Configure(modules ...*Module) error {
	if c == nil {
		return errNilArgument("collection")
	}

	for _, m := range modules {
		if m == nil {
			return errNilArgument("modules")
		}
		if err := m.apply(c); err != nil {
			return err
		}
	}
	return nil
}
