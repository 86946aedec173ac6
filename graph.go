package spool

import (
	"reflect"

	"go.uber.org/multierr"

	"github.com/danpasecinic/spool/internal/activator"
	"github.com/danpasecinic/spool/internal/graph"
	ireflect "github.com/danpasecinic/spool/internal/reflect"
)

// Validate checks every registration without building anything: types that
// can never be constructed and dependencies with no registration are
// reported together.
func (p *Provider) Validate() error {
	var errs error
	descriptors := p.services.Descriptors()

	for _, d := range descriptors {
		impl, ok := p.reflected(d)
		if !ok {
			continue
		}
		if err := activator.CheckInstantiable(impl, p.services.constructorsFor(impl)); err != nil {
			errs = multierr.Append(errs, errActivation(ireflect.Name(d.serviceType), err))
		}
	}

	if missing := p.dependencyGraph(descriptors, true).Missing(); len(missing) > 0 {
		errs = multierr.Append(errs, errValidationFailed(typeNames(missing)))
	}
	return errs
}

// reflected returns the type d is built from by reflection, if it is.
func (p *Provider) reflected(d *Descriptor) (reflect.Type, bool) {
	if d.factory != nil || d.preset {
		return nil, false
	}
	if d.implementationType != nil {
		return d.implementationType, true
	}
	return d.serviceType, true
}

func (p *Provider) dependenciesOf(d *Descriptor) []activator.Dependency {
	impl, ok := p.reflected(d)
	if !ok {
		return nil
	}
	return p.activator.Plan(impl, p.services.constructorsFor(impl), p.services.canResolve)
}

// dependencyGraph keys nodes by service type. With requiredOnly, optional
// dependencies and slices that resolve to an empty sequence are left out.
func (p *Provider) dependencyGraph(descriptors []*Descriptor, requiredOnly bool) *graph.Graph[reflect.Type] {
	g := graph.New[reflect.Type]()

	for _, d := range descriptors {
		var deps []reflect.Type
		for _, dep := range p.dependenciesOf(d) {
			if requiredOnly && dep.Optional {
				continue
			}

			t := dep.Type
			if t.Kind() == reflect.Slice && len(p.services.lookup(t)) == 0 {
				if requiredOnly {
					continue
				}
				t = t.Elem()
			}
			deps = append(deps, t)
		}
		g.AddNode(d.serviceType, deps...)
	}

	return g
}

func typeNames(types []reflect.Type) []string {
	if len(types) == 0 {
		return nil
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = ireflect.Name(t)
	}
	return names
}
