package spool

import (
	"fmt"

	ireflect "github.com/danpasecinic/spool/internal/reflect"
)

func AddSingleton[TService, TImpl any](c *Collection) error {
	return register(c, (*Collection).Add)(Describe[TService, TImpl](Singleton))
}

func AddTransient[TService, TImpl any](c *Collection) error {
	return register(c, (*Collection).Add)(Describe[TService, TImpl](Transient))
}

func AddSingletonFactory[TService, TImpl any](c *Collection, factory func(r Resolver) (TImpl, error)) error {
	return register(c, (*Collection).Add)(DescribeFactory[TService](factory, Singleton))
}

func AddTransientFactory[TService, TImpl any](c *Collection, factory func(r Resolver) (TImpl, error)) error {
	return register(c, (*Collection).Add)(DescribeFactory[TService](factory, Transient))
}

func AddInstance[TService any](c *Collection, instance TService) error {
	return register(c, (*Collection).Add)(DescribeInstance(instance))
}

func TryAddSingleton[TService, TImpl any](c *Collection) error {
	return register(c, (*Collection).TryAdd)(Describe[TService, TImpl](Singleton))
}

func TryAddTransient[TService, TImpl any](c *Collection) error {
	return register(c, (*Collection).TryAdd)(Describe[TService, TImpl](Transient))
}

func TryAddSingletonFactory[TService, TImpl any](c *Collection, factory func(r Resolver) (TImpl, error)) error {
	return register(c, (*Collection).TryAdd)(DescribeFactory[TService](factory, Singleton))
}

func TryAddTransientFactory[TService, TImpl any](c *Collection, factory func(r Resolver) (TImpl, error)) error {
	return register(c, (*Collection).TryAdd)(DescribeFactory[TService](factory, Transient))
}

func TryAddInstance[TService any](c *Collection, instance TService) error {
	return register(c, (*Collection).TryAdd)(DescribeInstance(instance))
}

// TryAddEnumerable registers TImpl as one of possibly many implementations
// of TService.
func TryAddEnumerable[TService, TImpl any](c *Collection, lt Lifetime) error {
	return register(c, (*Collection).TryAddEnumerable)(Describe[TService, TImpl](lt))
}

// AddSingletonFunc registers ctor as a constructor and binds TService to the
// type it returns.
func AddSingletonFunc[TService any](c *Collection, ctor any, opts ...ConstructorOption) error {
	return addFunc[TService](c, ctor, Singleton, opts...)
}

func AddTransientFunc[TService any](c *Collection, ctor any, opts ...ConstructorOption) error {
	return addFunc[TService](c, ctor, Transient, opts...)
}

func addFunc[TService any](c *Collection, ctor any, lt Lifetime, opts ...ConstructorOption) error {
	if c == nil {
		return errNilArgument("collection")
	}

	serviceType := ireflect.TypeFor[TService]()
	f, err := ireflect.InspectFunc(ctor)
	if err != nil {
		return errInvalidArgument("ctor", err.Error())
	}
	if !f.Out.AssignableTo(serviceType) {
		return errInvalidArgument("ctor", fmt.Sprintf("%s is not assignable to %s", f.Out, serviceType))
	}

	d, err := NewTypeDescriptor(serviceType, f.Out, lt)
	if err != nil {
		return err
	}
	if _, err := c.addConstructor(ctor, opts...); err != nil {
		return err
	}
	return c.Add(d)
}

func register(c *Collection, add func(*Collection, ...*Descriptor) error) func(*Descriptor, error) error {
	return func(d *Descriptor, err error) error {
		if c == nil {
			return errNilArgument("collection")
		}
		if err != nil {
			return err
		}
		return add(c, d)
	}
}
