package spool

import (
	"fmt"
	"reflect"
	"sync"

	ireflect "github.com/danpasecinic/spool/internal/reflect"
)

// Factory builds a service instance. It receives the resolver that is
// resolving the service so it can pull further dependencies.
type Factory func(r Resolver) (any, error)

// Descriptor binds a service type to a lifetime and a construction strategy:
// an implementation type, a ready instance, or a factory. Its implementation
// slot doubles as the singleton cache.
type Descriptor struct {
	serviceType        reflect.Type
	implementationType reflect.Type
	factory            Factory
	factoryType        reflect.Type
	lifetime           Lifetime

	mu             sync.RWMutex
	implementation any
	preset         bool
}

// NewInstanceDescriptor registers instance under its own runtime type.
func NewInstanceDescriptor(instance any, lt Lifetime) (*Descriptor, error) {
	if ireflect.IsNil(instance) {
		return nil, errNilArgument("instance")
	}
	if err := checkLifetime(lt); err != nil {
		return nil, err
	}

	t := reflect.TypeOf(instance)
	return &Descriptor{
		serviceType:        t,
		implementationType: t,
		implementation:     instance,
		preset:             true,
		lifetime:           lt,
	}, nil
}

// NewDescriptor creates a descriptor without a construction strategy.
// Resolving it constructs serviceType itself.
func NewDescriptor(serviceType reflect.Type, lt Lifetime) (*Descriptor, error) {
	if serviceType == nil {
		return nil, errNilArgument("serviceType")
	}
	if err := checkLifetime(lt); err != nil {
		return nil, err
	}

	return &Descriptor{serviceType: serviceType, lifetime: lt}, nil
}

func NewTypeDescriptor(serviceType, implementationType reflect.Type, lt Lifetime) (*Descriptor, error) {
	d, err := NewDescriptor(serviceType, lt)
	if err != nil {
		return nil, err
	}
	if implementationType == nil {
		return nil, errNilArgument("implementationType")
	}
	if !implementationType.AssignableTo(serviceType) {
		return nil, errInvalidArgument(
			"implementationType",
			fmt.Sprintf("%s is not assignable to %s", implementationType, serviceType),
		)
	}

	d.implementationType = implementationType
	return d, nil
}

func NewServiceInstanceDescriptor(serviceType reflect.Type, instance any, lt Lifetime) (*Descriptor, error) {
	d, err := NewDescriptor(serviceType, lt)
	if err != nil {
		return nil, err
	}
	if err := checkInstance(serviceType, instance); err != nil {
		return nil, err
	}

	d.implementationType = reflect.TypeOf(instance)
	d.implementation = instance
	d.preset = true
	return d, nil
}

func NewFactoryDescriptor(serviceType reflect.Type, factory Factory, lt Lifetime) (*Descriptor, error) {
	d, err := NewDescriptor(serviceType, lt)
	if err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, errNilArgument("factory")
	}

	d.factory = factory
	return d, nil
}

// NewSingletonDescriptor registers a ready instance with the Singleton
// lifetime.
func NewSingletonDescriptor(serviceType reflect.Type, instance any) (*Descriptor, error) {
	d, err := NewDescriptor(serviceType, Singleton)
	if err != nil {
		return nil, err
	}
	if err := checkInstance(serviceType, instance); err != nil {
		return nil, err
	}

	d.implementation = instance
	d.preset = true
	return d, nil
}

// Describe binds TService to the implementation type TImpl.
func Describe[TService, TImpl any](lt Lifetime) (*Descriptor, error) {
	return NewTypeDescriptor(ireflect.TypeFor[TService](), ireflect.TypeFor[TImpl](), lt)
}

// DescribeFactory binds TService to a typed factory. TImpl is recorded as the
// effective implementation type.
func DescribeFactory[TService, TImpl any](factory func(r Resolver) (TImpl, error), lt Lifetime) (*Descriptor, error) {
	if factory == nil {
		return nil, errNilArgument("factory")
	}

	serviceType := ireflect.TypeFor[TService]()
	implType := ireflect.TypeFor[TImpl]()
	if !implType.AssignableTo(serviceType) {
		return nil, errInvalidArgument("factory", fmt.Sprintf("%s is not assignable to %s", implType, serviceType))
	}

	d, err := NewFactoryDescriptor(serviceType, func(r Resolver) (any, error) {
		v, err := factory(r)
		if err != nil {
			return nil, err
		}
		return v, nil
	}, lt)
	if err != nil {
		return nil, err
	}

	d.factoryType = implType
	return d, nil
}

func DescribeInstance[TService any](instance TService) (*Descriptor, error) {
	return NewSingletonDescriptor(ireflect.TypeFor[TService](), instance)
}

func (d *Descriptor) ServiceType() reflect.Type {
	return d.serviceType
}

func (d *Descriptor) ImplementationType() reflect.Type {
	return d.implementationType
}

func (d *Descriptor) Factory() Factory {
	return d.factory
}

func (d *Descriptor) Lifetime() Lifetime {
	return d.lifetime
}

// Implementation returns the registered or cached instance.
func (d *Descriptor) Implementation() (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.implementation, d.implementation != nil
}

// EffectiveImplementationType returns the implementation type, else the
// runtime type of the instance, else the declared result type of a typed
// factory. It returns nil when none of these is known.
func (d *Descriptor) EffectiveImplementationType() reflect.Type {
	if d.implementationType != nil {
		return d.implementationType
	}
	if v, ok := d.Implementation(); ok {
		return reflect.TypeOf(v)
	}
	if d.factory != nil {
		return d.factoryType
	}
	return nil
}

// store caches v for singletons. The first value stored wins and is
// returned to every caller.
func (d *Descriptor) store(v any) any {
	if d.lifetime != Singleton || ireflect.IsNil(v) {
		return v
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.implementation != nil {
		return d.implementation
	}
	d.implementation = v
	return v
}

func (d *Descriptor) strategy() string {
	switch {
	case d.factory != nil:
		return "factory"
	case d.preset:
		return "instance"
	case d.implementationType != nil:
		return "type"
	default:
		return "self"
	}
}

func (d *Descriptor) String() string {
	impl := d.EffectiveImplementationType()
	if impl == nil {
		return fmt.Sprintf("%s (%s, %s)", d.serviceType, d.lifetime, d.strategy())
	}
	return fmt.Sprintf("%s => %s (%s, %s)", d.serviceType, impl, d.lifetime, d.strategy())
}

func checkLifetime(lt Lifetime) error {
	if !lt.IsValid() {
		return errInvalidArgument("lifetime", fmt.Sprintf("unknown lifetime %d", int(lt)))
	}
	return nil
}

func checkInstance(serviceType reflect.Type, instance any) error {
	if ireflect.IsNil(instance) {
		return errNilArgument("instance")
	}
	if t := reflect.TypeOf(instance); !t.AssignableTo(serviceType) {
		return errInvalidArgument("instance", fmt.Sprintf("%s is not assignable to %s", t, serviceType))
	}
	return nil
}
