package spool

import (
	"fmt"
	"reflect"
	"time"

	"github.com/danpasecinic/spool/internal/activator"
	ireflect "github.com/danpasecinic/spool/internal/reflect"
)

// TagKey marks struct fields injected when a struct is built without a
// registered constructor:
//
//	type Widget struct {
//	    Log   Logger        `spool:""`
//	    Cache Cache         `spool:",optional"`
//	    Tags  []Tagger      `spool:""`
//	    Clock Optional[Clock] `spool:""`
//	}
const TagKey = activator.TagKey

// ConstructorSelector chooses which registered constructor builds a type.
// satisfiable reports whether a candidate's parameters can all be supplied.
type ConstructorSelector = activator.Selector

type Constructor = activator.Constructor

var (
	// SelectPreferredOrGreediest is the default policy: the constructor
	// registered with Preferred, else the satisfiable one with the most
	// parameters (earliest registration wins ties), else the one with the
	// most parameters so the missing dependency gets reported.
	SelectPreferredOrGreediest ConstructorSelector = activator.SelectPreferredOrGreediest

	// SelectFirst always uses the earliest registered constructor.
	SelectFirst ConstructorSelector = activator.SelectFirst
)

// ObjectFactory builds one type repeatedly with caller supplied arguments.
type ObjectFactory func(args ...any) (any, error)

// CreateInstance builds instanceType, which does not need to be registered.
// args are passed to the first constructor parameter (or tagged field) each
// one is assignable to; the remaining dependencies are resolved from p.
func (p *Provider) CreateInstance(instanceType reflect.Type, args ...any) (any, error) {
	if instanceType == nil {
		return nil, errNilArgument("instanceType")
	}

	service := ireflect.Name(instanceType)
	start := time.Now()
	v, err := p.activator.Activate(instanceType, p.services.constructorsFor(instanceType), dependencies{p}, args...)
	if err != nil {
		err = errActivation(service, err)
	}
	p.callConstructHooks(service, Transient, time.Since(start), err)
	return v, err
}

func CreateInstance[T any](r Resolver, args ...any) (T, error) {
	var zero T
	if r == nil {
		return zero, errNilArgument("resolver")
	}

	t := ireflect.TypeFor[T]()
	v, err := r.CreateInstance(t, args...)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	return cast[T](t, v)
}

// CreateFactory validates instanceType once and returns a factory that
// requires exactly len(argTypes) arguments of those types on every call.
func (p *Provider) CreateFactory(instanceType reflect.Type, argTypes ...reflect.Type) (ObjectFactory, error) {
	if instanceType == nil {
		return nil, errNilArgument("instanceType")
	}
	for _, t := range argTypes {
		if t == nil {
			return nil, errNilArgument("argTypes")
		}
	}

	service := ireflect.Name(instanceType)
	if err := activator.CheckInstantiable(instanceType, p.services.constructorsFor(instanceType)); err != nil {
		return nil, errActivation(service, err)
	}

	return func(args ...any) (any, error) {
		if len(args) != len(argTypes) {
			return nil, errInvalidArgument("args",
				fmt.Sprintf("expected %d arguments, got %d", len(argTypes), len(args)))
		}
		for i, arg := range args {
			if arg == nil || !reflect.TypeOf(arg).AssignableTo(argTypes[i]) {
				return nil, errInvalidArgument("args",
					fmt.Sprintf("argument %d must be assignable to %s", i, argTypes[i]))
			}
		}
		return p.CreateInstance(instanceType, args...)
	}, nil
}
