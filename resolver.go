package spool

import (
	"fmt"
	"reflect"

	"github.com/danpasecinic/spool/internal/activator"
	ireflect "github.com/danpasecinic/spool/internal/reflect"
)

// Resolver is the view of a Provider handed to factories.
type Resolver interface {
	GetService(serviceType reflect.Type) (any, error)
	GetRequiredService(serviceType reflect.Type) (any, error)
	CreateInstance(instanceType reflect.Type, args ...any) (any, error)
}

var _ Resolver = (*Provider)(nil)

// TypeOf returns the reflect.Type used as the key for T, including interface
// types.
func TypeOf[T any]() reflect.Type {
	return ireflect.TypeFor[T]()
}

// Resolve returns the T registered in r, failing with a not-found error when
// there is none.
func Resolve[T any](r Resolver) (T, error) {
	var zero T
	if r == nil {
		return zero, errNilArgument("resolver")
	}

	t := ireflect.TypeFor[T]()
	v, err := r.GetRequiredService(t)
	if err != nil {
		return zero, err
	}
	return cast[T](t, v)
}

func MustResolve[T any](r Resolver) T {
	v, err := Resolve[T](r)
	if err != nil {
		panic(err)
	}
	return v
}

// TryResolve reports ok=false instead of failing when T is not registered.
func TryResolve[T any](r Resolver) (T, bool, error) {
	var zero T
	if r == nil {
		return zero, false, errNilArgument("resolver")
	}

	t := ireflect.TypeFor[T]()
	v, err := r.GetService(t)
	if err != nil || v == nil {
		return zero, false, err
	}

	typed, err := cast[T](t, v)
	if err != nil {
		return zero, false, err
	}
	return typed, true, nil
}

// GetServices returns every registered T in registration order.
func GetServices[T any](r Resolver) ([]T, error) {
	if r == nil {
		return nil, errNilArgument("resolver")
	}

	t := ireflect.TypeFor[[]T]()
	v, err := r.GetService(t)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return []T{}, nil
	}
	return cast[[]T](t, v)
}

type Optional[T any] = activator.Optional[T]

func Some[T any](value T) Optional[T] {
	return activator.Some(value)
}

func None[T any]() Optional[T] {
	return activator.None[T]()
}

// ResolveOptional swallows absence and resolution errors alike.
func ResolveOptional[T any](r Resolver) Optional[T] {
	v, ok, err := TryResolve[T](r)
	if err != nil || !ok {
		return None[T]()
	}
	return Some(v)
}

// Has reports whether p can resolve T without building anything.
func Has[T any](p *Provider) bool {
	return p.services.canResolve(ireflect.TypeFor[T]())
}

func cast[T any](t reflect.Type, v any) (T, error) {
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, errTypeMismatch(ireflect.Name(t), fmt.Sprintf("%T", v))
	}
	return typed, nil
}
