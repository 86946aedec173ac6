package activator

import "reflect"

// Optional holds a value that may be absent. As a constructor parameter or
// injected field it turns an unresolvable dependency into None.
type Optional[T any] struct {
	value   T
	present bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) Value() T {
	return o.value
}

func (o Optional[T]) Present() bool {
	return o.present
}

func (o Optional[T]) OrElse(defaultValue T) T {
	if o.present {
		return o.value
	}
	return defaultValue
}

func (o Optional[T]) OrElseFunc(fn func() T) T {
	if o.present {
		return o.value
	}
	return fn()
}

func (Optional[T]) elemType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (Optional[T]) wrap(v any) reflect.Value {
	if v == nil {
		return reflect.ValueOf(None[T]())
	}
	if typed, ok := v.(T); ok {
		return reflect.ValueOf(Some(typed))
	}
	var typed T
	reflect.ValueOf(&typed).Elem().Set(reflect.ValueOf(v))
	return reflect.ValueOf(Some(typed))
}

type optional interface {
	elemType() reflect.Type
	wrap(v any) reflect.Value
}

var optionalIface = reflect.TypeOf((*optional)(nil)).Elem()

// Unwrap reports whether t is an Optional[T] and returns T.
func Unwrap(t reflect.Type) (reflect.Type, bool) {
	o, ok := asOptional(t)
	if !ok {
		return t, false
	}
	return o.elemType(), true
}

func asOptional(t reflect.Type) (optional, bool) {
	if t == nil || t.Kind() != reflect.Struct || !t.Implements(optionalIface) {
		return nil, false
	}
	return reflect.Zero(t).Interface().(optional), true
}
