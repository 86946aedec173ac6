package activator

import (
	"errors"
	"fmt"
	"reflect"

	ireflect "github.com/danpasecinic/spool/internal/reflect"
)

const TagKey = "spool"

var (
	ErrInterface     = errors.New("cannot instantiate interface")
	ErrAbstract      = errors.New("cannot instantiate abstract type")
	ErrUnresolvable  = errors.New("unresolvable dependency")
	ErrMismatch      = errors.New("type mismatch")
	ErrConstructor   = errors.New("constructor failed")
	ErrInvalidStruct = errors.New("invalid injection target")
)

// Error describes a failure to build Type. Kind is one of the sentinel
// errors above.
type Error struct {
	Kind       error
	Type       reflect.Type
	Dependency reflect.Type
	Cause      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, ireflect.Name(e.Type))
	if e.Dependency != nil {
		msg += " requires " + ireflect.Name(e.Dependency)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Resolver supplies dependencies. Resolve reports ok=false when nothing is
// registered for t.
type Resolver interface {
	Resolve(t reflect.Type) (v any, ok bool, err error)
	CanResolve(t reflect.Type) bool
}

type Dependency struct {
	Type     reflect.Type
	Optional bool
}

// Activator builds values of a type from its registered constructors, or by
// field injection when the type is a struct without constructors.
type Activator struct {
	Selector Selector
}

func New(sel Selector) *Activator {
	if sel == nil {
		sel = SelectPreferredOrGreediest
	}
	return &Activator{Selector: sel}
}

// CheckInstantiable rejects types that can never be built.
func CheckInstantiable(t reflect.Type, ctors []*Constructor) error {
	switch {
	case t == nil:
		return &Error{Kind: ErrAbstract, Type: t}
	case len(ctors) > 0:
		return nil
	case ireflect.IsInterface(t):
		return &Error{Kind: ErrInterface, Type: t}
	case !ireflect.IsStructLike(t):
		return &Error{Kind: ErrAbstract, Type: t, Cause: errors.New("no constructor registered")}
	}
	return nil
}

// Activate builds a value of t. args are supplied directly to the first
// parameter or tagged field each one is assignable to; everything else is
// resolved through r.
func (a *Activator) Activate(t reflect.Type, ctors []*Constructor, r Resolver, args ...any) (any, error) {
	if err := CheckInstantiable(t, ctors); err != nil {
		return nil, err
	}

	supplied := newArgs(args)
	if len(ctors) > 0 {
		c := a.Selector(t, ctors, func(c *Constructor) bool {
			return satisfiable(c, r, supplied.types())
		})
		return invoke(t, c, r, supplied)
	}
	return inject(t, r, supplied)
}

// Plan lists the dependencies Activate would resolve for t, without building
// anything.
func (a *Activator) Plan(t reflect.Type, ctors []*Constructor, canResolve func(reflect.Type) bool) []Dependency {
	if len(ctors) > 0 {
		c := a.Selector(t, ctors, func(c *Constructor) bool {
			for _, p := range c.fn.Params {
				if _, opt := Unwrap(p); !opt && !canResolve(p) {
					return false
				}
			}
			return true
		})
		deps := make([]Dependency, len(c.fn.Params))
		for i, p := range c.fn.Params {
			elem, opt := Unwrap(p)
			deps[i] = Dependency{Type: elem, Optional: opt}
		}
		return deps
	}

	if !ireflect.IsStructLike(t) {
		return nil
	}
	fields, err := ireflect.StructFields(t, TagKey)
	if err != nil {
		return nil
	}
	deps := make([]Dependency, len(fields))
	for i, f := range fields {
		elem, opt := Unwrap(f.Type)
		deps[i] = Dependency{Type: elem, Optional: opt || f.Optional}
	}
	return deps
}

func satisfiable(c *Constructor, r Resolver, argTypes []reflect.Type) bool {
	used := make([]bool, len(argTypes))
	for _, p := range c.fn.Params {
		elem, opt := Unwrap(p)
		if i := matchType(argTypes, used, p, elem); i >= 0 {
			used[i] = true
			continue
		}
		if !opt && !r.CanResolve(p) {
			return false
		}
	}
	return true
}

func invoke(t reflect.Type, c *Constructor, r Resolver, supplied *suppliedArgs) (any, error) {
	in := make([]reflect.Value, len(c.fn.Params))
	for i, p := range c.fn.Params {
		v, err := value(t, p, false, r, supplied)
		if err != nil {
			return nil, err
		}
		in[i] = v
	}

	out := c.fn.Value.Call(in)
	if c.fn.ReturnsError && !out[1].IsNil() {
		return nil, &Error{Kind: ErrConstructor, Type: t, Cause: out[1].Interface().(error)}
	}

	result := out[0].Interface()
	if ireflect.IsNil(result) {
		return nil, nil
	}
	return result, nil
}

func inject(t reflect.Type, r Resolver, supplied *suppliedArgs) (any, error) {
	fields, err := ireflect.StructFields(t, TagKey)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidStruct, Type: t, Cause: err}
	}

	ptr := reflect.New(ireflect.Indirect(t))
	target := ptr.Elem()

	for _, f := range fields {
		v, err := value(t, f.Type, f.Optional, r, supplied)
		if err != nil {
			return nil, err
		}
		target.Field(f.Index).Set(v)
	}

	if t.Kind() == reflect.Pointer {
		return ptr.Interface(), nil
	}
	return target.Interface(), nil
}

// value produces the argument for a parameter or field of type p.
func value(owner, p reflect.Type, optionalTag bool, r Resolver, supplied *suppliedArgs) (reflect.Value, error) {
	opt, isOpt := asOptional(p)
	elem := p
	if isOpt {
		elem = opt.elemType()
	}

	if arg, ok := supplied.take(p, elem); ok {
		if isOpt && reflect.TypeOf(arg) != p {
			return opt.wrap(arg), nil
		}
		return reflect.ValueOf(arg), nil
	}

	v, ok, err := r.Resolve(elem)
	if err != nil {
		return reflect.Value{}, &Error{Kind: ErrUnresolvable, Type: owner, Dependency: elem, Cause: err}
	}

	if !ok || v == nil {
		switch {
		case isOpt:
			return opt.wrap(nil), nil
		case optionalTag:
			return reflect.Zero(p), nil
		}
		return reflect.Value{}, &Error{Kind: ErrUnresolvable, Type: owner, Dependency: elem}
	}

	if !reflect.TypeOf(v).AssignableTo(elem) {
		return reflect.Value{}, &Error{
			Kind:       ErrMismatch,
			Type:       owner,
			Dependency: elem,
			Cause:      fmt.Errorf("resolved %s", reflect.TypeOf(v)),
		}
	}

	if isOpt {
		return opt.wrap(v), nil
	}
	rv := reflect.New(elem).Elem()
	rv.Set(reflect.ValueOf(v))
	return rv, nil
}
