package reflect

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

var typeNameCache sync.Map

var ErrorType = reflect.TypeOf((*error)(nil)).Elem()

func TypeFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func NameOf[T any]() string {
	return Name(TypeFor[T]())
}

// Name returns a package-qualified name for t, used as the graph key and in
// error messages.
func Name(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if cached, ok := typeNameCache.Load(t); ok {
		return cached.(string)
	}

	name := buildName(t)
	typeNameCache.Store(t, name)
	return name
}

func buildName(t reflect.Type) string {
	if t.Name() != "" {
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		return t.Name()
	}

	switch t.Kind() {
	case reflect.Pointer:
		return "*" + buildName(t.Elem())
	case reflect.Slice:
		return "[]" + buildName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + buildName(t.Elem())
	case reflect.Map:
		return "map[" + buildName(t.Key()) + "]" + buildName(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + buildName(t.Elem())
		case reflect.SendDir:
			return "chan<- " + buildName(t.Elem())
		default:
			return "chan " + buildName(t.Elem())
		}
	default:
		return t.String()
	}
}

// ShortName strips package paths, leaving e.g. "*app.Logger".
func ShortName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}

func IsInterface(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface
}

// Indirect strips every level of pointer from t.
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// IsStructLike reports whether t is a struct or a pointer to one.
func IsStructLike(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// PackagePath returns the import path of the package that defines t, looking
// through pointers, slices, arrays, maps and chans to the named element type.
func PackagePath(t reflect.Type) string {
	for t != nil && t.Name() == "" {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
			t = t.Elem()
		default:
			return ""
		}
	}
	if t == nil {
		return ""
	}
	return t.PkgPath()
}

// InPackages reports whether pkgPath equals one of prefixes or lives below it.
func InPackages(pkgPath string, prefixes []string) bool {
	for _, p := range prefixes {
		p = strings.TrimSuffix(p, "/")
		if p == "" {
			continue
		}
		if pkgPath == p || strings.HasPrefix(pkgPath, p+"/") {
			return true
		}
	}
	return false
}

type Func struct {
	Value        reflect.Value
	Params       []reflect.Type
	Out          reflect.Type
	ReturnsError bool
}

var (
	ErrNotFunc      = errors.New("not a function")
	ErrBadSignature = errors.New("unsupported function signature")
)

// InspectFunc accepts func(...) T and func(...) (T, error).
func InspectFunc(fn any) (*Func, error) {
	if fn == nil {
		return nil, ErrNotFunc
	}

	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: got %s", ErrNotFunc, t)
	}
	if v.IsNil() {
		return nil, ErrNotFunc
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("%w: %s is variadic", ErrBadSignature, t)
	}

	f := &Func{Value: v}
	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != ErrorType {
			return nil, fmt.Errorf("%w: second result of %s must be error", ErrBadSignature, t)
		}
		f.ReturnsError = true
	default:
		return nil, fmt.Errorf("%w: %s must return T or (T, error)", ErrBadSignature, t)
	}
	f.Out = t.Out(0)
	if f.Out == ErrorType {
		return nil, fmt.Errorf("%w: %s returns only an error", ErrBadSignature, t)
	}

	f.Params = make([]reflect.Type, t.NumIn())
	for i := range f.Params {
		f.Params[i] = t.In(i)
	}
	return f, nil
}

type Field struct {
	Name     string
	Index    int
	Type     reflect.Type
	Optional bool
}

// StructFields lists the fields of t (a struct or pointer to struct) carrying
// tagKey. The tag value is a comma separated option list; "optional" is the
// only option understood.
func StructFields(t reflect.Type, tagKey string) ([]Field, error) {
	t = Indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s is not a struct", Name(t))
	}

	var fields []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup(tagKey)
		if !ok || tag == "-" {
			continue
		}
		if !sf.IsExported() {
			return nil, fmt.Errorf("field %s.%s is tagged %q but unexported", t.Name(), sf.Name, tagKey)
		}

		f := Field{Name: sf.Name, Index: i, Type: sf.Type}
		for _, opt := range strings.Split(tag, ",") {
			if strings.TrimSpace(opt) == "optional" {
				f.Optional = true
			}
		}
		fields = append(fields, f)
	}
	return fields, nil
}
