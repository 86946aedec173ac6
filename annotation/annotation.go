// Package annotation registers types that declare their own lifetime and
// service type by embedding a marker:
//
//	type ConsoleLogger struct {
//	    annotation.Singleton[Logger]
//	}
//
//	type Clock struct {
//	    annotation.Transient[annotation.Self]
//	}
//
// Register or Scan turn the annotated types into descriptors.
package annotation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/danpasecinic/spool"
	ireflect "github.com/danpasecinic/spool/internal/reflect"
)

var (
	ErrNilSample       = errors.New("annotation: nil sample")
	ErrMultipleMarkers = errors.New("annotation: more than one lifetime marker")
)

// Self stands for the annotated type as the service type.
type Self struct{}

var selfType = reflect.TypeOf(Self{})

type marker interface {
	service() reflect.Type
	lifetime() spool.Lifetime
}

// Singleton marks the embedding type as a singleton implementation of
// TService.
type Singleton[TService any] struct{}

func (Singleton[TService]) service() reflect.Type    { return ireflect.TypeFor[TService]() }
func (Singleton[TService]) lifetime() spool.Lifetime { return spool.Singleton }

// Transient marks the embedding type as a transient implementation of
// TService.
type Transient[TService any] struct{}

func (Transient[TService]) service() reflect.Type    { return ireflect.TypeFor[TService]() }
func (Transient[TService]) lifetime() spool.Lifetime { return spool.Transient }

var markerType = ireflect.TypeFor[marker]()

// Scan returns a descriptor for every annotated type in types. Types without
// a marker are skipped. The implementation type is the type passed in, so
// pass *T when the methods of the service are on the pointer.
func Scan(types ...reflect.Type) ([]*spool.Descriptor, error) {
	var descriptors []*spool.Descriptor

	for _, t := range types {
		if t == nil {
			return nil, ErrNilSample
		}

		m, err := markerOf(t)
		if err != nil {
			return nil, err
		}
		if m == nil {
			continue
		}

		service := m.service()
		if service == selfType {
			service = t
		}

		d, err := spool.NewTypeDescriptor(service, t, m.lifetime())
		if err != nil {
			return nil, fmt.Errorf("annotation: %s: %w", ireflect.Name(t), err)
		}
		descriptors = append(descriptors, d)
	}

	return descriptors, nil
}

// Register scans the types of samples, typically typed nil pointers such as
// (*ConsoleLogger)(nil), and adds the resulting descriptors to c.
func Register(c *spool.Collection, samples ...any) error {
	types := make([]reflect.Type, len(samples))
	for i, s := range samples {
		if s == nil {
			return ErrNilSample
		}
		types[i] = reflect.TypeOf(s)
	}

	descriptors, err := Scan(types...)
	if err != nil {
		return err
	}
	if len(descriptors) == 0 {
		return nil
	}
	return c.Add(descriptors...)
}

func markerOf(t reflect.Type) (marker, error) {
	st := ireflect.Indirect(t)
	if st.Kind() != reflect.Struct {
		return nil, nil
	}

	var found marker
	for i := range st.NumField() {
		f := st.Field(i)
		if !f.Anonymous || !f.Type.Implements(markerType) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %s", ErrMultipleMarkers, ireflect.Name(t))
		}
		found = reflect.Zero(f.Type).Interface().(marker)
	}
	return found, nil
}
