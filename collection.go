package spool

import (
	"reflect"
	"slices"
	"sync"

	"github.com/danpasecinic/spool/internal/activator"
	ireflect "github.com/danpasecinic/spool/internal/reflect"
)

var anyType = ireflect.TypeFor[any]()

// Collection is the ordered list of registrations a Provider resolves from.
// A Provider keeps a reference to its Collection, so registrations made
// after Build are visible to it.
type Collection struct {
	mu           sync.RWMutex
	descriptors  []*Descriptor
	constructors map[reflect.Type][]*activator.Constructor
}

func NewCollection() *Collection {
	return &Collection{
		constructors: make(map[reflect.Type][]*activator.Constructor),
	}
}

// Add appends descriptors without any duplicate check.
func (c *Collection) Add(descriptors ...*Descriptor) error {
	if c == nil {
		return errNilArgument("collection")
	}
	if err := checkDescriptors(descriptors); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.descriptors = append(c.descriptors, descriptors...)
	return nil
}

// TryAdd appends each descriptor whose service type is not registered yet.
func (c *Collection) TryAdd(descriptors ...*Descriptor) error {
	if c == nil {
		return errNilArgument("collection")
	}
	if err := checkDescriptors(descriptors); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range descriptors {
		if !c.hasServiceLocked(d.serviceType) {
			c.descriptors = append(c.descriptors, d)
		}
	}
	return nil
}

// TryAddEnumerable appends each descriptor unless one with the same service
// type and effective implementation type exists. Descriptors whose
// implementation type is unknown, any, or the service type itself are
// rejected with a type-load error, since they cannot be told apart.
func (c *Collection) TryAddEnumerable(descriptors ...*Descriptor) error {
	if c == nil {
		return errNilArgument("collection")
	}
	if err := checkDescriptors(descriptors); err != nil {
		return err
	}

	for _, d := range descriptors {
		impl := d.EffectiveImplementationType()
		if impl == nil || impl == anyType || impl == d.serviceType {
			return errTypeLoad(ireflect.Name(d.serviceType), "cannot determine implementation type", nil)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range descriptors {
		impl := d.EffectiveImplementationType()
		exists := slices.ContainsFunc(c.descriptors, func(e *Descriptor) bool {
			return e.serviceType == d.serviceType && e.EffectiveImplementationType() == impl
		})
		if !exists {
			c.descriptors = append(c.descriptors, d)
		}
	}
	return nil
}

// Replace removes the first descriptor registered for d's service type, if
// any, and appends d.
func (c *Collection) Replace(d *Descriptor) error {
	if c == nil {
		return errNilArgument("collection")
	}
	if d == nil {
		return errNilArgument("descriptor")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexLocked(d.serviceType); i >= 0 {
		c.descriptors = slices.Delete(c.descriptors, i, i+1)
	}
	c.descriptors = append(c.descriptors, d)
	return nil
}

// RemoveAll drops every descriptor registered for serviceType.
func (c *Collection) RemoveAll(serviceType reflect.Type) error {
	if c == nil {
		return errNilArgument("collection")
	}
	if serviceType == nil {
		return errNilArgument("serviceType")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.descriptors = slices.DeleteFunc(c.descriptors, func(d *Descriptor) bool {
		return d.serviceType == serviceType
	})
	return nil
}

func (c *Collection) Contains(d *Descriptor) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Contains(c.descriptors, d)
}

// Descriptors returns a snapshot in registration order.
func (c *Collection) Descriptors() []*Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.descriptors)
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.descriptors)
}

// AddConstructor registers fn as a constructor of its result type. fn must
// have the shape func(deps...) T or func(deps...) (T, error). Constructors
// are used whenever T is built by reflection: for type descriptors, for
// descriptors without a strategy and by CreateInstance.
func (c *Collection) AddConstructor(fn any, opts ...ConstructorOption) error {
	if c == nil {
		return errNilArgument("collection")
	}
	_, err := c.addConstructor(fn, opts...)
	return err
}

func (c *Collection) addConstructor(fn any, opts ...ConstructorOption) (reflect.Type, error) {
	cfg := &constructorConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ctor, err := activator.NewConstructor(fn, cfg.preferred)
	if err != nil {
		return nil, errInvalidArgument("fn", err.Error())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t := ctor.Type()
	c.constructors[t] = append(c.constructors[t], ctor)
	return t, nil
}

func (c *Collection) constructorsFor(t reflect.Type) []*activator.Constructor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.constructors[t])
}

func (c *Collection) lookup(serviceType reflect.Type) []*Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var matches []*Descriptor
	for _, d := range c.descriptors {
		if d.serviceType == serviceType {
			matches = append(matches, d)
		}
	}
	return matches
}

// canResolve mirrors the dispatch in Provider.GetService.
func (c *Collection) canResolve(t reflect.Type) bool {
	switch len(c.lookup(t)) {
	case 0:
		return t.Kind() == reflect.Slice
	case 1:
		return true
	default:
		return false
	}
}

func (c *Collection) hasServiceLocked(t reflect.Type) bool {
	return c.indexLocked(t) >= 0
}

func (c *Collection) indexLocked(t reflect.Type) int {
	return slices.IndexFunc(c.descriptors, func(d *Descriptor) bool {
		return d.serviceType == t
	})
}

func checkDescriptors(descriptors []*Descriptor) error {
	if slices.Contains(descriptors, nil) {
		return errNilArgument("descriptors")
	}
	return nil
}

type constructorConfig struct {
	preferred bool
}

type ConstructorOption func(*constructorConfig)

// Preferred marks the constructor used for activation regardless of the
// other constructors registered for the same type.
func Preferred() ConstructorOption {
	return func(cfg *constructorConfig) {
		cfg.preferred = true
	}
}
