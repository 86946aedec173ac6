package spool

import (
	"log/slog"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/danpasecinic/spool/internal/activator"
	ireflect "github.com/danpasecinic/spool/internal/reflect"
)

// Provider resolves services from the Collection it was built from.
// Singletons are cached in their descriptors; the Provider holds no cache
// of its own.
type Provider struct {
	services  *Collection
	options   ProviderOptions
	logger    *slog.Logger
	activator *activator.Activator

	onResolve   []ResolveHook
	onConstruct []ConstructHook
	onDispose   []DisposeHook

	disposed atomic.Bool
}

// Build returns a Provider bound to c. Without options, cached singletons
// are disposed by Dispose.
func (c *Collection) Build(opts ...Option) *Provider {
	cfg := &providerConfig{
		options: DefaultProviderOptions(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if c == nil {
		c = NewCollection()
	}

	return &Provider{
		services:    c,
		options:     cfg.options,
		logger:      cfg.logger,
		activator:   activator.New(cfg.selector),
		onResolve:   cfg.onResolve,
		onConstruct: cfg.onConstruct,
		onDispose:   cfg.onDispose,
	}
}

func (p *Provider) Options() ProviderOptions {
	return p.options
}

// GetService returns the service registered for serviceType, or nil when
// nothing is registered. A slice type []T with no registration of its own
// yields every T in registration order, skipping nil results.
func (p *Provider) GetService(serviceType reflect.Type) (any, error) {
	if serviceType == nil {
		return nil, errNilArgument("serviceType")
	}

	start := time.Now()
	v, err := p.getService(serviceType)
	p.callResolveHooks(ireflect.Name(serviceType), time.Since(start), err)
	return v, err
}

// GetRequiredService is GetService with absence reported as a not-found
// error.
func (p *Provider) GetRequiredService(serviceType reflect.Type) (any, error) {
	v, err := p.GetService(serviceType)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errServiceNotFound(ireflect.Name(serviceType))
	}
	return v, nil
}

func (p *Provider) getService(serviceType reflect.Type) (any, error) {
	matches := p.services.lookup(serviceType)

	switch {
	case len(matches) == 1:
		return p.resolveDescriptor(matches[0])
	case len(matches) > 1:
		return nil, errAmbiguousService(ireflect.Name(serviceType), len(matches))
	case serviceType.Kind() == reflect.Slice:
		return p.resolveSequence(serviceType)
	}
	return nil, nil
}

func (p *Provider) resolveSequence(sliceType reflect.Type) (any, error) {
	elem := sliceType.Elem()
	descriptors := p.services.lookup(elem)

	out := reflect.MakeSlice(sliceType, 0, len(descriptors))
	for _, d := range descriptors {
		v, err := p.resolveDescriptor(d)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}

		rv := reflect.New(elem).Elem()
		rv.Set(reflect.ValueOf(v))
		out = reflect.Append(out, rv)
	}
	return out.Interface(), nil
}

func (p *Provider) resolveDescriptor(d *Descriptor) (any, error) {
	if v, ok := d.Implementation(); ok {
		return v, nil
	}

	service := ireflect.Name(d.serviceType)
	start := time.Now()
	v, err := p.construct(d, service)
	p.callConstructHooks(service, d.lifetime, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if ireflect.IsNil(v) {
		return nil, nil
	}
	if t := reflect.TypeOf(v); !t.AssignableTo(d.serviceType) {
		return nil, errTypeMismatch(service, t.String())
	}

	cached := d.store(v)
	p.logger.Debug("constructed service",
		"service", service,
		"lifetime", d.lifetime.String(),
		"duration", time.Since(start),
	)
	return cached, nil
}

func (p *Provider) construct(d *Descriptor, service string) (any, error) {
	if d.factory != nil {
		v, err := d.factory(p)
		if err != nil {
			return nil, errFactoryFailed(service, err)
		}
		return v, nil
	}

	impl := d.implementationType
	if impl == nil {
		impl = d.serviceType
	}

	v, err := p.activator.Activate(impl, p.services.constructorsFor(impl), dependencies{p})
	if err != nil {
		return nil, errActivation(service, err)
	}
	return v, nil
}

// dependencies adapts a Provider to the activator's view of a resolver.
type dependencies struct {
	p *Provider
}

func (d dependencies) Resolve(t reflect.Type) (any, bool, error) {
	v, err := d.p.GetService(t)
	return v, v != nil, err
}

func (d dependencies) CanResolve(t reflect.Type) bool {
	return d.p.services.canResolve(t)
}
