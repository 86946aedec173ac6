package spool

import (
	"context"
	"io"
	"reflect"
	"slices"
	"time"

	"go.uber.org/multierr"

	ireflect "github.com/danpasecinic/spool/internal/reflect"
)

// ContextCloser is the asynchronous disposal capability. Close must return
// once the release has finished or ctx is done.
type ContextCloser interface {
	Close(ctx context.Context) error
}

type disposeFunc func(ctx context.Context) error

// disposerOf unifies the two disposal capabilities. io.Closer is the
// synchronous one.
func disposerOf(v any) (disposeFunc, bool) {
	switch c := v.(type) {
	case ContextCloser:
		return c.Close, true
	case io.Closer:
		return func(context.Context) error { return c.Close() }, true
	default:
		return nil, false
	}
}

type identity struct {
	t   reflect.Type
	ptr uintptr
}

// Dispose closes every cached singleton that implements io.Closer or
// ContextCloser, dependents before their dependencies. A failure does not
// stop the remaining disposals; all failures are returned together. Dispose
// does nothing when DisposeImplementations is off, and only runs once.
func (p *Provider) Dispose(ctx context.Context) error {
	if !p.options.DisposeImplementations {
		return nil
	}
	if !p.disposed.CompareAndSwap(false, true) {
		return nil
	}

	var (
		errs     error
		disposed int
		seen     = make(map[identity]bool)
	)

	for _, d := range p.disposalOrder() {
		if d.lifetime != Singleton {
			continue
		}
		v, ok := d.Implementation()
		if !ok {
			continue
		}
		dispose, ok := disposerOf(v)
		if !ok || !p.disposable(v) {
			continue
		}

		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
			id := identity{t: rv.Type(), ptr: rv.Pointer()}
			if seen[id] {
				continue
			}
			seen[id] = true
		}

		service := ireflect.Name(d.serviceType)
		start := time.Now()
		err := dispose(ctx)
		p.callDisposeHooks(service, time.Since(start), err)

		if err != nil {
			p.logger.Warn("failed to dispose service", "service", service, "error", err)
			errs = multierr.Append(errs, errDisposeFailed(service, err))
			continue
		}
		disposed++
	}

	p.logger.Info("provider disposed",
		"disposed", disposed,
		"failed", len(multierr.Errors(errs)),
	)
	return errs
}

// Close disposes p with a background context.
func (p *Provider) Close() error {
	return p.Dispose(context.Background())
}

func (p *Provider) disposable(v any) bool {
	if len(p.options.DisposablePackages) == 0 {
		return true
	}
	return ireflect.InPackages(ireflect.PackagePath(reflect.TypeOf(v)), p.options.DisposablePackages)
}

// disposalOrder sorts descriptors so that a service is disposed before the
// services it depends on. When the dependency graph has a cycle it falls
// back to reverse registration order.
func (p *Provider) disposalOrder() []*Descriptor {
	descriptors := p.services.Descriptors()

	order, err := p.dependencyGraph(descriptors, false).ShutdownOrder()
	if err != nil {
		slices.Reverse(descriptors)
		return descriptors
	}

	byService := make(map[reflect.Type][]*Descriptor, len(order))
	for _, d := range descriptors {
		byService[d.serviceType] = append(byService[d.serviceType], d)
	}

	sorted := make([]*Descriptor, 0, len(descriptors))
	for _, t := range order {
		sorted = append(sorted, byService[t]...)
	}
	return sorted
}
