// Package spooltest wraps collections and providers with helpers that fail
// the test instead of returning errors.
package spooltest

import (
	"context"

	"github.com/danpasecinic/spool"
	"github.com/danpasecinic/spool/internal/reflect"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

type TestCollection struct {
	*spool.Collection
	tb   TB
	opts []spool.Option
}

// New returns an empty collection. opts are applied by Build.
func New(tb TB, opts ...spool.Option) *TestCollection {
	tb.Helper()

	return &TestCollection{
		Collection: spool.NewCollection(),
		tb:         tb,
		opts:       opts,
	}
}

type TestProvider struct {
	*spool.Provider
	tb TB
}

// Build builds a provider that is disposed when the test ends.
func (tc *TestCollection) Build(opts ...spool.Option) *TestProvider {
	tc.tb.Helper()

	all := append(append([]spool.Option(nil), tc.opts...), opts...)
	p := tc.Collection.Build(all...)

	tc.tb.Cleanup(func() {
		if err := p.Dispose(context.Background()); err != nil {
			tc.tb.Fatalf("failed to dispose provider: %v", err)
		}
	})

	return &TestProvider{Provider: p, tb: tc.tb}
}

func (tp *TestProvider) RequireValidate() {
	tp.tb.Helper()

	if err := tp.Validate(); err != nil {
		tp.tb.Fatalf("provider validation failed: %v", err)
	}
}

func (tp *TestProvider) RequireDispose(ctx context.Context) {
	tp.tb.Helper()

	if err := tp.Dispose(ctx); err != nil {
		tp.tb.Fatalf("failed to dispose provider: %v", err)
	}
}

// Replace swaps the first registration of T for value.
func Replace[T any](tc *TestCollection, value T) {
	tc.tb.Helper()

	if err := spool.ReplaceInstance(tc.Collection, value); err != nil {
		tc.tb.Fatalf("failed to replace %s: %v", reflect.NameOf[T](), err)
	}
}

func ReplaceFactory[T, TImpl any](tc *TestCollection, factory func(r spool.Resolver) (TImpl, error), lt spool.Lifetime) {
	tc.tb.Helper()

	if err := spool.ReplaceFactory[T](tc.Collection, factory, lt); err != nil {
		tc.tb.Fatalf("failed to replace factory %s: %v", reflect.NameOf[T](), err)
	}
}

func MustAddInstance[T any](tc *TestCollection, value T) {
	tc.tb.Helper()

	if err := spool.AddInstance(tc.Collection, value); err != nil {
		tc.tb.Fatalf("failed to add instance %s: %v", reflect.NameOf[T](), err)
	}
}

func MustAddSingleton[T, TImpl any](tc *TestCollection) {
	tc.tb.Helper()

	if err := spool.AddSingleton[T, TImpl](tc.Collection); err != nil {
		tc.tb.Fatalf("failed to add singleton %s: %v", reflect.NameOf[T](), err)
	}
}

func MustAddTransient[T, TImpl any](tc *TestCollection) {
	tc.tb.Helper()

	if err := spool.AddTransient[T, TImpl](tc.Collection); err != nil {
		tc.tb.Fatalf("failed to add transient %s: %v", reflect.NameOf[T](), err)
	}
}

func MustAddFactory[T, TImpl any](tc *TestCollection, factory func(r spool.Resolver) (TImpl, error), lt spool.Lifetime) {
	tc.tb.Helper()

	d, err := spool.DescribeFactory[T](factory, lt)
	if err == nil {
		err = tc.Add(d)
	}
	if err != nil {
		tc.tb.Fatalf("failed to add factory %s: %v", reflect.NameOf[T](), err)
	}
}

func MustAddConstructor(tc *TestCollection, fn any, opts ...spool.ConstructorOption) {
	tc.tb.Helper()

	if err := tc.AddConstructor(fn, opts...); err != nil {
		tc.tb.Fatalf("failed to add constructor: %v", err)
	}
}

func MustResolve[T any](tp *TestProvider) T {
	tp.tb.Helper()

	v, err := spool.Resolve[T](tp.Provider)
	if err != nil {
		tp.tb.Fatalf("failed to resolve %s: %v", reflect.NameOf[T](), err)
	}
	return v
}

func MustGetServices[T any](tp *TestProvider) []T {
	tp.tb.Helper()

	v, err := spool.GetServices[T](tp.Provider)
	if err != nil {
		tp.tb.Fatalf("failed to resolve all %s: %v", reflect.NameOf[T](), err)
	}
	return v
}

func MustCreate[T any](tp *TestProvider, args ...any) T {
	tp.tb.Helper()

	v, err := spool.CreateInstance[T](tp.Provider, args...)
	if err != nil {
		tp.tb.Fatalf("failed to create %s: %v", reflect.NameOf[T](), err)
	}
	return v
}

func AssertHas[T any](tp *TestProvider) {
	tp.tb.Helper()

	if !spool.Has[T](tp.Provider) {
		tp.tb.Fatalf("expected provider to have %s", reflect.NameOf[T]())
	}
}

func AssertNotHas[T any](tp *TestProvider) {
	tp.tb.Helper()

	if spool.Has[T](tp.Provider) {
		tp.tb.Fatalf("expected provider to not have %s", reflect.NameOf[T]())
	}
}
