package spool_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/danpasecinic/spool"
)

type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, name)
}

type Pool struct {
	rec *recorder
}

func (p *Pool) Close() error {
	p.rec.record("pool")
	return nil
}

type Cache struct {
	Pool *Pool `spool:""`
	rec  *recorder
}

func (c *Cache) Close(ctx context.Context) error {
	c.rec.record("cache")
	return ctx.Err()
}

type API struct {
	Cache *Cache `spool:""`
	Pool  *Pool  `spool:""`
	rec   *recorder
}

func (a *API) Close() error {
	a.rec.record("api")
	return nil
}

func TestDispose_DependentsFirst(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := spool.NewCollection()
	require.NoError(t, spool.AddSingletonFactory[*Pool](c, func(spool.Resolver) (*Pool, error) {
		return &Pool{rec: rec}, nil
	}))
	require.NoError(t, c.AddConstructor(func(pool *Pool) *API { return &API{Pool: pool, rec: rec} }))
	require.NoError(t, spool.AddSingleton[*API, *API](c))
	require.NoError(t, c.AddConstructor(func(pool *Pool) *Cache { return &Cache{Pool: pool, rec: rec} }))
	require.NoError(t, spool.AddSingleton[*Cache, *Cache](c))

	p := c.Build()
	_ = spool.MustResolve[*API](p)
	_ = spool.MustResolve[*Cache](p)

	require.NoError(t, p.Dispose(context.Background()))

	require.Len(t, rec.order, 3)
	assert.Equal(t, "pool", rec.order[2], "the shared dependency is disposed last")
}

func TestDispose_FieldDependencies(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := spool.NewCollection()
	require.NoError(t, spool.AddInstance(c, &Pool{rec: rec}))
	require.NoError(t, spool.AddSingletonFactory[*Cache](c, func(r spool.Resolver) (*Cache, error) {
		return &Cache{Pool: spool.MustResolve[*Pool](r), rec: rec}, nil
	}))

	p := c.Build()
	_ = spool.MustResolve[*Cache](p)

	require.NoError(t, p.Close())
	assert.Equal(t, []string{"cache", "pool"}, rec.order, "without known edges the order is reverse registration")
}

func TestDispose_SkipsUnresolvedAndTransient(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := spool.NewCollection()
	require.NoError(t, spool.AddSingletonFactory[*Pool](c, func(spool.Resolver) (*Pool, error) {
		return &Pool{rec: rec}, nil
	}))
	require.NoError(t, spool.AddTransientFactory[*API](c, func(spool.Resolver) (*API, error) {
		return &API{rec: rec}, nil
	}))

	p := c.Build()
	_ = spool.MustResolve[*API](p)

	require.NoError(t, p.Close())
	assert.Empty(t, rec.order)
}

func TestDispose_CollectsFailures(t *testing.T) {
	t.Parallel()

	first := &Closer{err: errors.New("first")}
	second := &Closer{err: errors.New("second")}
	healthy := &Closer{}

	c := spool.NewCollection()
	require.NoError(t, spool.AddInstance[*Closer](c, first))
	require.NoError(t, spool.AddInstance[*Closer](c, healthy))
	require.NoError(t, spool.AddInstance[*Closer](c, second))

	err := c.Build().Close()
	require.Error(t, err)

	errs := multierr.Errors(err)
	assert.Len(t, errs, 2)
	for _, e := range errs {
		assert.True(t, spool.IsDisposeFailed(e), "got %v", e)
	}
	assert.ErrorIs(t, err, first.err)
	assert.ErrorIs(t, err, second.err)

	for _, cl := range []*Closer{first, second, healthy} {
		assert.Equal(t, 1, cl.closed)
	}
}

func TestDispose_SharedInstanceOnce(t *testing.T) {
	t.Parallel()

	shared := &Closer{}
	c := spool.NewCollection()
	require.NoError(t, spool.AddInstance[*Closer](c, shared))
	require.NoError(t, spool.AddInstance[interface{ Close() error }](c, shared))

	require.NoError(t, c.Build().Close())
	assert.Equal(t, 1, shared.closed)
}

func TestDispose_PassesContext(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := spool.NewCollection()
	require.NoError(t, spool.AddInstance(c, &Cache{rec: rec}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Build().Dispose(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"cache"}, rec.order)
}

func TestDispose_PackageFilter(t *testing.T) {
	t.Parallel()

	closer := &Closer{}
	c := spool.NewCollection()
	require.NoError(t, spool.AddInstance(c, closer))

	require.NoError(t, c.Build(spool.WithDisposablePackages("example.com/elsewhere")).Close())
	assert.Equal(t, 0, closer.closed)

	pkg := spool.TypeOf[Closer]().PkgPath()
	require.NoError(t, c.Build(spool.WithDisposablePackages(pkg)).Close())
	assert.Equal(t, 1, closer.closed)
}

func TestDispose_Observer(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		services []string
	)
	observer := func(service string, _ time.Duration, err error) {
		mu.Lock()
		defer mu.Unlock()
		services = append(services, service)
	}

	c := spool.NewCollection()
	require.NoError(t, spool.AddInstance(c, &Closer{}))
	require.NoError(t, c.Build(spool.WithDisposeObserver(observer)).Close())

	assert.Equal(t, []string{"*" + spool.TypeOf[Closer]().PkgPath() + ".Closer"}, services)
}
