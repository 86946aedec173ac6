package spool_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danpasecinic/spool"
)

type hookRecord struct {
	service  string
	lifetime spool.Lifetime
	err      error
}

func TestResolveObserver(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		records []hookRecord
	)

	c := spool.NewCollection()
	_ = spool.AddInstance(c, &Config{Port: 8080})
	_ = spool.AddSingleton[*Database, *Database](c)

	p := c.Build(spool.WithResolveObserver(func(service string, d time.Duration, err error) {
		mu.Lock()
		defer mu.Unlock()
		if d < 0 {
			t.Errorf("negative duration for %s", service)
		}
		records = append(records, hookRecord{service: service, err: err})
	}))

	_ = spool.MustResolve[*Database](p)

	mu.Lock()
	defer mu.Unlock()

	if len(records) != 2 {
		t.Fatalf("expected nested and outer resolution, got %d records", len(records))
	}
	if !strings.HasSuffix(records[0].service, ".Config") {
		t.Errorf("nested resolution should be reported first, got %s", records[0].service)
	}
	if !strings.HasSuffix(records[1].service, ".Database") {
		t.Errorf("expected Database, got %s", records[1].service)
	}
}

func TestConstructObserver(t *testing.T) {
	t.Parallel()

	var records []hookRecord
	boom := errors.New("boom")

	c := spool.NewCollection()
	_ = spool.AddSingletonFactory[*Config](c, func(spool.Resolver) (*Config, error) {
		return &Config{}, nil
	})
	_ = spool.AddTransientFactory[*Database](c, func(spool.Resolver) (*Database, error) {
		return nil, boom
	})

	p := c.Build(spool.WithConstructObserver(func(service string, lt spool.Lifetime, _ time.Duration, err error) {
		records = append(records, hookRecord{service: service, lifetime: lt, err: err})
	}))

	_ = spool.MustResolve[*Config](p)
	_ = spool.MustResolve[*Config](p)
	_, _ = spool.Resolve[*Database](p)

	if len(records) != 2 {
		t.Fatalf("cache hits must not be reported, got %d records", len(records))
	}
	if records[0].lifetime != spool.Singleton || records[0].err != nil {
		t.Errorf("unexpected singleton record %+v", records[0])
	}
	if records[1].lifetime != spool.Transient || !errors.Is(records[1].err, boom) {
		t.Errorf("unexpected transient record %+v", records[1])
	}
}

func TestConstructObserverSeesCreateInstance(t *testing.T) {
	t.Parallel()

	var records []hookRecord
	c := spool.NewCollection()
	_ = spool.AddInstance(c, &Config{})

	p := c.Build(spool.WithConstructObserver(func(service string, lt spool.Lifetime, _ time.Duration, err error) {
		records = append(records, hookRecord{service: service, lifetime: lt, err: err})
	}))

	if _, err := spool.CreateInstance[*Database](p); err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	if len(records) != 1 || records[0].lifetime != spool.Transient {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestLoggerReceivesConstructionAndDisposal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := spool.NewCollection()
	_ = spool.AddSingletonFactory[*Closer](c, func(spool.Resolver) (*Closer, error) {
		return &Closer{err: errors.New("stuck")}, nil
	})

	p := c.Build(spool.WithLogger(logger))
	_ = spool.MustResolve[*Closer](p)
	_ = p.Close()

	output := buf.String()
	for _, want := range []string{"constructed service", "failed to dispose service", "provider disposed", "failed=1"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in log output, got:\n%s", want, output)
		}
	}
}
