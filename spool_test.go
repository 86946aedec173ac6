package spool_test

import (
	"context"
	"errors"
	"testing"

	"github.com/danpasecinic/spool"
)

type Logger interface {
	Log(msg string)
}

type ConsoleLogger struct {
	lines []string
}

func (l *ConsoleLogger) Log(msg string) {
	l.lines = append(l.lines, msg)
}

type FileLogger struct {
	path string
}

func (l *FileLogger) Log(string) {}

type Handler interface {
	Handle() string
}

type HandlerA struct {
	id int
}

func (*HandlerA) Handle() string { return "a" }

type HandlerB struct {
	id int
}

func (*HandlerB) Handle() string { return "b" }

type Widget struct {
	Log  Logger `spool:""`
	Name string
}

type Closer struct {
	closed int
	err    error
}

func (c *Closer) Close() error {
	c.closed++
	return c.err
}

func TestSingletonResolvesSameInstance(t *testing.T) {
	t.Parallel()

	c := spool.NewCollection()
	if err := spool.AddSingleton[Logger, *ConsoleLogger](c); err != nil {
		t.Fatalf("AddSingleton failed: %v", err)
	}

	p := c.Build()

	first, err := spool.Resolve[Logger](p)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	second, err := spool.Resolve[Logger](p)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if _, ok := first.(*ConsoleLogger); !ok {
		t.Errorf("expected *ConsoleLogger, got %T", first)
	}
	if first != second {
		t.Error("singleton should resolve to the same instance")
	}
}

func TestEnumerableHandlers(t *testing.T) {
	t.Parallel()

	c := spool.NewCollection()
	for _, add := range []func(*spool.Collection, spool.Lifetime) error{
		spool.TryAddEnumerable[Handler, *HandlerA],
		spool.TryAddEnumerable[Handler, *HandlerB],
		spool.TryAddEnumerable[Handler, *HandlerA],
	} {
		if err := add(c, spool.Transient); err != nil {
			t.Fatalf("TryAddEnumerable failed: %v", err)
		}
	}

	if c.Len() != 2 {
		t.Fatalf("expected 2 registrations, got %d", c.Len())
	}

	p := c.Build()

	first, err := spool.GetServices[Handler](p)
	if err != nil {
		t.Fatalf("GetServices failed: %v", err)
	}
	if len(first) != 2 || first[0].Handle() != "a" || first[1].Handle() != "b" {
		t.Fatalf("expected [a b], got %v", first)
	}

	second, err := spool.GetServices[Handler](p)
	if err != nil {
		t.Fatalf("GetServices failed: %v", err)
	}
	if first[0] == second[0] || first[1] == second[1] {
		t.Error("transient handlers should be built fresh on every resolution")
	}
}

func TestCreateInstanceUsesSingleton(t *testing.T) {
	t.Parallel()

	c := spool.NewCollection()
	_ = spool.AddSingleton[Logger, *ConsoleLogger](c)
	p := c.Build()

	w, err := spool.CreateInstance[*Widget](p)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}

	logger := spool.MustResolve[Logger](p)
	if w.Log != logger {
		t.Error("widget should receive the singleton logger")
	}

	if spool.Has[*Widget](p) {
		t.Error("CreateInstance must not register the widget")
	}
}

func TestReplaceLeavesSingleDescriptor(t *testing.T) {
	t.Parallel()

	c := spool.NewCollection()
	_ = spool.AddSingleton[Logger, *ConsoleLogger](c)

	if err := spool.ReplaceSingleton[Logger, *FileLogger](c); err != nil {
		t.Fatalf("ReplaceSingleton failed: %v", err)
	}

	if c.Len() != 1 {
		t.Fatalf("expected 1 registration, got %d", c.Len())
	}

	logger := spool.MustResolve[Logger](c.Build())
	if _, ok := logger.(*FileLogger); !ok {
		t.Errorf("expected *FileLogger, got %T", logger)
	}
}

func TestTryAddIsIdempotent(t *testing.T) {
	t.Parallel()

	c := spool.NewCollection()
	_ = spool.TryAddSingleton[Logger, *ConsoleLogger](c)
	_ = spool.TryAddSingleton[Logger, *FileLogger](c)

	if c.Len() != 1 {
		t.Fatalf("expected 1 registration, got %d", c.Len())
	}
	if _, ok := spool.MustResolve[Logger](c.Build()).(*ConsoleLogger); !ok {
		t.Error("first registration should win")
	}
}

func TestNotFoundVersusNil(t *testing.T) {
	t.Parallel()

	p := spool.NewCollection().Build()

	v, err := p.GetService(spool.TypeOf[Logger]())
	if err != nil || v != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", v, err)
	}

	_, err = p.GetRequiredService(spool.TypeOf[Logger]())
	if !spool.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}

	var se *spool.Error
	if !errors.As(err, &se) || se.Code != spool.ErrCodeServiceNotFound {
		t.Errorf("expected *spool.Error with SERVICE_NOT_FOUND, got %v", err)
	}
}

func TestDisposeRunsOnce(t *testing.T) {
	t.Parallel()

	closer := &Closer{}
	c := spool.NewCollection()
	_ = spool.AddSingletonFactory[*Closer](c, func(spool.Resolver) (*Closer, error) {
		return closer, nil
	})

	p := c.Build()
	_ = spool.MustResolve[*Closer](p)

	for range 3 {
		if err := p.Dispose(context.Background()); err != nil {
			t.Fatalf("Dispose failed: %v", err)
		}
	}

	if closer.closed != 1 {
		t.Errorf("expected Close to run once, ran %d times", closer.closed)
	}
}

func TestDisposeDisabled(t *testing.T) {
	t.Parallel()

	closer := &Closer{}
	c := spool.NewCollection()
	_ = spool.AddInstance(c, closer)

	p := c.Build(spool.WithDisposeImplementations(false))
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if closer.closed != 0 {
		t.Errorf("disposal is disabled, Close ran %d times", closer.closed)
	}
}
