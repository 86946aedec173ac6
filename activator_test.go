package spool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpasecinic/spool"
)

type Greeter struct {
	Log  Logger
	Name string
	Via  string
}

func NewGreeter(log Logger, name string) *Greeter {
	return &Greeter{Log: log, Name: name, Via: "greedy"}
}

func NewAnonymousGreeter() *Greeter {
	return &Greeter{Name: "anonymous", Via: "empty"}
}

type Reporter struct {
	Log   Logger                  `spool:""`
	Cache Handler                 `spool:",optional"`
	Clock spool.Optional[Handler] `spool:""`
	All   []Handler               `spool:""`
}

type hidden struct {
	log Logger `spool:""`
}

func TestCreateInstance_WithArguments(t *testing.T) {
	t.Parallel()

	c := spool.NewCollection()
	require.NoError(t, spool.AddSingleton[Logger, *ConsoleLogger](c))
	require.NoError(t, c.AddConstructor(NewGreeter))
	p := c.Build()

	g, err := spool.CreateInstance[*Greeter](p, "ada")
	require.NoError(t, err)
	assert.Equal(t, "ada", g.Name)
	assert.Same(t, spool.MustResolve[Logger](p), g.Log)

	other, err := spool.CreateInstance[*Greeter](p, "bob")
	require.NoError(t, err)
	assert.NotSame(t, g, other, "created instances are never cached")
}

func TestCreateInstance_SuppliedArgumentBeatsRegistration(t *testing.T) {
	t.Parallel()

	c := spool.NewCollection()
	require.NoError(t, spool.AddSingleton[Logger, *ConsoleLogger](c))
	require.NoError(t, c.AddConstructor(NewGreeter))
	p := c.Build()

	file := &FileLogger{}
	g, err := spool.CreateInstance[*Greeter](p, file, "ada")
	require.NoError(t, err)
	assert.Same(t, file, g.Log)
}

func TestCreateInstance_ConstructorSelection(t *testing.T) {
	t.Parallel()

	c := spool.NewCollection()
	require.NoError(t, c.AddConstructor(NewAnonymousGreeter))
	require.NoError(t, c.AddConstructor(NewGreeter))

	p := c.Build()
	g, err := spool.CreateInstance[*Greeter](p)
	require.NoError(t, err)
	assert.Equal(t, "empty", g.Via, "greedy constructor is not satisfiable without a logger")

	g, err = spool.CreateInstance[*Greeter](p, &ConsoleLogger{}, "ada")
	require.NoError(t, err)
	assert.Equal(t, "greedy", g.Via)

	first := c.Build(spool.WithConstructorSelector(spool.SelectFirst))
	g, err = spool.CreateInstance[*Greeter](first, &ConsoleLogger{}, "ada")
	require.NoError(t, err)
	assert.Equal(t, "empty", g.Via)
}

func TestCreateInstance_PreferredConstructor(t *testing.T) {
	t.Parallel()

	c := spool.NewCollection()
	require.NoError(t, c.AddConstructor(NewGreeter))
	require.NoError(t, c.AddConstructor(NewAnonymousGreeter, spool.Preferred()))

	g, err := spool.CreateInstance[*Greeter](c.Build(), &ConsoleLogger{}, "ada")
	require.NoError(t, err)
	assert.Equal(t, "empty", g.Via)
}

func TestCreateInstance_MissingArgument(t *testing.T) {
	t.Parallel()

	c := spool.NewCollection()
	require.NoError(t, c.AddConstructor(NewGreeter))

	_, err := spool.CreateInstance[*Greeter](c.Build(), &ConsoleLogger{})
	assert.True(t, spool.IsUnresolvableDependency(err), "got %v", err)
}

func TestCreateInstance_FieldInjection(t *testing.T) {
	t.Parallel()

	c := spool.NewCollection()
	require.NoError(t, spool.AddSingleton[Logger, *ConsoleLogger](c))
	p := c.Build()

	r, err := spool.CreateInstance[*Reporter](p)
	require.NoError(t, err)
	assert.NotNil(t, r.Log)
	assert.Nil(t, r.Cache)
	assert.False(t, r.Clock.Present())
	assert.Empty(t, r.All)

	require.NoError(t, spool.TryAddEnumerable[Handler, *HandlerA](c, spool.Transient))
	r, err = spool.CreateInstance[*Reporter](p)
	require.NoError(t, err)
	assert.NotNil(t, r.Cache)
	assert.True(t, r.Clock.Present())
	assert.Len(t, r.All, 1)
}

func TestCreateInstance_ValueStruct(t *testing.T) {
	t.Parallel()

	c := spool.NewCollection()
	require.NoError(t, spool.AddSingleton[Logger, *ConsoleLogger](c))

	w, err := spool.CreateInstance[Widget](c.Build())
	require.NoError(t, err)
	assert.NotNil(t, w.Log)
}

func TestCreateInstance_TypeLoad(t *testing.T) {
	t.Parallel()

	p := spool.NewCollection().Build()

	_, err := spool.CreateInstance[Logger](p)
	assert.True(t, spool.IsTypeLoad(err), "got %v", err)

	_, err = spool.CreateInstance[int](p)
	assert.True(t, spool.IsTypeLoad(err), "got %v", err)

	_, err = spool.CreateInstance[*hidden](p)
	assert.True(t, spool.IsTypeLoad(err), "got %v", err)

	_, err = p.CreateInstance(nil)
	assert.True(t, spool.IsInvalidArgument(err))
}

func TestCreateInstance_InterfaceWithConstructor(t *testing.T) {
	t.Parallel()

	c := spool.NewCollection()
	require.NoError(t, c.AddConstructor(func() Logger { return &FileLogger{path: "ctor"} }))

	log, err := spool.CreateInstance[Logger](c.Build())
	require.NoError(t, err)
	assert.Equal(t, "ctor", log.(*FileLogger).path)
}

func TestCreateFactory(t *testing.T) {
	t.Parallel()

	c := spool.NewCollection()
	require.NoError(t, spool.AddSingleton[Logger, *ConsoleLogger](c))
	require.NoError(t, c.AddConstructor(NewGreeter))
	p := c.Build()

	factory, err := p.CreateFactory(spool.TypeOf[*Greeter](), spool.TypeOf[string]())
	require.NoError(t, err)

	v, err := factory("ada")
	require.NoError(t, err)
	assert.Equal(t, "ada", v.(*Greeter).Name)

	_, err = factory()
	assert.True(t, spool.IsInvalidArgument(err))

	_, err = factory(42)
	assert.True(t, spool.IsInvalidArgument(err))

	_, err = p.CreateFactory(spool.TypeOf[Logger]())
	assert.True(t, spool.IsTypeLoad(err), "got %v", err)

	_, err = p.CreateFactory(spool.TypeOf[*Greeter](), nil)
	assert.True(t, spool.IsInvalidArgument(err))
}
