package annotation_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpasecinic/spool"
	"github.com/danpasecinic/spool/annotation"
)

type logger interface {
	Log(msg string)
}

type consoleLogger struct {
	annotation.Singleton[logger]
	lines []string
}

func (l *consoleLogger) Log(msg string) { l.lines = append(l.lines, msg) }

type clock struct {
	annotation.Transient[annotation.Self]
	Log logger `spool:""`
}

type plain struct{}

type confused struct {
	annotation.Singleton[annotation.Self]
	annotation.Transient[annotation.Self]
}

type wrongService struct {
	annotation.Singleton[logger]
}

func TestRegister(t *testing.T) {
	t.Parallel()

	c := spool.NewCollection()
	require.NoError(t, annotation.Register(c, (*consoleLogger)(nil), (*clock)(nil), plain{}))
	require.Equal(t, 2, c.Len())

	p := c.Build()

	first, err := spool.Resolve[logger](p)
	require.NoError(t, err)
	second, err := spool.Resolve[logger](p)
	require.NoError(t, err)
	assert.Same(t, first, second)

	a, err := spool.Resolve[*clock](p)
	require.NoError(t, err)
	b, err := spool.Resolve[*clock](p)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.Same(t, first, a.Log)
}

func TestScan(t *testing.T) {
	t.Parallel()

	descriptors, err := annotation.Scan(
		reflect.TypeOf((*consoleLogger)(nil)),
		reflect.TypeOf(clock{}),
	)
	require.NoError(t, err)
	require.Len(t, descriptors, 2)

	assert.Equal(t, reflect.TypeOf((*logger)(nil)).Elem(), descriptors[0].ServiceType())
	assert.Equal(t, reflect.TypeOf((*consoleLogger)(nil)), descriptors[0].ImplementationType())
	assert.Equal(t, spool.Singleton, descriptors[0].Lifetime())

	assert.Equal(t, reflect.TypeOf(clock{}), descriptors[1].ServiceType())
	assert.Equal(t, spool.Transient, descriptors[1].Lifetime())
}

func TestScan_Errors(t *testing.T) {
	t.Parallel()

	_, err := annotation.Scan(reflect.TypeOf(confused{}))
	assert.ErrorIs(t, err, annotation.ErrMultipleMarkers)

	_, err = annotation.Scan(nil)
	assert.ErrorIs(t, err, annotation.ErrNilSample)

	_, err = annotation.Scan(reflect.TypeOf(wrongService{}))
	assert.True(t, spool.IsInvalidArgument(err), "got %v", err)

	assert.ErrorIs(t, annotation.Register(spool.NewCollection(), nil), annotation.ErrNilSample)
}
