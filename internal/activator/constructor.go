package activator

import (
	"fmt"
	"reflect"
	"strings"

	ireflect "github.com/danpasecinic/spool/internal/reflect"
)

// Constructor is a function registered to build values of its result type.
// Supported shapes are func(deps...) T and func(deps...) (T, error).
type Constructor struct {
	fn        *ireflect.Func
	preferred bool
}

func NewConstructor(fn any, preferred bool) (*Constructor, error) {
	f, err := ireflect.InspectFunc(fn)
	if err != nil {
		return nil, err
	}
	return &Constructor{fn: f, preferred: preferred}, nil
}

// Type is the type the constructor produces.
func (c *Constructor) Type() reflect.Type {
	return c.fn.Out
}

func (c *Constructor) Params() []reflect.Type {
	params := make([]reflect.Type, len(c.fn.Params))
	copy(params, c.fn.Params)
	return params
}

func (c *Constructor) Preferred() bool {
	return c.preferred
}

func (c *Constructor) String() string {
	names := make([]string, len(c.fn.Params))
	for i, p := range c.fn.Params {
		names[i] = p.String()
	}
	return fmt.Sprintf("func(%s) %s", strings.Join(names, ", "), c.fn.Out)
}
