package activator

import "reflect"

type suppliedArgs struct {
	values []any
	used   []bool
}

func newArgs(args []any) *suppliedArgs {
	return &suppliedArgs{values: args, used: make([]bool, len(args))}
}

func (s *suppliedArgs) types() []reflect.Type {
	types := make([]reflect.Type, len(s.values))
	for i, v := range s.values {
		types[i] = reflect.TypeOf(v)
	}
	return types
}

// take consumes the first unused argument assignable to p or to elem.
func (s *suppliedArgs) take(p, elem reflect.Type) (any, bool) {
	if i := matchType(s.types(), s.used, p, elem); i >= 0 {
		s.used[i] = true
		return s.values[i], true
	}
	return nil, false
}

func matchType(types []reflect.Type, used []bool, p, elem reflect.Type) int {
	for i, t := range types {
		if used[i] || t == nil {
			continue
		}
		if t.AssignableTo(p) || t.AssignableTo(elem) {
			return i
		}
	}
	return -1
}
