package activator

import "reflect"

// Selector picks the constructor used to build t. satisfiable reports whether
// every parameter of a candidate can be supplied. Candidates are in
// registration order and never empty.
type Selector func(t reflect.Type, candidates []*Constructor, satisfiable func(*Constructor) bool) *Constructor

// SelectPreferredOrGreediest is the default policy:
//  1. the first candidate registered as preferred;
//  2. otherwise the satisfiable candidate with the most parameters, earlier
//     registrations winning ties;
//  3. otherwise the candidate with the most parameters, so that invoking it
//     reports the first dependency that is missing.
func SelectPreferredOrGreediest(_ reflect.Type, candidates []*Constructor, satisfiable func(*Constructor) bool) *Constructor {
	for _, c := range candidates {
		if c.preferred {
			return c
		}
	}

	var best, greediest *Constructor
	for _, c := range candidates {
		if greediest == nil || len(c.fn.Params) > len(greediest.fn.Params) {
			greediest = c
		}
		if (best == nil || len(c.fn.Params) > len(best.fn.Params)) && satisfiable(c) {
			best = c
		}
	}

	if best != nil {
		return best
	}
	return greediest
}

// SelectFirst always uses the earliest registered constructor.
func SelectFirst(_ reflect.Type, candidates []*Constructor, _ func(*Constructor) bool) *Constructor {
	return candidates[0]
}
