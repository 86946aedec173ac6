package spool

import (
	"time"
)

// ResolveHook observes every GetService call, including nested ones.
type ResolveHook func(service string, duration time.Duration, err error)

// ConstructHook observes every factory or constructor invocation. Cache hits
// are not reported.
type ConstructHook func(service string, lifetime Lifetime, duration time.Duration, err error)

type DisposeHook func(service string, duration time.Duration, err error)

func (p *Provider) callResolveHooks(service string, duration time.Duration, err error) {
	for _, hook := range p.onResolve {
		hook(service, duration, err)
	}
}

func (p *Provider) callConstructHooks(service string, lt Lifetime, duration time.Duration, err error) {
	for _, hook := range p.onConstruct {
		hook(service, lt, duration, err)
	}
}

func (p *Provider) callDisposeHooks(service string, duration time.Duration, err error) {
	for _, hook := range p.onDispose {
		hook(service, duration, err)
	}
}
