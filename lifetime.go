package spool

import "github.com/danpasecinic/spool/internal/lifetime"

type Lifetime = lifetime.Lifetime

const (
	Singleton = lifetime.Singleton
	Transient = lifetime.Transient
)

func ParseLifetime(s string) (Lifetime, error) {
	return lifetime.Parse(s)
}
