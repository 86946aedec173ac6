package lifetime

import (
	"fmt"
	"strings"
)

type Lifetime int

const (
	Singleton Lifetime = iota
	Transient
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

func (l Lifetime) IsValid() bool {
	return l == Singleton || l == Transient
}

func Parse(s string) (Lifetime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "singleton":
		return Singleton, nil
	case "transient":
		return Transient, nil
	default:
		return 0, fmt.Errorf("unknown lifetime %q", s)
	}
}

func (l Lifetime) MarshalText() ([]byte, error) {
	if !l.IsValid() {
		return nil, fmt.Errorf("unknown lifetime %d", int(l))
	}
	return []byte(l.String()), nil
}

func (l *Lifetime) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
