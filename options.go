package spool

import "log/slog"

// ProviderOptions controls what a Provider disposes.
type ProviderOptions struct {
	// DisposeImplementations enables disposal of cached singletons.
	DisposeImplementations bool `yaml:"disposeImplementations" json:"disposeImplementations"`

	// DisposablePackages, when non-empty, restricts disposal to instances
	// whose type is defined in one of these packages or below them.
	DisposablePackages []string `yaml:"disposablePackages" json:"disposablePackages"`
}

func DefaultProviderOptions() ProviderOptions {
	return ProviderOptions{DisposeImplementations: true}
}

type providerConfig struct {
	options     ProviderOptions
	logger      *slog.Logger
	selector    ConstructorSelector
	onResolve   []ResolveHook
	onConstruct []ConstructHook
	onDispose   []DisposeHook
}

type Option func(*providerConfig)

func WithProviderOptions(o ProviderOptions) Option {
	return func(cfg *providerConfig) {
		cfg.options = ProviderOptions{
			DisposeImplementations: o.DisposeImplementations,
			DisposablePackages:     append([]string(nil), o.DisposablePackages...),
		}
	}
}

func WithDisposeImplementations(enabled bool) Option {
	return func(cfg *providerConfig) {
		cfg.options.DisposeImplementations = enabled
	}
}

func WithDisposablePackages(pkgs ...string) Option {
	return func(cfg *providerConfig) {
		cfg.options.DisposablePackages = append(cfg.options.DisposablePackages, pkgs...)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *providerConfig) {
		cfg.logger = logger
	}
}

// WithConstructorSelector replaces the policy that picks which registered
// constructor builds a type.
func WithConstructorSelector(sel ConstructorSelector) Option {
	return func(cfg *providerConfig) {
		cfg.selector = sel
	}
}

func WithResolveObserver(hook ResolveHook) Option {
	return func(cfg *providerConfig) {
		cfg.onResolve = append(cfg.onResolve, hook)
	}
}

func WithConstructObserver(hook ConstructHook) Option {
	return func(cfg *providerConfig) {
		cfg.onConstruct = append(cfg.onConstruct, hook)
	}
}

func WithDisposeObserver(hook DisposeHook) Option {
	return func(cfg *providerConfig) {
		cfg.onDispose = append(cfg.onDispose, hook)
	}
}
