// Package spool is a small inversion-of-control container for Go 1.25+.
//
// Registrations are collected in a Collection as Descriptors. Each one binds
// a service type to a Lifetime and a construction strategy: an
// implementation type, a ready instance, or a factory. Building the
// Collection yields a Provider that resolves services on demand.
//
// # Quick Start
//
//	services := spool.NewCollection()
//
//	_ = spool.AddSingletonFunc[Logger](services, NewConsoleLogger)
//	_ = spool.AddTransientFunc[*Widget](services, NewWidget)
//
//	provider := services.Build()
//	defer provider.Close()
//
//	w, err := spool.Resolve[*Widget](provider)
//
// # Descriptors
//
// Descriptors can be created directly or through the generic helpers:
//
//	spool.NewTypeDescriptor(serviceType, implType, spool.Singleton)
//	spool.NewFactoryDescriptor(serviceType, factory, spool.Transient)
//	spool.NewSingletonDescriptor(serviceType, instance)
//	spool.Describe[Logger, *ConsoleLogger](spool.Singleton)
//	spool.DescribeFactory[Logger](func(r spool.Resolver) (*ConsoleLogger, error) { ... }, spool.Transient)
//
// A singleton descriptor caches the first instance built for it in its own
// implementation slot. Transient descriptors build a new instance on every
// resolution.
//
// # Registration
//
// Add appends unconditionally. TryAdd skips descriptors whose service type is
// already registered. TryAddEnumerable skips only exact duplicates of
// service type and implementation type, so several implementations of one
// interface can be registered side by side:
//
//	_ = spool.TryAddEnumerable[Handler, *UserHandler](services, spool.Transient)
//	_ = spool.TryAddEnumerable[Handler, *OrderHandler](services, spool.Transient)
//
// Replace swaps out the first registration of a service type, RemoveAll drops
// them all. Modules group registrations for reuse:
//
//	storage := spool.NewModule("storage", func(c *spool.Collection) error {
//	    return spool.AddSingletonFunc[*DB](c, OpenDB)
//	})
//	_ = services.Configure(storage)
//
// # Resolution
//
//	v, err := provider.GetService(t)          // nil, nil when not registered
//	v, err := provider.GetRequiredService(t)  // not-found error instead
//	w, err := spool.Resolve[*Widget](provider)
//	hs, err := spool.GetServices[Handler](provider)
//
// Requesting a slice type []T that has no registration of its own returns
// every registered T in registration order.
//
// # Construction
//
// Types are built by reflection when a descriptor has neither an instance nor
// a factory. Constructors are registered with Collection.AddConstructor (or
// the AddSingletonFunc/AddTransientFunc helpers) and their parameters are
// resolved from the Provider. When several constructors are registered for
// one type, the ConstructorSelector decides; the default,
// SelectPreferredOrGreediest, takes the one marked Preferred, else the one
// with the most parameters that can all be resolved.
//
// A struct type with no constructor is allocated and its fields tagged
// `spool:""` are injected. Interfaces and other types without a constructor
// cannot be built and fail with a type-load error.
//
// CreateInstance builds a type that is not registered at all, passing extra
// arguments straight to the parameters they fit.
//
// # Disposal
//
// Provider.Dispose closes cached singletons implementing io.Closer or
// ContextCloser. Failures are collected and returned together; the
// remaining instances are still disposed. WithDisposeImplementations(false)
// turns disposal off and WithDisposablePackages limits it to instances
// defined in the given packages.
//
// # Errors
//
// Every error is an *Error carrying an ErrorCode:
//
//	if spool.IsNotFound(err) { ... }
//	if spool.IsUnresolvableDependency(err) { ... }
//
// # Concurrency
//
// Collection and Provider are safe for concurrent use. Two goroutines
// resolving the same singleton for the first time may both run its factory,
// but only the first instance stored is ever returned.
package spool
