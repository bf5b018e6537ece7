// Package container provides a Laravel-style IoC (Inversion of Control)
// container and Service Provider system for Go.
//
// # Overview
//
// The container manages the instantiation and lifecycle of an application's
// dependencies. It supports transient bindings, lazy singletons, pre-built
// instances, constructor auto-wiring, aliases, tags, contextual bindings,
// and extension (decoration).
//
// It mirrors the public API of Laravel's Illuminate\Container\Container as
// closely as Go's type system allows. Closures registered with Bind and
// Singleton stand in for PHP's service closures; Autowire stands in for
// Laravel reflecting on a class constructor. Every resolution failure is a
// typed error — the container never panics on bad input and never hands
// back a nil instance in place of one it could not build.
//
// There is no package-level default container. Construct one with New and
// pass it (or its Resolver side) to the code that needs it; independent
// containers never share state.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot()        — safe to resolve everything after this
//  4. Serve requests
//
// # Bindings
//
//	// Transient — new instance every Make()
//	// Laravel: $app->bind(Foo::class, fn($app) => new Foo)
//	c.Bind("foo", func(r container.Resolver) (any, error) { return &Foo{}, nil })
//
//	// Singleton — created once, reused
//	// Laravel: $app->singleton(Cache::class, fn($app) => new RedisCache)
//	c.Singleton("cache", func(r container.Resolver) (any, error) {
//	    cfg, err := container.Resolve[*Config](r, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return cache.NewMemory(cfg), nil
//	})
//
//	// Pre-built value
//	// Laravel: $app->instance(Config::class, $config)
//	c.Instance("config", myConfig)
//
//	// Alias
//	// Laravel: $app->alias(Cache::class, 'cache')
//	c.Alias("cache", "cacheManager")
//
// Registering an abstract that already has a binding replaces it, cached
// singleton included. Later registrations win; resolutions already handed
// out keep the instance they got.
//
// # Auto-wiring
//
// Autowire accepts an ordinary constructor function and resolves each
// parameter from the container by its type key:
//
//	func NewBookingService(store BookingStore, log *zap.Logger) *BookingService { ... }
//
//	c.MustAutowire(container.TypeKeyFor[*BookingService](), NewBookingService,
//	    container.Singleton)
//
// Parameter types map to keys as package path plus type name, with one
// pointer level collapsed — TypeKey and TypeKeyFor produce the same keys
// for registration. Build runs a constructor once without registering it.
//
// # Resolving
//
//	// Untyped
//	// Laravel: $app->make(Cache::class)
//	raw, err := c.Make("cache")
//
//	// Generic (preferred — no type assertion required)
//	cache, err := container.Resolve[*MemoryCache](c, "cache")
//
// MustMake and MustResolve panic on failure, for bootstrap code where a
// wiring error is fatal.
//
// # Errors
//
// Failures carry typed errors that wrap category sentinels, so both
// errors.As and errors.Is work:
//
//	_, err := c.Make("ghost")
//	errors.Is(err, container.ErrNotRegistered)  // true
//
//	var cyc *container.CycleError
//	if errors.As(err, &cyc) {
//	    fmt.Println(cyc.Path)  // ["a", "b", "a"]
//	}
//
// UnregisteredError, MissingDependencyError, CycleError and
// ConstructionError cover unknown abstracts, unsatisfied constructor
// parameters, circular dependencies, and producers that fail.
// ConstructionError keeps the producer's own error in its chain.
//
// # Concurrency
//
// A Container is safe for concurrent use. Concurrent first-time Makes of a
// singleton run its producer exactly once; the losers block and share the
// winner's instance. A producer that fails leaves the singleton unrealized,
// so a later Make retries it. Registration is atomic with respect to
// resolution — a Make sees either the old binding or the new one, never a
// torn state.
//
// # Contextual Binding
//
//	// Laravel: $app->when(PhotoController::class)
//	//              ->needs(Filesystem::class)
//	//              ->give(fn() => new S3Filesystem)
//	c.When("controller.photo").
//	    Needs("filesystem").
//	    Give(func(r container.Resolver) (any, error) { return &S3Filesystem{}, nil })
//
// # Tags
//
//	// Laravel: $app->tag([CpuReport::class, MemReport::class], 'reports')
//	c.Tag([]string{"report.cpu", "report.mem"}, "reports")
//	reports, err := c.Tagged("reports")  // []any
//
// # Extend / Decorate
//
//	// Laravel: $app->extend(Logger::class, fn($logger, $app) => new TimestampLogger($logger))
//	c.Extend("logger", func(instance any, r container.Resolver) any {
//	    return &TimestampLogger{Inner: instance.(*Logger)}
//	})
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Singleton("mailer", func(r container.Resolver) (any, error) {
//	        cfg, err := container.Resolve[*config.Config](r, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return mail.NewSMTP(cfg.Mail), nil
//	    })
//	}
//
//	func (p *AppServiceProvider) Boot(app *container.Container) {
//	    // safe to resolve other bindings here
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool   { return true }
//	func (p *HeavyProvider) Provides() []string { return []string{"heavy"} }
//	func (p *HeavyProvider) Register(app *container.Container) {
//	    app.Singleton("heavy", func(r container.Resolver) (any, error) {
//	        return heavySetup(), nil // only called on first app.Make("heavy")
//	    })
//	}
package container
