package container

import "sync"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider mirrors Laravel's Illuminate\Support\ServiceProvider.
//
// Every provider must implement at minimum Register().
// Boot() is called after ALL providers have been registered, making it safe
// to resolve other bindings inside Boot().
//
//	// Laravel:
//	// class AppServiceProvider extends ServiceProvider {
//	//     public function register(): void { $this->app->singleton(...); }
//	//     public function boot(): void     { /* use resolved services */ }
//	// }
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Singleton("logger", func(r container.Resolver) (any, error) {
//	        cfg, err := container.Resolve[*config.Config](r, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return logging.New(cfg.Log), nil
//	    })
//	}
//
//	func (p *AppServiceProvider) Boot(app *container.Container) {
//	    log := container.MustResolve[*zap.Logger](app, "logger")
//	    log.Info("application booted")
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here — use Boot() for that.
	Register(app *Container)

	// Boot is called after all providers are registered.
	// Safe to resolve and use any binding here.
	Boot(app *Container)

	// Provides returns the list of abstract keys this provider registers.
	// Used for deferred (lazy) provider loading.
	// Return nil / empty slice if the provider is always eager.
	//
	//	// Laravel: public function provides(): array { return [Cache::class]; }
	Provides() []string

	// IsDeferred returns true if this provider should be loaded lazily —
	// only when one of its Provides() abstracts is first resolved.
	//
	//	// Laravel: protected $defer = true;
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred().
// Embed it in your provider and only override what you need.
//
//	type MyProvider struct{ container.BaseProvider }
//	func (p *MyProvider) Register(app *container.Container) { ... }
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container)  {}
func (p *BaseProvider) Provides() []string { return nil }
func (p *BaseProvider) IsDeferred() bool   { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred (lazy) providers.
//
// It mirrors the behaviour of Laravel's Application::registerConfiguredProviders
// and Application::bootProviders. Registry state is guarded by a mutex, but
// provider Register/Boot hooks run outside it and are expected to run during
// startup, before the application serves concurrent traffic.
type ProviderRegistry struct {
	mu          sync.Mutex
	app         *Container
	eager       []ServiceProvider
	deferred    map[string]ServiceProvider // abstract → provider
	registered  map[ServiceProvider]bool   // seen by the registry
	loaded      map[ServiceProvider]bool   // deferred provider's real Register() has run
	pendingBoot []ServiceProvider          // loaded before Boot(); owed a Boot() call
	booted      bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
		loaded:     make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register() method. A deferred
// provider is not registered yet: each abstract it Provides() gets a
// placeholder binding that loads the provider on first resolution.
// Registering the same provider value twice is a no-op.
//
//	// Laravel: $app->register(new AppServiceProvider($app))
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		provides := provider.Provides()
		for _, abstract := range provides {
			r.deferred[abstract] = provider
		}
		r.mu.Unlock()
		r.intercept(provider, provides)
		return
	}

	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	provider.Register(r.app)
	if booted {
		provider.Boot(r.app)
	}
}

// intercept installs a lazy placeholder for each deferred abstract. The
// first Make() loads the provider — its real Register() replaces these
// placeholders — then resolves the abstract through the real binding. A
// provider that never registers an abstract it claims to provide leaves
// the placeholder in place; that resolves as unregistered instead of
// re-entering the placeholder forever.
func (r *ProviderRegistry) intercept(provider ServiceProvider, provides []string) {
	for _, abstract := range provides {
		abstract := abstract
		placeholder := &binding{lifetime: Transient}
		placeholder.factory = func(Resolver) (any, error) {
			r.load(provider)
			key := r.app.canonical(abstract)
			if b, ok := r.app.lookup(key); ok && b == placeholder {
				return nil, &UnregisteredError{Key: key}
			}
			return r.app.Make(abstract)
		}
		key, wasBound := r.app.put(abstract, placeholder)
		if wasBound {
			r.app.fireRebound(key, nil, true)
		}
	}
}

// load runs a deferred provider's real Register() exactly once, and its
// Boot() if the registry has already booted.
func (r *ProviderRegistry) load(provider ServiceProvider) {
	r.mu.Lock()
	if r.loaded[provider] {
		r.mu.Unlock()
		return
	}
	r.loaded[provider] = true
	for _, abstract := range provider.Provides() {
		if r.deferred[abstract] == provider {
			delete(r.deferred, abstract)
		}
	}
	booted := r.booted
	if !booted {
		r.pendingBoot = append(r.pendingBoot, provider)
	}
	r.mu.Unlock()

	provider.Register(r.app)
	if booted {
		provider.Boot(r.app)
	}
}

// Boot calls Boot() on all eager providers, plus any deferred provider that
// was already loaded. Must be called after ALL providers have been
// registered. Subsequent calls are no-ops.
//
//	// Laravel: $app->boot()
func (r *ProviderRegistry) Boot() {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return
	}
	r.booted = true
	queue := make([]ServiceProvider, 0, len(r.eager)+len(r.pendingBoot))
	queue = append(queue, r.eager...)
	queue = append(queue, r.pendingBoot...)
	r.pendingBoot = nil
	r.mu.Unlock()

	for _, provider := range queue {
		provider.Boot(r.app)
	}
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ServiceProvider, len(r.eager))
	copy(out, r.eager)
	return out
}
