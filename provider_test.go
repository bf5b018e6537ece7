package container_test

import (
	"errors"
	"testing"

	"github.com/km-arc/go-container"
)

// ── stub providers ────────────────────────────────────────────────────────────

type eagerProvider struct {
	container.BaseProvider
	registerCalled bool
	bootCalled     int
}

func (p *eagerProvider) Register(app *container.Container) {
	p.registerCalled = true
	app.Singleton("eager-svc", func(container.Resolver) (any, error) { return "eager", nil })
}

func (p *eagerProvider) Boot(app *container.Container) {
	p.bootCalled++
}

// deferredProvider is lazy — registered when one of its abstracts is first
// resolved.
type deferredProvider struct {
	container.BaseProvider
	registerCalled int
	bootCalled     int
}

func (p *deferredProvider) Register(app *container.Container) {
	p.registerCalled++
	app.Singleton("deferred-svc", func(container.Resolver) (any, error) { return &widget{id: 42}, nil })
	app.Instance("deferred-aux", "aux")
}

func (p *deferredProvider) Boot(app *container.Container) {
	p.bootCalled++
}

func (p *deferredProvider) IsDeferred() bool   { return true }
func (p *deferredProvider) Provides() []string { return []string{"deferred-svc", "deferred-aux"} }

type multiProvider struct {
	container.BaseProvider
}

func (p *multiProvider) Register(app *container.Container) {
	app.Singleton("alpha", func(container.Resolver) (any, error) { return "α", nil })
	app.Singleton("beta", func(container.Resolver) (any, error) { return "β", nil })
}

// ── ProviderRegistry ──────────────────────────────────────────────────────────

func TestRegistry_EagerProvider_RegisterCalled(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	reg.Register(p)

	if !p.registerCalled {
		t.Error("Register() should be called immediately for eager providers")
	}
}

func TestRegistry_EagerProvider_BootCalledAfterBoot(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	reg.Register(p)

	if p.bootCalled != 0 {
		t.Error("Boot() should NOT be called before registry.Boot()")
	}

	reg.Boot()

	if p.bootCalled != 1 {
		t.Errorf("Boot() calls: got %d want 1", p.bootCalled)
	}
}

func TestRegistry_EagerProvider_ServiceResolvable(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	reg.Register(&eagerProvider{})
	reg.Boot()

	got, err := c.Make("eager-svc")
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	if got != "eager" {
		t.Errorf("eager-svc: got %q, want 'eager'", got)
	}
}

func TestRegistry_Boot_IdempotentCallsAreIgnored(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	reg.Register(p)

	reg.Boot()
	reg.Boot() // second call should be no-op

	if !reg.Booted() {
		t.Error("Booted() should be true after Boot()")
	}
	if p.bootCalled != 1 {
		t.Errorf("Boot() calls: got %d want 1", p.bootCalled)
	}
}

func TestRegistry_Booted_FalseBeforeBoot(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	if reg.Booted() {
		t.Error("Booted() should be false before Boot()")
	}
}

func TestRegistry_DuplicateRegister_Ignored(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	reg.Register(p)
	reg.Register(p) // second register of same instance

	reg.Boot()
	if p.bootCalled != 1 {
		t.Errorf("duplicate registration booted %d times, want 1", p.bootCalled)
	}
}

// ── Deferred providers ────────────────────────────────────────────────────────

func TestRegistry_DeferredProvider_NotRegisteredEagerly(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	reg.Register(p)
	reg.Boot()

	if p.registerCalled != 0 {
		t.Error("deferred provider Register() should not be called until Make()")
	}
}

func TestRegistry_DeferredProvider_RegisteredOnFirstMake(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	reg.Register(p)
	reg.Boot()

	got := mustWidget(t, c, "deferred-svc")
	if got.id != 42 {
		t.Errorf("deferred-svc: got widget %d, want 42", got.id)
	}
	if p.registerCalled != 1 {
		t.Errorf("Register() calls: got %d want 1", p.registerCalled)
	}
	// Loaded after Boot(): the provider boots as part of loading.
	if p.bootCalled != 1 {
		t.Errorf("Boot() calls: got %d want 1", p.bootCalled)
	}
}

func TestRegistry_DeferredProvider_LoadsOnceForAllAbstracts(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	reg.Register(p)
	reg.Boot()

	mustWidget(t, c, "deferred-svc")
	aux, err := c.Make("deferred-aux")
	if err != nil {
		t.Fatalf("make deferred-aux: %v", err)
	}
	if aux != "aux" {
		t.Errorf("deferred-aux: got %v", aux)
	}
	if p.registerCalled != 1 {
		t.Errorf("Register() calls: got %d want 1", p.registerCalled)
	}
}

func TestRegistry_DeferredProvider_SingletonStaysCached(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	reg.Register(&deferredProvider{})
	reg.Boot()

	a := mustWidget(t, c, "deferred-svc")
	b := mustWidget(t, c, "deferred-svc")
	if a != b {
		t.Error("deferred singleton re-realized on second Make")
	}
}

func TestRegistry_DeferredProvider_LoadedBeforeBootIsBootedOnce(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	reg.Register(p)

	mustWidget(t, c, "deferred-svc") // load before Boot()
	if p.bootCalled != 0 {
		t.Error("deferred provider booted before registry.Boot()")
	}

	reg.Boot()
	if p.bootCalled != 1 {
		t.Errorf("Boot() calls: got %d want 1", p.bootCalled)
	}
}

// lyingProvider claims an abstract it never registers.
type lyingProvider struct {
	container.BaseProvider
}

func (p *lyingProvider) Register(_ *container.Container) {}
func (p *lyingProvider) IsDeferred() bool                { return true }
func (p *lyingProvider) Provides() []string              { return []string{"phantom"} }

func TestRegistry_DeferredProvider_UnprovidedAbstractFails(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	reg.Register(&lyingProvider{})
	reg.Boot()

	_, err := c.Make("phantom")
	if !errors.Is(err, container.ErrNotRegistered) {
		t.Errorf("got %v, want an unregistered error", err)
	}
}

// ── Multiple providers ────────────────────────────────────────────────────────

func TestRegistry_MultipleProviders_AllServicesResolvable(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	reg.Register(&multiProvider{})
	reg.Register(&eagerProvider{})
	reg.Boot()

	for key, want := range map[string]string{
		"alpha":     "α",
		"beta":      "β",
		"eager-svc": "eager",
	} {
		got, err := c.Make(key)
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		if got != want {
			t.Errorf("%s: got %q, want %q", key, got, want)
		}
	}
}

// ── Providers list ────────────────────────────────────────────────────────────

func TestRegistry_Providers_ReturnsEagerOnes(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	reg.Register(&eagerProvider{})
	reg.Register(&deferredProvider{}) // deferred — not in Providers()

	if len(reg.Providers()) != 1 {
		t.Errorf("Providers(): got %d, want 1 (eager only)", len(reg.Providers()))
	}
}

// ── BaseProvider defaults ─────────────────────────────────────────────────────

func TestBaseProvider_Defaults(t *testing.T) {
	var p container.BaseProvider
	c := container.New()

	p.Boot(c) // should not panic

	if p.IsDeferred() {
		t.Error("BaseProvider.IsDeferred() should be false")
	}
	if len(p.Provides()) != 0 {
		t.Error("BaseProvider.Provides() should return empty slice")
	}
}

// ── Boot after registration (late provider) ───────────────────────────────────

func TestRegistry_RegisterAfterBoot_BootsImmediately(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	reg.Boot() // boot before registering

	p := &eagerProvider{}
	reg.Register(p)

	if p.bootCalled != 1 {
		t.Error("provider registered after Boot() should be booted immediately")
	}
}
