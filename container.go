package container

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a concrete value. It receives a Resolver so nested lookups
// stay on the same resolution path, which is what lets the container detect
// cycles that run through factory closures.
type Factory func(r Resolver) (any, error)

// Extender wraps an already-resolved instance with decorator logic.
type Extender func(instance any, r Resolver) any

// binding holds a registered producer, its lifetime, and — for singletons —
// the realized instance.
type binding struct {
	lifetime Lifetime
	factory  Factory      // closure producer; nil when ctor is set
	ctor     *constructor // auto-wired producer; nil when factory is set

	mu       sync.RWMutex // guards realized and instance
	realized bool
	instance any
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container — mirrors Laravel's
// Illuminate\Container\Container.
//
// It supports:
//   - Bind / Singleton / Instance / Alias
//   - Autowire (constructor-parameter injection) / Build
//   - Make / Resolve (generic), always with typed errors
//   - Tags (group multiple abstractions under one tag)
//   - Extend (decorate / wrap resolved instances)
//   - Contextual binding (when A needs B, give it C)
//   - Rebound and resolved event callbacks
//
// A Container is safe for concurrent use. Re-registering an abstract
// silently replaces the previous binding — that is the resolution policy,
// not an error — and resets any cached singleton so the next Make
// re-realizes it from the new producer.
//
// The container holds no hidden global state: create one explicitly with
// New and pass it where it is needed.
type Container struct {
	mu sync.RWMutex

	// abstract → binding
	bindings map[string]*binding

	// alias → abstract (canonical key)
	aliases map[string]string

	// abstract → extender funcs
	extenders map[string][]Extender

	// tag → []abstract
	tags map[string][]string

	// contextual: when[concrete][abstract] = factory
	contextual map[string]map[string]Factory

	// rebound callbacks: abstract → []func(any)
	reboundCallbacks map[string][]func(any)

	// resolved callbacks: []func(abstract, instance)
	afterResolving []func(string, any)
}

// New creates an empty container.
func New() *Container {
	c := &Container{
		bindings:         make(map[string]*binding),
		aliases:          make(map[string]string),
		extenders:        make(map[string][]Extender),
		tags:             make(map[string][]string),
		contextual:       make(map[string]map[string]Factory),
		reboundCallbacks: make(map[string][]func(any)),
	}
	// Bind the container to itself — like Laravel's $app->instance()
	c.Instance("container", c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory: a new instance on each Make.
// The factory is not invoked here.
//
//	// Laravel: $app->bind(UserRepository::class, fn($app) => new EloquentUserRepository($app))
//	c.Bind("repository", func(r container.Resolver) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](r, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewRepository(cfg), nil
//	})
func (c *Container) Bind(abstract string, factory Factory) {
	key, wasBound := c.put(abstract, &binding{lifetime: Transient, factory: factory})
	if wasBound {
		c.fireRebound(key, nil, true)
	}
}

// Singleton registers a factory whose result is cached after the first
// resolution. The factory runs at most once per registration, lazily, even
// under concurrent first-time Make calls from multiple goroutines.
//
//	// Laravel: $app->singleton(Cache::class, fn($app) => new RedisCache($app))
//	c.Singleton("cache", func(r container.Resolver) (any, error) {
//	    return NewMemoryCache(), nil
//	})
func (c *Container) Singleton(abstract string, factory Factory) {
	key, wasBound := c.put(abstract, &binding{lifetime: Singleton, factory: factory})
	if wasBound {
		c.fireRebound(key, nil, true)
	}
}

// Instance registers a pre-built value as an eagerly-realized singleton.
//
//	// Laravel: $app->instance(Config::class, $config)
//	c.Instance("config", myConfig)
func (c *Container) Instance(abstract string, value any) {
	b := &binding{lifetime: Singleton, realized: true, instance: value}
	key, _ := c.put(abstract, b)
	c.fireRebound(key, value, false)
}

// put installs a binding under the canonical key, replacing any previous
// binding for that key. Replacement discards the old binding object
// wholesale, so a cached singleton is reset along with it.
func (c *Container) put(abstract string, b *binding) (key string, wasBound bool) {
	c.mu.Lock()
	key = c.canonicalLocked(abstract)
	_, wasBound = c.bindings[key]
	c.bindings[key] = b
	c.mu.Unlock()
	return key, wasBound
}

// Alias registers an alternative name for an abstract.
//
//	// Laravel: $app->alias(Cache::class, 'cache')
//	c.Alias("log", "logger")
func (c *Container) Alias(abstract, alias string) {
	if abstract == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", abstract))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aliases[alias] = c.canonicalLocked(abstract)
}

// canonicalLocked resolves an alias to its canonical key (must hold mu).
func (c *Container) canonicalLocked(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

func (c *Container) canonical(abstract string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.canonicalLocked(abstract)
}

// lookup returns the binding for a canonical key, if any.
func (c *Container) lookup(key string) (*binding, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bindings[key]
	return b, ok
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates the resolved instance of an abstract. Extenders run in
// registration order after the producer, before a singleton is cached.
// Extending an already-realized singleton applies the new extender to the
// cached instance immediately.
//
//	// Laravel: $app->extend(Logger::class, fn($logger, $app) => new TimestampLogger($logger))
//	c.Extend("notifier", func(instance any, r container.Resolver) any {
//	    return &RetryingNotifier{Inner: instance.(Notifier)}
//	})
func (c *Container) Extend(abstract string, fn Extender) {
	c.mu.Lock()
	key := c.canonicalLocked(abstract)
	c.extenders[key] = append(c.extenders[key], fn)
	b := c.bindings[key]
	c.mu.Unlock()

	if b == nil || b.lifetime != Singleton {
		return
	}
	b.mu.Lock()
	if !b.realized {
		b.mu.Unlock()
		return
	}
	b.instance = fn(b.instance, c)
	v := b.instance
	b.mu.Unlock()
	c.fireRebound(key, v, false)
}

// extendersFor snapshots the extender chain for a key.
func (c *Container) extendersFor(key string) []Extender {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.extenders[key]) == 0 {
		return nil
	}
	out := make([]Extender, len(c.extenders[key]))
	copy(out, c.extenders[key])
	return out
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates multiple abstracts under a named group.
//
//	// Laravel: $app->tag([CpuReport::class, MemoryReport::class], 'reports')
//	c.Tag([]string{"report.cpu", "report.memory"}, "reports")
func (c *Container) Tag(abstracts []string, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[tag] = append(c.tags[tag], abstracts...)
}

// taggedAbstracts snapshots the abstracts registered under a tag.
func (c *Container) taggedAbstracts(tag string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.tags[tag]))
	copy(out, c.tags[tag])
	return out
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound returns true if an abstract has been registered.
//
//	// Laravel: $app->bound(UserRepository::class)
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.bindings[c.canonicalLocked(abstract)]
	return ok
}

// Resolved returns true if the abstract is a singleton that has been
// realized at least once. Transient bindings never report resolved.
//
//	// Laravel: $app->resolved(Cache::class)
func (c *Container) Resolved(abstract string) bool {
	b, ok := c.lookup(c.canonical(abstract))
	if !ok {
		return false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.realized
}

// Forget removes the binding for an abstract, along with any cached
// singleton instance. Aliases pointing at the abstract are left in place.
func (c *Container) Forget(abstract string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.bindings, c.canonicalLocked(abstract))
}

// Flush resets the entire container, including the self-binding installed
// by New.
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings = make(map[string]*binding)
	c.aliases = make(map[string]string)
	c.extenders = make(map[string][]Extender)
	c.tags = make(map[string][]string)
	c.contextual = make(map[string]map[string]Factory)
	c.reboundCallbacks = make(map[string][]func(any))
	c.afterResolving = nil
}

// Bindings returns the sorted canonical keys of all registered abstracts.
func (c *Container) Bindings() []string {
	c.mu.RLock()
	out := make([]string, 0, len(c.bindings))
	for k := range c.bindings {
		out = append(out, k)
	}
	c.mu.RUnlock()
	sort.Strings(out)
	return out
}

// ServiceInfo describes one registered binding, for diagnostics.
type ServiceInfo struct {
	Abstract  string
	Lifetime  Lifetime
	Realized  bool
	Autowired bool
}

// Services returns diagnostic information for every binding, sorted by
// abstract.
func (c *Container) Services() []ServiceInfo {
	c.mu.RLock()
	infos := make([]ServiceInfo, 0, len(c.bindings))
	for k, b := range c.bindings {
		b.mu.RLock()
		infos = append(infos, ServiceInfo{
			Abstract:  k,
			Lifetime:  b.lifetime,
			Realized:  b.realized,
			Autowired: b.ctor != nil,
		})
		b.mu.RUnlock()
	}
	c.mu.RUnlock()
	sort.Slice(infos, func(i, j int) bool { return infos[i].Abstract < infos[j].Abstract })
	return infos
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// Rebinding registers a callback invoked whenever the abstract is re-bound
// or re-set via Instance. For factory re-binds the container resolves the
// abstract eagerly to obtain the new instance; if that resolution fails the
// callbacks are skipped. Callbacks must not resolve the abstract they
// observe.
//
//	// Laravel: $app->rebinding(UserRepository::class, fn($app, $repo) => ...)
func (c *Container) Rebinding(abstract string, cb func(any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonicalLocked(abstract)
	c.reboundCallbacks[key] = append(c.reboundCallbacks[key], cb)
}

// AfterResolving registers a callback fired after any abstract is freshly
// built. Cached singleton hits do not fire. Callbacks observe the instance;
// they must not resolve abstracts that are mid-construction.
//
//	// Laravel: $app->afterResolving(fn($object, $app) => ...)
func (c *Container) AfterResolving(cb func(abstract string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

// fireRebound invokes rebound callbacks for key. When remake is set the new
// instance is obtained by resolving the abstract; errors skip the callbacks
// (registration itself never fails on a bad producer).
func (c *Container) fireRebound(key string, instance any, remake bool) {
	c.mu.RLock()
	cbs := make([]func(any), len(c.reboundCallbacks[key]))
	copy(cbs, c.reboundCallbacks[key])
	c.mu.RUnlock()
	if len(cbs) == 0 {
		return
	}
	if remake {
		v, err := c.Make(key)
		if err != nil {
			return
		}
		instance = v
	}
	for _, cb := range cbs {
		cb(instance)
	}
}

func (c *Container) fireAfterResolving(key string, instance any) {
	c.mu.RLock()
	cbs := make([]func(string, any), len(c.afterResolving))
	copy(cbs, c.afterResolving)
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(key, instance)
	}
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v, useful as a stable
// abstract key when working with interfaces. A pointer is dereferenced one
// level, so a concrete value and a pointer to it share one key — the key
// names the abstraction, not its representation.
//
//	key := container.TypeKey((*Notifier)(nil))  // "booking.Notifier"
//	c.Singleton(key, factory)
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}

// TypeKeyFor is the generic form of TypeKey.
//
//	key := container.TypeKeyFor[Notifier]()   // "booking.Notifier"
//	key := container.TypeKeyFor[*zap.Logger]() // "go.uber.org/zap.Logger"
func TypeKeyFor[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}

// typeKeyOf derives the abstract key for a constructor parameter or product
// type. Only named types, pointers to named types, and interfaces declared
// in a package are keyable.
func typeKeyOf(t reflect.Type) (string, bool) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return "", false
	}
	return t.PkgPath() + "." + t.Name(), true
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve resolves an abstract and type-asserts the result.
//
//	// Instead of: v, err := c.Make("config"); cfg := v.(*config.Config)
//	// Write:      cfg, err := container.Resolve[*config.Config](c, "config")
func Resolve[T any](r Resolver, abstract string) (T, error) {
	var zero T
	v, err := r.Make(abstract)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("container: [%s] resolved to %T, want %T", abstract, v, zero)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on failure. Intended for bootstrap
// code where a wiring error is fatal.
func MustResolve[T any](r Resolver, abstract string) T {
	v, err := Resolve[T](r, abstract)
	if err != nil {
		panic(err)
	}
	return v
}
