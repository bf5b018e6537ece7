package container

import (
	"fmt"
	"slices"
)

// ── Resolver ──────────────────────────────────────────────────────────────────

// Resolver is the read side of the container: what factories, extenders and
// application code use to obtain instances. *Container implements it with a
// fresh resolution path. The resolver handed to a factory carries the
// in-flight path instead, so cycles that run through factory closures are
// reported as CycleError rather than recursing forever.
type Resolver interface {
	// Make resolves an abstract.
	Make(abstract string) (any, error)
	// Tagged resolves every abstract registered under a tag, in
	// registration order.
	Tagged(tag string) ([]any, error)
}

var (
	_ Resolver = (*Container)(nil)
	_ Resolver = (*resolution)(nil)
)

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract registered in the container.
//
// A transient binding produces a fresh instance per call. A singleton is
// realized at most once per registration — concurrent first-time calls
// block until the one invocation of the producer finishes, then share the
// instance. A singleton whose producer failed stays unrealized and is
// retried on the next Make.
//
// Failures come back as typed errors: UnregisteredError for an unknown
// abstract, MissingDependencyError for an unsatisfied constructor
// parameter, CycleError for circular dependencies, ConstructionError when
// the producer itself fails. The container never substitutes a nil or
// default instance for a failed resolution.
//
//	// Laravel: $app->make(UserRepository::class)
//	repo, err := c.Make("repository")
func (c *Container) Make(abstract string) (any, error) {
	return (&resolution{c: c}).Make(abstract)
}

// MustMake is like Make but panics on failure. Intended for bootstrap code
// where a wiring error is fatal.
func (c *Container) MustMake(abstract string) any {
	v, err := c.Make(abstract)
	if err != nil {
		panic(err)
	}
	return v
}

// Tagged resolves every abstract registered under a tag, in registration
// order.
//
//	// Laravel: $app->tagged('reports')
//	reports, err := c.Tagged("reports")
func (c *Container) Tagged(tag string) ([]any, error) {
	return (&resolution{c: c}).Tagged(tag)
}

// resolution is one resolution pass over the container. stack holds the
// canonical keys currently under construction, outermost first; it is what
// turns runaway recursion into a CycleError.
type resolution struct {
	c     *Container
	stack []string
}

func (r *resolution) Make(abstract string) (any, error) {
	key := r.c.canonical(abstract)

	if slices.Contains(r.stack, key) {
		return nil, &CycleError{Path: append(slices.Clone(r.stack), key)}
	}

	// A contextual override declared by the consumer currently being built
	// wins over the global binding.
	if fct := r.contextualFactory(key); fct != nil {
		return r.invoke(key, fct)
	}

	b, ok := r.c.lookup(key)
	if !ok {
		return nil, &UnregisteredError{Key: key}
	}

	if b.lifetime == Singleton {
		return r.realize(key, b)
	}

	v, err := r.produce(key, b)
	if err != nil {
		return nil, err
	}
	r.c.fireAfterResolving(key, v)
	return v, nil
}

// realize returns the cached singleton instance, building it under the
// binding lock so concurrent first-time resolutions run the producer
// exactly once. A failed build leaves the binding unrealized.
func (r *resolution) realize(key string, b *binding) (any, error) {
	b.mu.RLock()
	if b.realized {
		v := b.instance
		b.mu.RUnlock()
		return v, nil
	}
	b.mu.RUnlock()

	b.mu.Lock()
	if b.realized {
		v := b.instance
		b.mu.Unlock()
		return v, nil
	}
	v, err := r.produce(key, b)
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}
	b.realized = true
	b.instance = v
	b.mu.Unlock()

	r.c.fireAfterResolving(key, v)
	return v, nil
}

// produce runs the binding's producer and extender chain with key pushed
// onto the resolution path.
func (r *resolution) produce(key string, b *binding) (any, error) {
	child := &resolution{c: r.c, stack: append(slices.Clone(r.stack), key)}

	var v any
	var err error
	if b.ctor != nil {
		v, err = b.ctor.construct(child, key)
	} else {
		v, err = b.factory(child)
		if err != nil {
			err = &ConstructionError{Key: key, Err: err}
		}
	}
	if err != nil {
		return nil, err
	}
	for _, fn := range r.c.extendersFor(key) {
		v = fn(v, child)
	}
	return v, nil
}

// invoke runs a contextual factory for key. Contextual overrides build per
// resolution and bypass the global binding, its lifetime and its extenders.
func (r *resolution) invoke(key string, fct Factory) (any, error) {
	child := &resolution{c: r.c, stack: append(slices.Clone(r.stack), key)}
	v, err := fct(child)
	if err != nil {
		return nil, &ConstructionError{Key: key, Err: err}
	}
	r.c.fireAfterResolving(key, v)
	return v, nil
}

// contextualFactory returns the override factory when the consumer at the
// top of the resolution path declared one for key.
func (r *resolution) contextualFactory(key string) Factory {
	if len(r.stack) == 0 {
		return nil
	}
	caller := r.stack[len(r.stack)-1]
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	return r.c.contextual[caller][key]
}

func (r *resolution) Tagged(tag string) ([]any, error) {
	keys := r.c.taggedAbstracts(tag)
	out := make([]any, 0, len(keys))
	for _, a := range keys {
		v, err := r.Make(a)
		if err != nil {
			return nil, fmt.Errorf("container: resolving tag [%s]: %w", tag, err)
		}
		out = append(out, v)
	}
	return out, nil
}
