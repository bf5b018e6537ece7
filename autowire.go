package container

import (
	"errors"
	"fmt"
	"reflect"
)

// ── Auto-wiring ───────────────────────────────────────────────────────────────

// constructor is the cached shape of an auto-wired function: the function
// value, the abstract key and reflect type of each parameter, and whether a
// trailing error return is present. All introspection happens once, at
// registration; Make only replays this.
type constructor struct {
	fn     reflect.Value
	params []ctorParam
	hasErr bool
}

type ctorParam struct {
	key string
	typ reflect.Type
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Autowire registers a constructor function whose parameters are resolved
// from the container — Go's stand-in for Laravel reflecting on a class
// constructor and injecting its type-hinted dependencies.
//
// The constructor must be a non-variadic function returning its product,
// optionally with a trailing error. Every parameter must be a named type, a
// pointer to one, or a package-declared interface: its abstract key is
// derived at registration time (package path + type name, one pointer level
// collapsed), so resolution never re-inspects the function. Parameters
// resolve left to right; the first failure abandons the build before the
// constructor runs. Keys collapse one pointer level but assignment is
// strict — a parameter declared *T is only satisfied by a *T instance.
//
// An invalid constructor is rejected here, wrapping ErrInvalidConstructor;
// nothing is registered. Lifetime semantics, replacement on
// re-registration and error taxonomy match Bind and Singleton.
//
//	// Laravel: public function __construct(BookingStore $store, Notifier $notifier)
//	err := c.Autowire(container.TypeKeyFor[*BookingService](),
//	    NewBookingService, container.Singleton)
func (c *Container) Autowire(abstract string, ctor any, lifetime Lifetime) error {
	if !lifetime.valid() {
		return fmt.Errorf("container: autowire [%s]: invalid lifetime %s", abstract, lifetime)
	}
	meta, err := newConstructor(ctor)
	if err != nil {
		return fmt.Errorf("container: autowire [%s]: %w", abstract, err)
	}
	key, wasBound := c.put(abstract, &binding{lifetime: lifetime, ctor: meta})
	if wasBound {
		c.fireRebound(key, nil, true)
	}
	return nil
}

// MustAutowire is like Autowire but panics on an invalid constructor.
func (c *Container) MustAutowire(abstract string, ctor any, lifetime Lifetime) {
	if err := c.Autowire(abstract, ctor, lifetime); err != nil {
		panic(err)
	}
}

// Build constructs one value by resolving the constructor's parameters from
// the container, without registering a binding — like Laravel's
// $app->build(). The product type's key frames the resolution, so cycles
// back into the product are still detected. Extenders and resolved
// callbacks do not apply.
//
//	svc, err := c.Build(NewBookingService)
func (c *Container) Build(ctor any) (any, error) {
	meta, err := newConstructor(ctor)
	if err != nil {
		return nil, fmt.Errorf("container: build: %w", err)
	}
	key, ok := typeKeyOf(meta.fn.Type().Out(0))
	if !ok {
		return nil, fmt.Errorf("container: build: %w: product %s is not a keyable type",
			ErrInvalidConstructor, meta.fn.Type().Out(0))
	}
	return meta.construct(&resolution{c: c, stack: []string{key}}, key)
}

// newConstructor validates ctor and caches its shape. All errors wrap
// ErrInvalidConstructor.
func newConstructor(ctor any) (*constructor, error) {
	if ctor == nil {
		return nil, fmt.Errorf("%w: nil constructor", ErrInvalidConstructor)
	}
	t := reflect.TypeOf(ctor)
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: not a function (got %T)", ErrInvalidConstructor, ctor)
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic functions are not supported", ErrInvalidConstructor)
	}
	switch {
	case t.NumOut() == 0:
		return nil, fmt.Errorf("%w: constructor must return its product", ErrInvalidConstructor)
	case t.NumOut() > 2:
		return nil, fmt.Errorf("%w: constructor returns %d values, want 1 or 2",
			ErrInvalidConstructor, t.NumOut())
	case t.NumOut() == 2 && !t.Out(1).Implements(errType):
		return nil, fmt.Errorf("%w: second return value must be error (got %s)",
			ErrInvalidConstructor, t.Out(1))
	case t.Out(0) == errType:
		return nil, fmt.Errorf("%w: constructor returns only an error", ErrInvalidConstructor)
	}

	params := make([]ctorParam, t.NumIn())
	for i := range params {
		key, ok := typeKeyOf(t.In(i))
		if !ok {
			return nil, fmt.Errorf("%w: parameter %d (%s) is not a keyable type",
				ErrInvalidConstructor, i, t.In(i))
		}
		params[i] = ctorParam{key: key, typ: t.In(i)}
	}
	return &constructor{
		fn:     reflect.ValueOf(ctor),
		params: params,
		hasErr: t.NumOut() == 2,
	}, nil
}

// construct resolves the cached parameter keys and calls the constructor.
// key is the abstract being built; r already carries it on the resolution
// path.
func (k *constructor) construct(r *resolution, key string) (any, error) {
	args := make([]reflect.Value, len(k.params))
	for i, p := range k.params {
		dep, err := r.Make(p.key)
		if err != nil {
			var ue *UnregisteredError
			if errors.As(err, &ue) && ue.Key == r.c.canonical(p.key) {
				return nil, &MissingDependencyError{Key: ue.Key, RequiredBy: key}
			}
			return nil, err
		}
		av, err := assign(dep, p.typ)
		if err != nil {
			return nil, &ConstructionError{Key: key, Err: fmt.Errorf("dependency [%s]: %w", p.key, err)}
		}
		args[i] = av
	}
	out := k.fn.Call(args)
	if k.hasErr && !out[1].IsNil() {
		return nil, &ConstructionError{Key: key, Err: out[1].Interface().(error)}
	}
	return out[0].Interface(), nil
}

// assign adapts a resolved dependency to the parameter type. A nil
// dependency becomes the parameter's zero value.
func assign(dep any, want reflect.Type) (reflect.Value, error) {
	if dep == nil {
		return reflect.Zero(want), nil
	}
	v := reflect.ValueOf(dep)
	if !v.Type().AssignableTo(want) {
		return reflect.Value{}, fmt.Errorf("resolved %T, want %s", dep, want)
	}
	return v, nil
}
