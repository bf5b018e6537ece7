package container

import (
	"fmt"
	"strings"
)

// ── Sentinels ─────────────────────────────────────────────────────────────────

// Sentinel errors for use with errors.Is. Each resolution failure is returned
// as a typed error (below) that wraps one of these, so callers can branch on
// the category without unpacking fields:
//
//	if errors.Is(err, container.ErrNotRegistered) { ... }
var (
	// ErrNotRegistered reports a Make for an abstract with no binding.
	ErrNotRegistered = errorString("container: abstract not registered")

	// ErrMissingDependency reports that auto-wiring needed an abstract that
	// has no binding.
	ErrMissingDependency = errorString("container: missing dependency")

	// ErrCircularDependency reports a dependency cycle detected during
	// resolution.
	ErrCircularDependency = errorString("container: circular dependency")

	// ErrConstructionFailed reports that a factory or constructor returned
	// an error while building an instance.
	ErrConstructionFailed = errorString("container: construction failed")

	// ErrInvalidConstructor reports a function that cannot be used for
	// auto-wiring (wrong shape, variadic, or un-keyable parameters).
	ErrInvalidConstructor = errorString("container: invalid constructor")
)

// errorString is a trivial constant-friendly error.
type errorString string

func (e errorString) Error() string { return string(e) }

// ── Typed errors ──────────────────────────────────────────────────────────────

// UnregisteredError is returned by Make when the requested abstract has no
// binding. The container never substitutes a default or nil instance.
type UnregisteredError struct {
	// Key is the canonical abstract that was requested.
	Key string
}

func (e *UnregisteredError) Error() string {
	return fmt.Sprintf("container: no binding registered for [%s]", e.Key)
}

func (e *UnregisteredError) Unwrap() error { return ErrNotRegistered }

// MissingDependencyError is returned when auto-wiring a constructor and one
// of its parameters has no binding. Construction is abandoned before the
// constructor is invoked; no partially-built instance escapes.
type MissingDependencyError struct {
	// Key is the dependency that could not be resolved.
	Key string
	// RequiredBy is the abstract whose constructor declared the dependency.
	RequiredBy string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("container: cannot build [%s]: no binding registered for dependency [%s]",
		e.RequiredBy, e.Key)
}

func (e *MissingDependencyError) Unwrap() error { return ErrMissingDependency }

// CycleError is returned when resolving an abstract transitively requires
// resolving the same abstract again before its construction completes.
// Path holds the chain of abstracts involved, ending with the repeated one.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "container: circular dependency: " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Unwrap() error { return ErrCircularDependency }

// ConstructionError is returned when a factory or constructor itself fails
// while building an instance. The original cause is attached, never
// swallowed: errors.Is/As see both ErrConstructionFailed and the cause.
type ConstructionError struct {
	// Key is the abstract that was being built.
	Key string
	// Err is the error returned by the factory or constructor.
	Err error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("container: building [%s]: %v", e.Key, e.Err)
}

func (e *ConstructionError) Unwrap() []error { return []error{ErrConstructionFailed, e.Err} }
