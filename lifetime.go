package container

// Lifetime controls how many instances of a binding the container creates.
type Lifetime int

const (
	// Singleton bindings are realized once; the instance is cached and
	// reused for every subsequent Make until the abstract is re-bound.
	Singleton Lifetime = iota

	// Transient bindings produce a fresh instance on every Make.
	Transient
)

// String returns the human-readable name of the lifetime.
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

func (l Lifetime) valid() bool {
	return l == Singleton || l == Transient
}
