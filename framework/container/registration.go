package container

import "reflect"

// ── Lifetime & Kind ───────────────────────────────────────────────────────────

// Lifetime controls how often a registration materializes a value.
type Lifetime int

const (
	// Singleton services are materialized once and cached; every resolution
	// returns the same value until Clear.
	Singleton Lifetime = iota

	// Transient services are produced fresh on every resolution and are
	// never cached.
	Transient
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	}
	return "unknown"
}

// Kind says how a registration satisfies requests for its key.
type Kind int

const (
	// KindInstance is a pre-built value, placed into the singleton cache at
	// registration time.
	KindInstance Kind = iota

	// KindFactory is a user-supplied zero-argument factory function.
	KindFactory

	// KindTypeMap maps the service to an implementation type built by
	// constructor injection.
	KindTypeMap
)

func (k Kind) String() string {
	switch k {
	case KindInstance:
		return "instance"
	case KindFactory:
		return "factory"
	case KindTypeMap:
		return "typemap"
	}
	return "unknown"
}

// ── Registration ──────────────────────────────────────────────────────────────

// Registration is the immutable descriptor stored per ServiceKey. It is
// created once by an Add* call and never mutated; Clear is the only way
// to remove it.
type Registration struct {
	Key      ServiceKey
	Lifetime Lifetime
	Kind     Kind

	// ImplType is the implementation to construct. TypeMap only.
	ImplType reflect.Type

	// Factory produces a value on demand. Factory only.
	Factory func() (any, error)

	// OwnsInstance marks the pre-built value container-owned, so Clear
	// closes it. Instance only.
	OwnsInstance bool
}

// ── Register options ──────────────────────────────────────────────────────────

type registerConfig struct {
	name  string
	owned bool
}

// RegisterOption configures a single Add* call.
type RegisterOption func(*registerConfig)

// WithName registers the service under a non-default name. Name lookup is
// case-insensitive.
func WithName(name string) RegisterOption {
	return func(rc *registerConfig) { rc.name = name }
}

// AsOwned hands ownership of an Instance registration to the container:
// Clear (or Close) closes the value if it implements io.Closer. Without it
// the container only borrows the value.
func AsOwned() RegisterOption {
	return func(rc *registerConfig) { rc.owned = true }
}

func buildRegisterConfig(opts []RegisterOption) registerConfig {
	var rc registerConfig
	for _, opt := range opts {
		opt(&rc)
	}
	return rc
}
