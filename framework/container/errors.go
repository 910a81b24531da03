package container

import "errors"

// Sentinel errors. All failures returned by the container wrap one of
// these, so callers can branch with errors.Is.
var (
	// ErrDuplicateRegistration is returned by Add* when the key is already
	// taken. Registration is fail-fast, never an upsert.
	ErrDuplicateRegistration = errors.New("container: duplicate registration")

	// ErrServiceNotRegistered is returned when no registration exists for
	// the requested key.
	ErrServiceNotRegistered = errors.New("container: service not registered")

	// ErrResolutionFailed is returned when a registration exists but could
	// not produce a value: no eligible constructor, a failing factory, or a
	// constructed value that does not satisfy the requested type. Kept
	// distinct from ErrServiceNotRegistered so callers can tell "absent"
	// from "broken".
	ErrResolutionFailed = errors.New("container: resolution failed")

	// ErrCircularDependency is returned when a resolution re-enters a key
	// already being resolved on the same call.
	ErrCircularDependency = errors.New("container: circular dependency")

	// ErrInvalidRegistration is returned for unusable Add* or Constructors
	// arguments: nil factories, interface implementation types, constructor
	// functions with the wrong shape.
	ErrInvalidRegistration = errors.New("container: invalid registration")
)
