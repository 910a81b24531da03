package container

import (
	"fmt"
	"reflect"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container composes the service registry, the singleton cache and the
// constructor table behind a registration and resolution API. Create one
// with New and pass it around explicitly — there is deliberately no
// package-level default container.
//
// All operations are safe for concurrent use. Resolution runs on the
// calling goroutine and recurses as deep as the dependency graph.
type Container struct {
	registry *serviceRegistry
	cache    *singletonCache
	ctors    *constructorTable
}

// New creates an empty container.
func New() *Container {
	return &Container{
		registry: newServiceRegistry(),
		cache:    newSingletonCache(),
		ctors:    newConstructorTable(),
	}
}

// Constructors declares the public constructors of one or more
// implementation types. Each argument must be a non-variadic function
// returning the constructed value, optionally with a trailing error; the
// return type decides which implementation the constructor belongs to.
//
//	c.Constructors(
//	    func(log Logger) *UserStore { ... },
//	    func(store *UserStore, log Logger) (*UserService, error) { ... },
//	)
//
// The resolver treats these as the type's declared constructors when a
// TypeMap registration is materialized.
func (c *Container) Constructors(ctors ...any) error {
	for _, fn := range ctors {
		if err := c.ctors.add(fn); err != nil {
			return err
		}
	}
	return nil
}

// AddModule applies each module's registrations immediately. Modules are
// not retained — a module is a grouping of Add* calls, nothing more. The
// first failing module stops the application and its error is returned.
func (c *Container) AddModule(modules ...Module) error {
	for _, m := range modules {
		if err := m.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes every registration, forgets declared constructors and
// empties the singleton cache, closing container-owned instances exactly
// once. Every key returns to the unregistered state.
func (c *Container) Clear() {
	c.registry.Clear()
	c.ctors.clear()
	c.cache.Clear()
}

// Close releases the container. It is equivalent to Clear and satisfies
// io.Closer so a container can be tied to the lifetime of whatever built
// it.
func (c *Container) Close() error {
	c.Clear()
	return nil
}

// Keys returns a snapshot of every registered ServiceKey, for diagnostics.
func (c *Container) Keys() []ServiceKey {
	return c.registry.Keys()
}

// resolveAny resolves a key through a fresh resolution stack. Ownership of
// Transient class values passes silently to the caller here; everything
// else is borrowed from the container.
func (c *Container) resolveAny(t reflect.Type, name string) (any, error) {
	var stack resolutionStack
	v, _, err := c.resolve(NewServiceKey(t, name), &stack)
	return v, err
}

// ── Registration API ──────────────────────────────────────────────────────────

// AddSingleton registers a pre-built value for T. The value enters the
// singleton cache immediately; resolution never constructs anything for
// it. By default the container borrows the value — pass AsOwned to have
// Clear close it.
//
//	err := container.AddSingleton[Cache](c, redisCache)
//	err := container.AddSingleton(c, db, container.AsOwned())
func AddSingleton[T any](c *Container, instance T, opts ...RegisterOption) error {
	cfg := buildRegisterConfig(opts)
	key := NewServiceKey(reflect.TypeOf((*(T))(nil)).Elem(), cfg.name)

	err := c.registry.Add(&Registration{
		Key:          key,
		Lifetime:     Singleton,
		Kind:         KindInstance,
		OwnsInstance: cfg.owned,
	})
	if err != nil {
		return err
	}
	c.cache.PutInstance(key, instance, cfg.owned)
	return nil
}

// AddFactory registers a zero-argument factory for T. A Singleton factory
// runs at most once and its result is cached borrowed; a Transient factory
// runs on every resolution.
//
//	err := container.AddFactory(c, container.Transient, func() *Request {
//	    return &Request{ID: newID()}
//	})
func AddFactory[T any](c *Container, lifetime Lifetime, factory func() T, opts ...RegisterOption) error {
	if factory == nil {
		return fmt.Errorf("%w: nil factory for %s", ErrInvalidRegistration, reflect.TypeOf((*(T))(nil)).Elem())
	}
	cfg := buildRegisterConfig(opts)

	return c.registry.Add(&Registration{
		Key:      NewServiceKey(reflect.TypeOf((*(T))(nil)).Elem(), cfg.name),
		Lifetime: lifetime,
		Kind:     KindFactory,
		Factory:  func() (any, error) { return factory(), nil },
	})
}

// AddTypeMap maps requests for TService to construction of TImpl via the
// declared constructors (see Constructors). TImpl must be concrete and
// satisfy TService; both are checked here, at registration time.
//
//	err := container.AddTypeMap[Logger, *ConsoleLogger](c, container.Singleton)
//	err := container.AddTypeMap[UserService, *userService](c, container.Transient)
func AddTypeMap[TService, TImpl any](c *Container, lifetime Lifetime, opts ...RegisterOption) error {
	svc := reflect.TypeOf((*(TService))(nil)).Elem()
	impl := reflect.TypeOf((*(TImpl))(nil)).Elem()
	if impl.Kind() == reflect.Interface {
		return fmt.Errorf("%w: implementation %s is not a concrete type", ErrInvalidRegistration, impl)
	}
	if !satisfies(impl, svc) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrInvalidRegistration, impl, svc)
	}
	cfg := buildRegisterConfig(opts)

	return c.registry.Add(&Registration{
		Key:      NewServiceKey(svc, cfg.name),
		Lifetime: lifetime,
		Kind:     KindTypeMap,
		ImplType: impl,
	})
}

// ── Resolution API ────────────────────────────────────────────────────────────

// Resolve materializes the service registered for T, optionally under a
// name. The error distinguishes a missing registration
// (ErrServiceNotRegistered) from a failed construction
// (ErrResolutionFailed, ErrCircularDependency).
//
//	cache, err := container.Resolve[Cache](c)
//	named, err := container.Resolve[Cache](c, "redis")
func Resolve[T any](c *Container, name ...string) (T, error) {
	var zero T
	v, err := c.resolveAny(reflect.TypeOf((*(T))(nil)).Elem(), optName(name))
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s resolved to %T", ErrResolutionFailed, KeyOf[T](name...), v)
	}
	return typed, nil
}

// MustResolve is Resolve that panics on failure. Use it for wiring done at
// startup, where a missing service is a programming error.
func MustResolve[T any](c *Container, name ...string) T {
	v, err := Resolve[T](c, name...)
	if err != nil {
		panic(err)
	}
	return v
}

// TryResolve returns (zero, false) both when the key is unregistered and
// when its construction fails; call Resolve to tell the two apart.
func TryResolve[T any](c *Container, name ...string) (T, bool) {
	v, err := Resolve[T](c, name...)
	return v, err == nil
}

// IsRegistered reports whether a registration exists for T under the
// optional name. It says nothing about whether the service is resolvable.
func IsRegistered[T any](c *Container, name ...string) bool {
	return c.registry.Contains(KeyOf[T](name...))
}
