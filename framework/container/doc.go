// Package container provides a type-driven service container: a registry
// of service descriptors plus a resolver that materializes object graphs
// on demand, enforcing lifetime and ownership rules.
//
// # Overview
//
// Services are identified by a ServiceKey — a reflect.Type plus an
// optional case-insensitive name. Each key holds at most one Registration,
// which is one of three kinds:
//
//   - Instance: a pre-built value, cached at registration time
//   - Factory:  a zero-argument function invoked on demand
//   - TypeMap:  an implementation type built by constructor injection
//
// and one of two lifetimes: Singleton (materialized once, cached) or
// Transient (fresh per resolution, never cached).
//
// # Registration
//
//	c := container.New()
//
//	// Pre-built value
//	err := container.AddSingleton(c, cfg)
//
//	// Factory, fresh per resolution
//	err := container.AddFactory(c, container.Transient, func() *Job { return &Job{} })
//
//	// Interface mapped to an implementation type
//	err := container.AddTypeMap[Logger, *ConsoleLogger](c, container.Singleton)
//
// Registering the same (type, name) twice fails with
// ErrDuplicateRegistration; a different name for the same type is a
// separate registration:
//
//	container.AddSingleton(c, primary)
//	container.AddSingleton(c, replica, container.WithName("replica"))
//
// # Constructor injection
//
// Go's reflection cannot enumerate a type's constructors, so a TypeMap
// implementation declares them explicitly:
//
//	c.Constructors(
//	    func() *ConsoleLogger { return &ConsoleLogger{} },
//	    func(log Logger, store *UserStore) *userService { ... },
//	)
//
// Resolution then works in two phases. Selection inspects the declared
// constructors without building anything: a constructor is eligible when
// every parameter is a registered interface, a registered concrete type,
// or a concrete type the container can auto-register; among eligible
// constructors the one with the most parameters wins, falling back to a
// zero-argument constructor (declared or the implicit zero value of a
// pointer-to-struct). Only the winner is materialized: its parameters are
// resolved recursively, unregistered concrete parameters are
// auto-registered as Transient self maps, and the constructed value is
// checked against the requested type before it is returned.
//
// # Resolution
//
//	log, err := container.Resolve[Logger](c)
//	log := container.MustResolve[Logger](c)          // panics on failure
//	log, ok := container.TryResolve[Logger](c)       // false on any failure
//	container.IsRegistered[Logger](c)
//
// A cyclic dependency graph fails fast with ErrCircularDependency instead
// of recursing forever.
//
// # Lifetimes and ownership
//
// Singleton values materialize at most once, even under concurrent first
// resolution: the first caller constructs, concurrent callers wait and
// share the result. Interface values are always borrowed from the
// container. Concrete Singleton values the container constructed are
// container-owned: Clear closes them (io.Closer) exactly once. Concrete
// Transient values belong to whoever resolved them. A pre-built Instance
// is borrowed unless registered with AsOwned.
//
// # Modules
//
//	err := c.AddModule(
//	    modules.ConfigModule{},
//	    modules.LoggerModule{},
//	)
//
// A Module is applied once and discarded; see Module.
//
// # Concurrency
//
// Registry and cache each guard single map operations with their own lock
// and never hold it across a recursive resolve. Cycle detection is
// per-call: two goroutines resolving mutually dependent Singleton keys
// concurrently can still block each other, so keep registration graphs
// acyclic.
package container
