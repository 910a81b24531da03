package container

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

var errType = reflect.TypeOf((*(error))(nil)).Elem()

// ── Constructor table ─────────────────────────────────────────────────────────

// constructorTable maps an implementation type to its declared constructor
// functions. It stands in for constructor enumeration, which Go reflection
// cannot do: each entry is a non-variadic func whose first return value is
// the type it constructs, optionally followed by an error.
type constructorTable struct {
	mu    sync.RWMutex
	ctors map[reflect.Type][]reflect.Value
}

func newConstructorTable() *constructorTable {
	return &constructorTable{ctors: make(map[reflect.Type][]reflect.Value)}
}

func (t *constructorTable) add(fn any) error {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return fmt.Errorf("%w: constructor %T is not a function", ErrInvalidRegistration, fn)
	}
	ft := v.Type()
	if ft.IsVariadic() {
		return fmt.Errorf("%w: constructor %s is variadic", ErrInvalidRegistration, ft)
	}
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errType {
			return fmt.Errorf("%w: constructor %s: second return value must be error", ErrInvalidRegistration, ft)
		}
	default:
		return fmt.Errorf("%w: constructor %s must return the constructed value and an optional error", ErrInvalidRegistration, ft)
	}
	out := ft.Out(0)
	if out.Kind() == reflect.Interface {
		return fmt.Errorf("%w: constructor %s returns an interface, want a concrete type", ErrInvalidRegistration, ft)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.ctors[out] = append(t.ctors[out], v)
	return nil
}

// candidates returns a copy of the declared constructors for impl.
func (t *constructorTable) candidates(impl reflect.Type) []reflect.Value {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ctors := t.ctors[impl]
	out := make([]reflect.Value, len(ctors))
	copy(out, ctors)
	return out
}

func (t *constructorTable) has(impl reflect.Type) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ctors[impl]) > 0
}

func (t *constructorTable) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ctors = make(map[reflect.Type][]reflect.Value)
}

// ── Resolution stack ──────────────────────────────────────────────────────────

// resolutionStack tracks the keys in progress on the current call, so a
// cyclic dependency graph fails fast instead of recursing forever. The
// check runs before the singleton cache is consulted, which also keeps the
// cache's in-flight wait from deadlocking against the same goroutine.
type resolutionStack struct {
	keys []ServiceKey
}

func (s *resolutionStack) push(key ServiceKey) error {
	for _, k := range s.keys {
		if k == key {
			return fmt.Errorf("%w: %s", ErrCircularDependency, s.chain(key))
		}
	}
	s.keys = append(s.keys, key)
	return nil
}

func (s *resolutionStack) pop() {
	s.keys = s.keys[:len(s.keys)-1]
}

func (s *resolutionStack) chain(key ServiceKey) string {
	parts := make([]string, 0, len(s.keys)+1)
	for _, k := range s.keys {
		parts = append(parts, k.String())
	}
	parts = append(parts, key.String())
	return strings.Join(parts, " -> ")
}

// ── Resolution ────────────────────────────────────────────────────────────────

// resolve is the internal resolution entry point. The owned result reports
// whether the caller is responsible for the value's lifetime; it is true
// only for Transient class-path values, which the container never retains.
func (c *Container) resolve(key ServiceKey, stack *resolutionStack) (value any, owned bool, err error) {
	if err := stack.push(key); err != nil {
		return nil, false, err
	}
	defer stack.pop()

	if key.IsInterface() {
		v, err := c.resolveInterface(key, stack)
		return v, false, err
	}
	return c.resolveClass(key, stack)
}

// resolveInterface handles requests for interface services. Interface
// values are always borrowed: the cache never owns them, and the garbage
// collector plays the part of reference counting.
func (c *Container) resolveInterface(key ServiceKey, stack *resolutionStack) (any, error) {
	if cv, ok := c.cache.TryGet(key); ok {
		return cv.value, nil
	}

	reg, ok := c.registry.TryGet(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotRegistered, key)
	}

	switch reg.Kind {
	case KindInstance:
		// Instance registrations enter the cache at Add time; a miss here
		// means registry and cache disagree.
		return nil, fmt.Errorf("%w: %s: instance registration has no cached value", ErrResolutionFailed, key)

	case KindFactory:
		if reg.Lifetime == Singleton {
			return c.cache.Materialize(key, func() (any, bool, error) {
				v, err := c.invokeFactory(reg)
				return v, false, err
			})
		}
		return c.invokeFactory(reg)

	case KindTypeMap:
		if reg.Lifetime == Singleton {
			return c.cache.Materialize(key, func() (any, bool, error) {
				v, err := c.construct(reg.ImplType, key, stack)
				return v, false, err
			})
		}
		return c.construct(reg.ImplType, key, stack)
	}

	return nil, fmt.Errorf("%w: %s: unknown registration kind %d", ErrResolutionFailed, key, reg.Kind)
}

// resolveClass handles requests for concrete services. Singleton values
// constructed by the container are cached owned (Clear closes them);
// Transient values are returned uncached with ownership passing to the
// caller.
func (c *Container) resolveClass(key ServiceKey, stack *resolutionStack) (any, bool, error) {
	if cv, ok := c.cache.TryGet(key); ok {
		return cv.value, false, nil
	}

	reg, ok := c.registry.TryGet(key)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrServiceNotRegistered, key)
	}

	switch reg.Kind {
	case KindInstance:
		return nil, false, fmt.Errorf("%w: %s: instance registration has no cached value", ErrResolutionFailed, key)

	case KindFactory:
		if reg.Lifetime == Singleton {
			v, err := c.cache.Materialize(key, func() (any, bool, error) {
				v, err := c.invokeFactory(reg)
				return v, false, err
			})
			return v, false, err
		}
		v, err := c.invokeFactory(reg)
		return v, err == nil, err

	case KindTypeMap:
		if reg.Lifetime == Singleton {
			v, err := c.cache.Materialize(key, func() (any, bool, error) {
				v, err := c.construct(reg.ImplType, key, stack)
				return v, true, err
			})
			return v, false, err
		}
		v, err := c.construct(reg.ImplType, key, stack)
		return v, err == nil, err
	}

	return nil, false, fmt.Errorf("%w: %s: unknown registration kind %d", ErrResolutionFailed, key, reg.Kind)
}

func (c *Container) invokeFactory(reg *Registration) (any, error) {
	v, err := reg.Factory()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: factory: %v", ErrResolutionFailed, reg.Key, err)
	}
	return v, nil
}

// ── Constructor selection ─────────────────────────────────────────────────────

// selectedCtor is the outcome of the selection phase: either a declared
// constructor function, or the implicit zero-value constructor for a
// pointer-to-struct implementation.
type selectedCtor struct {
	fn       reflect.Value
	declared bool
}

// selectConstructor runs the selection phase. It is free of side effects:
// nothing is constructed and nothing is registered here. Among impl's
// declared constructors whose every parameter is resolvable, the one with
// the most parameters wins — richer injection beats a minimal constructor.
// Zero-argument constructors are trivially eligible and sort last, so they
// act as the fallback; with no declared constructor at all, a
// pointer-to-struct still has its implicit zero-value constructor.
func (c *Container) selectConstructor(impl reflect.Type) (selectedCtor, bool) {
	candidates := c.ctors.candidates(impl)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Type().NumIn() > candidates[j].Type().NumIn()
	})

	for _, fn := range candidates {
		if c.allParamsEligible(fn.Type()) {
			return selectedCtor{fn: fn, declared: true}, true
		}
	}
	if impl.Kind() == reflect.Pointer && impl.Elem().Kind() == reflect.Struct {
		return selectedCtor{}, true
	}
	return selectedCtor{}, false
}

// allParamsEligible checks a constructor's parameter list without resolving
// anything: interfaces must already be registered under the default name;
// concrete parameters must be registered or auto-constructible.
func (c *Container) allParamsEligible(ft reflect.Type) bool {
	for i := 0; i < ft.NumIn(); i++ {
		p := ft.In(i)
		if p.Kind() == reflect.Interface {
			if !c.registry.Contains(NewServiceKey(p, "")) {
				return false
			}
			continue
		}
		if !c.registry.Contains(NewServiceKey(p, "")) && !c.constructible(p) {
			return false
		}
	}
	return true
}

// constructible reports whether an unregistered concrete type can be
// auto-registered: it has declared constructors, or is a pointer to struct
// and so carries the implicit zero-value constructor.
func (c *Container) constructible(t reflect.Type) bool {
	if c.ctors.has(t) {
		return true
	}
	return t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct
}

// ── Materialization ───────────────────────────────────────────────────────────

// construct builds an instance of impl and verifies it satisfies the
// requested key's type. Selection happens first and commits to a single
// constructor; only then are live argument values materialized, so no
// dependents are constructed for candidates that lose the selection.
func (c *Container) construct(impl reflect.Type, requested ServiceKey, stack *resolutionStack) (any, error) {
	sel, ok := c.selectConstructor(impl)
	if !ok {
		return nil, fmt.Errorf("%w: %s: no eligible constructor for %s", ErrResolutionFailed, requested, impl)
	}

	instance, err := c.invokeConstructor(sel, impl, stack)
	if err != nil {
		return nil, err
	}

	if !satisfies(reflect.TypeOf(instance), requested.Type) {
		release(instance)
		return nil, fmt.Errorf("%w: %s: constructed %T does not satisfy %s",
			ErrResolutionFailed, requested, instance, requested.Type)
	}
	return instance, nil
}

// invokeConstructor materializes the winning constructor's arguments and
// calls it. The implicit constructor is just the zero value of the struct.
func (c *Container) invokeConstructor(sel selectedCtor, impl reflect.Type, stack *resolutionStack) (any, error) {
	if !sel.declared {
		return reflect.New(impl.Elem()).Interface(), nil
	}

	ft := sel.fn.Type()
	args, err := c.materializeArgs(ft, stack)
	if err != nil {
		return nil, err
	}

	out := sel.fn.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, fmt.Errorf("%w: constructor %s: %v", ErrResolutionFailed, ft, out[1].Interface())
	}
	return out[0].Interface(), nil
}

// materializeArgs resolves every parameter of the selected constructor. If
// any parameter fails, arguments already materialized that the caller
// would have owned are released before the error returns — a rejected
// construction must not leak live owned instances.
func (c *Container) materializeArgs(ft reflect.Type, stack *resolutionStack) ([]reflect.Value, error) {
	args := make([]reflect.Value, 0, ft.NumIn())
	var ownedArgs []any

	for i := 0; i < ft.NumIn(); i++ {
		v, owned, err := c.resolveParam(ft.In(i), stack)
		if err != nil {
			for _, o := range ownedArgs {
				release(o)
			}
			return nil, err
		}
		if owned {
			ownedArgs = append(ownedArgs, v)
		}
		args = append(args, reflect.ValueOf(v))
	}
	return args, nil
}

// resolveParam resolves a single constructor parameter under the default
// name. An unregistered concrete parameter that is constructible gets
// auto-registered as a Transient self map first, then resolved through the
// normal class path.
func (c *Container) resolveParam(p reflect.Type, stack *resolutionStack) (any, bool, error) {
	key := NewServiceKey(p, "")
	if p.Kind() != reflect.Interface && !c.registry.Contains(key) && c.constructible(p) {
		if err := c.autoRegister(p); err != nil {
			return nil, false, err
		}
	}
	return c.resolve(key, stack)
}

// autoRegister adds the Transient self map for a concrete dependency seen
// for the first time. Losing a race to a concurrent registration of the
// same key is fine — the map only needs to exist once.
func (c *Container) autoRegister(t reflect.Type) error {
	err := c.registry.Add(&Registration{
		Key:      NewServiceKey(t, ""),
		Lifetime: Transient,
		Kind:     KindTypeMap,
		ImplType: t,
	})
	if err != nil && !errors.Is(err, ErrDuplicateRegistration) {
		return err
	}
	return nil
}

// satisfies is the only type check the resolver needs from reflection:
// interface support for interface requests, assignability for class
// requests.
func satisfies(got, want reflect.Type) bool {
	if got == nil || want == nil {
		return false
	}
	if want.Kind() == reflect.Interface {
		return got.Implements(want)
	}
	return got.AssignableTo(want)
}
