package container

import (
	"io"
	"sync"
)

// cachedValue is a materialized singleton. Owned entries are the
// container's responsibility and get closed by Clear; borrowed entries are
// simply dropped and reclaimed by the garbage collector like any other
// value once the last reference disappears.
type cachedValue struct {
	value any
	owned bool
}

// inflight records a first resolution in progress, so concurrent callers
// for the same key share a single construction instead of racing.
type inflight struct {
	done  chan struct{}
	value any
	err   error
}

// singletonCache holds materialized singleton values per ServiceKey.
// Like the registry, its lock guards single map operations only — builders
// run unlocked and may resolve other keys recursively.
type singletonCache struct {
	mu       sync.Mutex
	values   map[ServiceKey]cachedValue
	building map[ServiceKey]*inflight
}

func newSingletonCache() *singletonCache {
	return &singletonCache{
		values:   make(map[ServiceKey]cachedValue),
		building: make(map[ServiceKey]*inflight),
	}
}

// TryGet returns the cached value for key, if materialized.
func (sc *singletonCache) TryGet(key ServiceKey) (cachedValue, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	cv, ok := sc.values[key]
	return cv, ok
}

// PutInstance stores a pre-built value. Used for Instance registrations,
// which enter the cache at Add time rather than on first resolution.
func (sc *singletonCache) PutInstance(key ServiceKey, value any, owned bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.values[key] = cachedValue{value: value, owned: owned}
}

// Materialize returns the value for key, building it at most once. An
// inflight record is installed at the moment of the cache miss, so a
// concurrent first resolution of the same key waits for the winner and
// shares its value (or its error). A failed build caches nothing; the next
// caller retries.
func (sc *singletonCache) Materialize(key ServiceKey, build func() (value any, owned bool, err error)) (any, error) {
	sc.mu.Lock()
	if cv, ok := sc.values[key]; ok {
		sc.mu.Unlock()
		return cv.value, nil
	}
	if call, ok := sc.building[key]; ok {
		sc.mu.Unlock()
		<-call.done
		return call.value, call.err
	}
	call := &inflight{done: make(chan struct{})}
	sc.building[key] = call
	sc.mu.Unlock()

	value, owned, err := build()

	sc.mu.Lock()
	delete(sc.building, key)
	if err == nil {
		sc.values[key] = cachedValue{value: value, owned: owned}
	}
	sc.mu.Unlock()

	call.value, call.err = value, err
	close(call.done)
	return value, err
}

// Clear empties the cache, closing every owned entry exactly once. The map
// is swapped out under the lock first, so a concurrent Clear cannot close
// the same value twice.
func (sc *singletonCache) Clear() {
	sc.mu.Lock()
	values := sc.values
	sc.values = make(map[ServiceKey]cachedValue)
	sc.mu.Unlock()

	for _, cv := range values {
		if cv.owned {
			release(cv.value)
		}
	}
}

// release closes a container-owned value, if it is closable at all.
func release(v any) {
	if closer, ok := v.(io.Closer); ok {
		_ = closer.Close()
	}
}
