package container

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type cacheFixture struct{ closes atomic.Int32 }

func (f *cacheFixture) Close() error {
	f.closes.Add(1)
	return nil
}

func cacheKey(name string) ServiceKey {
	return NewServiceKey(reflect.TypeOf((*(*cacheFixture))(nil)).Elem(), name)
}

func TestSingletonCache_PutInstanceAndTryGet(t *testing.T) {
	sc := newSingletonCache()
	v := &cacheFixture{}

	if _, ok := sc.TryGet(cacheKey("")); ok {
		t.Fatal("empty cache should miss")
	}

	sc.PutInstance(cacheKey(""), v, false)

	cv, ok := sc.TryGet(cacheKey(""))
	if !ok {
		t.Fatal("TryGet should hit after PutInstance")
	}
	if cv.value != v || cv.owned {
		t.Error("cached value should be the stored instance, borrowed")
	}
}

func TestSingletonCache_MaterializeBuildsOnce(t *testing.T) {
	sc := newSingletonCache()
	builds := 0
	build := func() (any, bool, error) {
		builds++
		return &cacheFixture{}, false, nil
	}

	a, err := sc.Materialize(cacheKey(""), build)
	if err != nil {
		t.Fatalf("first Materialize: %v", err)
	}
	b, err := sc.Materialize(cacheKey(""), build)
	if err != nil {
		t.Fatalf("second Materialize: %v", err)
	}

	if a != b {
		t.Error("Materialize should return the cached value on the second call")
	}
	if builds != 1 {
		t.Errorf("builds: got %d, want 1", builds)
	}
}

func TestSingletonCache_MaterializeErrorIsNotCached(t *testing.T) {
	sc := newSingletonCache()
	boom := errors.New("boom")

	if _, err := sc.Materialize(cacheKey(""), func() (any, bool, error) {
		return nil, false, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}

	// The failed build left nothing behind; a later build runs and succeeds.
	v, err := sc.Materialize(cacheKey(""), func() (any, bool, error) {
		return &cacheFixture{}, false, nil
	})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if v == nil {
		t.Error("retry should produce a value")
	}
}

func TestSingletonCache_ConcurrentMaterializeSharesOneBuild(t *testing.T) {
	sc := newSingletonCache()
	var builds atomic.Int32
	build := func() (any, bool, error) {
		time.Sleep(10 * time.Millisecond)
		builds.Add(1)
		return &cacheFixture{}, false, nil
	}

	const workers = 12
	results := make([]any, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			v, err := sc.Materialize(cacheKey(""), build)
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
			}
			results[i] = v
		}(i)
	}
	wg.Wait()

	if got := builds.Load(); got != 1 {
		t.Errorf("builds: got %d, want 1", got)
	}
	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatalf("worker %d got a different value", i)
		}
	}
}

func TestSingletonCache_ClearClosesOwnedOnly(t *testing.T) {
	sc := newSingletonCache()
	owned := &cacheFixture{}
	borrowed := &cacheFixture{}

	sc.PutInstance(cacheKey("owned"), owned, true)
	sc.PutInstance(cacheKey("borrowed"), borrowed, false)

	sc.Clear()
	sc.Clear() // idempotent

	if got := owned.closes.Load(); got != 1 {
		t.Errorf("owned closes: got %d, want 1", got)
	}
	if got := borrowed.closes.Load(); got != 0 {
		t.Errorf("borrowed closes: got %d, want 0", got)
	}
	if _, ok := sc.TryGet(cacheKey("owned")); ok {
		t.Error("cache should be empty after Clear")
	}
}
