package container

import (
	"errors"
	"reflect"
	"testing"
)

type registryFixture struct{}

func regKey(name string) ServiceKey {
	return NewServiceKey(reflect.TypeOf((*(*registryFixture))(nil)).Elem(), name)
}

func TestServiceRegistry_AddAndTryGet(t *testing.T) {
	r := newServiceRegistry()
	reg := &Registration{Key: regKey(""), Lifetime: Singleton, Kind: KindInstance}

	if err := r.Add(reg); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, ok := r.TryGet(regKey(""))
	if !ok {
		t.Fatal("TryGet should find the registration")
	}
	if got != reg {
		t.Error("TryGet should return the stored registration")
	}
}

func TestServiceRegistry_AddDuplicateFails(t *testing.T) {
	r := newServiceRegistry()

	if err := r.Add(&Registration{Key: regKey("a")}); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	err := r.Add(&Registration{Key: regKey("a")})
	if !errors.Is(err, ErrDuplicateRegistration) {
		t.Errorf("second Add: got %v, want ErrDuplicateRegistration", err)
	}
}

func TestServiceRegistry_Contains(t *testing.T) {
	r := newServiceRegistry()

	if r.Contains(regKey("")) {
		t.Error("empty registry should contain nothing")
	}
	_ = r.Add(&Registration{Key: regKey("")})
	if !r.Contains(regKey("")) {
		t.Error("registered key should be reported")
	}
	if r.Contains(regKey("other")) {
		t.Error("different name is a different key")
	}
}

func TestServiceRegistry_Clear(t *testing.T) {
	r := newServiceRegistry()
	_ = r.Add(&Registration{Key: regKey("a")})
	_ = r.Add(&Registration{Key: regKey("b")})

	if got := len(r.Keys()); got != 2 {
		t.Fatalf("Keys before Clear: got %d, want 2", got)
	}

	r.Clear()

	if got := len(r.Keys()); got != 0 {
		t.Errorf("Keys after Clear: got %d, want 0", got)
	}
	if r.Contains(regKey("a")) {
		t.Error("cleared registry should contain nothing")
	}
}
