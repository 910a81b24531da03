package container

import (
	"reflect"
	"strings"
)

// ServiceKey is the identity of a registration: a service type plus an
// optional name. Names compare case-insensitively, so "Cache" and "cache"
// address the same registration. The empty name is the default binding
// for a type.
//
// ServiceKey is comparable and used directly as a map key.
type ServiceKey struct {
	Type reflect.Type
	name string // lower-cased at construction
}

// NewServiceKey builds the key for typ under name.
func NewServiceKey(typ reflect.Type, name string) ServiceKey {
	return ServiceKey{Type: typ, name: strings.ToLower(name)}
}

// KeyOf returns the ServiceKey for T, optionally named.
//
//	KeyOf[Cache]()          // default binding
//	KeyOf[Cache]("redis")   // named binding
func KeyOf[T any](name ...string) ServiceKey {
	return NewServiceKey(reflect.TypeOf((*(T))(nil)).Elem(), optName(name))
}

// Name returns the folded name, "" for the default binding.
func (k ServiceKey) Name() string { return k.name }

// IsInterface reports whether the key addresses an interface service
// (as opposed to a class/concrete one).
func (k ServiceKey) IsInterface() bool {
	return k.Type != nil && k.Type.Kind() == reflect.Interface
}

func (k ServiceKey) String() string {
	typ := "<nil>"
	if k.Type != nil {
		typ = k.Type.String()
	}
	if k.name == "" {
		return typ
	}
	return typ + "#" + k.name
}

func optName(name []string) string {
	if len(name) > 0 {
		return name[0]
	}
	return ""
}
