// Package module is the contract API modules satisfy and the process wide
// registry of their ports. It sits apart from modkit so a module can
// export its own ports type without import cycles
package module

import (
	"reflect"
	"slices"
	"sync"

	phttp "careview/internal/platform/net/http"
)

// Module mounts its routes and exposes ports other modules may use
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register records name's ports, replacing earlier ones
func Register(name string, ports any) {
	mu.Lock()
	defer mu.Unlock()
	reg[name] = ports
}

// PortsAs is name's registered ports as T
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	defer mu.RUnlock()
	v, ok := reg[name].(T)
	return v, ok
}

// Names lists the registered modules, sorted
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(reg))
	for n := range reg {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Reset empties the registry
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	reg = map[string]any{}
}

// PortsOf finds a T in m's ports: the ports value itself, or one of its
// exported struct fields
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		if f := rv.Field(i); f.CanInterface() {
			if v, ok := f.Interface().(T); ok {
				return v, true
			}
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf that panics when m has no T
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic("module: requested port not found on module " + m.Name())
	}
	return v
}
