package module

import (
	"fmt"
	"sync"
)

// process-wide port registry. Mains register each module after wiring it
// so downstream modules and operator tooling resolve collaborators by
// name instead of threading every port through call sites
var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register stores a port set under a module name, replacing any prior set
func Register(name string, ports any) {
	mu.Lock()
	reg[name] = ports
	mu.Unlock()
}

// PortsAs fetches and type asserts the port set registered under name
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	v, ok := reg[name]
	mu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}

// MustPortsAs resolves a port set or panics. Bootstrap only: a missing
// registration is a wiring bug, not a runtime condition
func MustPortsAs[T any](name string) T {
	p, ok := PortsAs[T](name)
	if !ok {
		panic(fmt.Sprintf("module %q is not registered with the expected ports type", name))
	}
	return p
}

// Reset clears the registry for tests
func Reset() {
	mu.Lock()
	reg = map[string]any{}
	mu.Unlock()
}
