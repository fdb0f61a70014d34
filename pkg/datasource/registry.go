package datasource

import (
	"context"
	"fmt"
	"sync"
)

// OpenFunc opens a live handle for a resolved locator.
type OpenFunc func(ctx context.Context, loc Locator) (*Handle, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]OpenFunc)
)

// Register is called by each adapter's init() function.
// Thread-safe for concurrent init() calls.
func Register(driver string, open OpenFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[driver] = open
}

// IsRegistered checks whether a driver is available.
func IsRegistered(driver string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[driver]
	return ok
}

// Open resolves the registered adapter for loc's driver and opens a handle.
func Open(ctx context.Context, loc Locator) (*Handle, error) {
	registryMu.RLock()
	open, ok := registry[loc.Driver]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no adapter registered for driver %q", loc.Driver)
	}
	return open(ctx, loc)
}
