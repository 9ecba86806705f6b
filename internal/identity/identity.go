// Package identity holds the device's pointer to its previously created
// guest record, enabling edit-in-place on resubmission. The provider is
// injected so server and test contexts supply a deterministic identity
// without a browser-only storage API.
package identity

import "sync"

// Provider persists at most one guest record ID per device/origin. A
// present token takes priority over name-based conflict resolution and
// never expires on its own.
type Provider interface {
	Get() (int64, bool)
	Set(id int64) error
	Clear() error
}

// MemoryProvider keeps the token in memory. Used by tests and by server
// contexts that have no device identity to carry.
type MemoryProvider struct {
	mu  sync.Mutex
	id  int64
	set bool
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{}
}

func (p *MemoryProvider) Get() (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.id, p.set
}

func (p *MemoryProvider) Set(id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.id = id
	p.set = true
	return nil
}

func (p *MemoryProvider) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.id = 0
	p.set = false
	return nil
}
