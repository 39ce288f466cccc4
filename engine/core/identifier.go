package core

import (
	"fmt"
	"sync"
)

// IdentifierPool hands out small integer ids and reuses released slots.
type IdentifierPool struct {
	mu     sync.Mutex
	owners []interface{}
	live   int
}

func NewIdentifierPool(capacity int) *IdentifierPool {
	if capacity < 1 {
		capacity = 1
	}
	return &IdentifierPool{owners: make([]interface{}, 0, capacity)}
}

func (p *IdentifierPool) AquireNewID(owner interface{}) uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.live++
	for i := range p.owners {
		// Existing free spot. Take it.
		if p.owners[i] == nil {
			p.owners[i] = owner
			return uint32(i)
		}
	}

	// If here, no existing free slots. Need a new id, so push one.
	p.owners = append(p.owners, owner)
	return uint32(len(p.owners) - 1)
}

func (p *IdentifierPool) ReleaseID(id uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if int(id) >= len(p.owners) {
		return fmt.Errorf("identifier release: id '%d' out of range (max=%d): %w", id, len(p.owners), ErrIndexOutOfRange)
	}
	if p.owners[id] == nil {
		return fmt.Errorf("identifier release: id '%d' is not in use: %w", id, ErrReleased)
	}

	// Just zero out the entry, making it available for use.
	p.owners[id] = nil
	p.live--
	return nil
}

// Live returns the number of ids currently handed out.
func (p *IdentifierPool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

// Owners returns a snapshot of the current owners, skipping free slots.
func (p *IdentifierPool) Owners() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]interface{}, 0, p.live)
	for _, o := range p.owners {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}
