package systems

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer"
)

/**
 * Scope owns the application's references to library objects. Every tracked
 * reference is released exactly once: either by Handoff, right after the
 * object was attached to a parent that keeps it alive, or by Close, in
 * reverse creation order. Close is meant to be deferred so every exit path
 * releases what was acquired.
 */
type Scope struct {
	owned  []renderer.Object
	closed bool
}

func NewScope() *Scope {
	return &Scope{}
}

// Track takes ownership of one reference to obj.
func (s *Scope) Track(obj renderer.Object) error {
	if s.closed {
		return fmt.Errorf("tracking %s in a closed scope: %w", obj.Kind(), core.ErrReleased)
	}
	s.owned = append(s.owned, obj)
	return nil
}

// Handoff releases the scope's reference to obj now. Call it once a parent
// holds its own reference.
func (s *Scope) Handoff(obj renderer.Object) error {
	for i := len(s.owned) - 1; i >= 0; i-- {
		if s.owned[i] == obj {
			s.owned = append(s.owned[:i], s.owned[i+1:]...)
			return obj.Release()
		}
	}
	return fmt.Errorf("%s %s is not owned by this scope: %w", obj.Kind(), obj.ID(), core.ErrInvalidArgument)
}

// Owns reports whether the scope still holds a reference to obj.
func (s *Scope) Owns(obj renderer.Object) bool {
	for _, o := range s.owned {
		if o == obj {
			return true
		}
	}
	return false
}

func (s *Scope) Len() int {
	return len(s.owned)
}

// Close releases everything still owned, newest first. Calling it again is a no-op.
func (s *Scope) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var errs []error
	for i := len(s.owned) - 1; i >= 0; i-- {
		if err := s.owned[i].Release(); err != nil {
			errs = append(errs, err)
		}
	}
	s.owned = nil
	if err := errors.Join(errs...); err != nil {
		core.LogError("releasing scope: %s", err)
		return err
	}
	return nil
}
