package systems

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer"
)

// registry maps names to the committed objects a system built.
type registry[T renderer.Object] struct {
	kind    string
	max     int
	entries map[string]Committed[T]
}

func newRegistry[T renderer.Object](kind string, max int) (*registry[T], error) {
	if max <= 0 {
		err := fmt.Errorf("%s system: max count must be > 0: %w", kind, core.ErrInvalidArgument)
		core.LogError(err.Error())
		return nil, err
	}
	return &registry[T]{kind: kind, max: max, entries: make(map[string]Committed[T])}, nil
}

func (r *registry[T]) reserve(name string) error {
	if name == "" {
		return fmt.Errorf("%s system: empty name: %w", r.kind, core.ErrInvalidArgument)
	}
	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%s system: %q already exists: %w", r.kind, name, core.ErrInvalidArgument)
	}
	if len(r.entries) >= r.max {
		return fmt.Errorf("%s system: more than %d entries: %w", r.kind, r.max, core.ErrIndexOutOfRange)
	}
	return nil
}

func (r *registry[T]) put(name string, c Committed[T]) {
	r.entries[name] = c
}

func (r *registry[T]) get(name string) (Committed[T], bool) {
	c, ok := r.entries[name]
	return c, ok
}

func (r *registry[T]) reset() {
	r.entries = make(map[string]Committed[T])
}

// build runs the create, configure, commit sequence of one object inside scope.
// The scope owns the object even when configure or commit fails.
func build[T renderer.Object](scope *Scope, obj T, err error, configure func(T) error) (Committed[T], error) {
	if err != nil {
		return Committed[T]{}, err
	}
	if err := scope.Track(obj); err != nil {
		_ = obj.Release()
		return Committed[T]{}, err
	}
	if configure != nil {
		if err := configure(obj); err != nil {
			return Committed[T]{}, err
		}
	}
	return Commit(obj)
}

// handoff drops the scope's references to children a committed parent now holds.
// Children the scope no longer owns are skipped.
func handoff(scope *Scope, children ...renderer.Object) error {
	var errs []error
	for _, child := range children {
		if scope.Owns(child) {
			errs = append(errs, scope.Handoff(child))
		}
	}
	return errors.Join(errs...)
}
