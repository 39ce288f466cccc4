package systems

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer"
)

/**
 * Committed is proof that an object went through a successful Commit. It can
 * only be obtained from Commit, and the builders take Committed arguments for
 * the objects they bind, so binding an uncommitted child does not compile.
 */
type Committed[T renderer.Object] struct {
	obj T
	ok  bool
}

func Commit[T renderer.Object](obj T) (Committed[T], error) {
	if err := obj.Commit(); err != nil {
		return Committed[T]{}, err
	}
	return Committed[T]{obj: obj, ok: true}, nil
}

// Get returns the committed object.
func (c Committed[T]) Get() T {
	return c.obj
}

// Valid is false for the zero value.
func (c Committed[T]) Valid() bool {
	return c.ok
}

func (c Committed[T]) check(what string) error {
	if !c.ok {
		return fmt.Errorf("%s: %w", what, core.ErrNotCommitted)
	}
	return nil
}
