package tree

import "github.com/cockroachdb/errors"

// ErrCapability marks errors raised by caller-supplied capabilities
// (transform, level, expandable, children) during a flatten pass.
var ErrCapability = errors.New("tree: capability failed")

// capabilityPanic converts a recovered panic value into an error marked
// with ErrCapability.
func capabilityPanic(r any) error {
	var err error
	if e, ok := r.(error); ok {
		err = errors.Wrap(e, "tree: capability panicked")
	} else {
		err = errors.Newf("tree: capability panicked: %v", r)
	}
	return errors.Mark(err, ErrCapability)
}
