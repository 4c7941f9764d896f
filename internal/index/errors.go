package index

import (
	"errors"
	"fmt"

	"github.com/vk/cookcli/internal/fsutil"
)

var (
	// ErrRootInvalid is matched by errors for a missing or non-directory root.
	ErrRootInvalid = errors.New("recipe root is invalid")

	// ErrUnreadableSubtree is matched by snapshot warnings.
	ErrUnreadableSubtree = fsutil.ErrUnreadableSubtree
)

// RootInvalidError reports a tree root that does not exist or is not a
// directory.
type RootInvalidError struct {
	Root string
	Err  error
}

func (e *RootInvalidError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("recipe root %q is invalid: %v", e.Root, e.Err)
	}
	return fmt.Sprintf("recipe root %q is not a directory", e.Root)
}

func (e *RootInvalidError) Unwrap() error { return e.Err }

func (e *RootInvalidError) Is(target error) bool { return target == ErrRootInvalid }
