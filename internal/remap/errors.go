package remap

import (
	"errors"
	"fmt"
)

// ErrCyclicHierarchy is returned when a class is reached again while its own
// mappings are still being resolved.
var ErrCyclicHierarchy = errors.New("cyclic class hierarchy")

// Error reports a resolution failure. Owner is the class whose hierarchy
// could not be resolved; Class, when set, is the class being rewritten.
type Error struct {
	Class string
	Owner string
	Err   error
}

func (e *Error) Error() string {
	if e.Class != "" && e.Class != e.Owner {
		return fmt.Sprintf("remap %s: resolve %s: %v", e.Class, e.Owner, e.Err)
	}

	return fmt.Sprintf("resolve %s: %v", e.Owner, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classError attributes err to the class being rewritten.
func classError(err error, class string) error {
	var re *Error
	if errors.As(err, &re) {
		if re.Class == "" {
			re.Class = class
		}

		return err
	}

	return fmt.Errorf("remap %s: %w", class, err)
}
