package loader

import (
	"errors"
	"fmt"
)

// ErrEntryNotFound is returned when an entry file or page does not exist
var ErrEntryNotFound = errors.New("entry file not found")

// LoadError describes an entry that could not be loaded
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
