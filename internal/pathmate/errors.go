package pathmate

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("path does not exist")
	ErrNotADirectory   = errors.New("not a directory")
	ErrNotAFile        = errors.New("not a regular file")
	ErrExists          = errors.New("path already exists")
	ErrInvalidArgument = errors.New("invalid argument")
)

// PathError records an error and the operation and path that caused it.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err indicates a missing path.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNotADirectory reports whether err indicates a path that is not a directory.
func IsNotADirectory(err error) bool {
	return errors.Is(err, ErrNotADirectory)
}
