package namespace

import (
	"errors"
	"fmt"
)

// Registry errors
var (
	ErrPathNotFound   = errors.New("path not found")
	ErrEmptyNamespace = errors.New("namespace name is required")
)

// PathNotFoundError is returned by Register when the namespace path does
// not resolve to an existing filesystem entry. Path is the value the
// caller passed in, before any resolution.
type PathNotFoundError struct {
	Namespace string
	Path      string
	Err       error
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("namespace %q: path `%s` was not found", e.Namespace, e.Path)
}

// Is lets errors.Is(err, ErrPathNotFound) match.
func (e *PathNotFoundError) Is(target error) bool {
	return target == ErrPathNotFound
}

func (e *PathNotFoundError) Unwrap() error {
	return e.Err
}
