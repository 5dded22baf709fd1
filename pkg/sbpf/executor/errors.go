package executor

import "github.com/pkg/errors"

var (
	// ErrInvalidConfig indicates a configured value cannot be used to run a program
	ErrInvalidConfig = errors.New("invalid executor config")

	// ErrInvalidExecutable indicates the loader yielded an unusable executable
	ErrInvalidExecutable = errors.New("invalid executable")
)
