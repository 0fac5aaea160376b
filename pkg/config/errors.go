package config

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for files whose extension is not
	// .yaml, .yml, .toml or .json.
	ErrUnsupportedFormat = errors.New("config: unsupported format")
	// ErrInvalid is wrapped by every validation failure.
	ErrInvalid = errors.New("config: invalid value")
)

// Error locates a failure inside a configuration file.
type Error struct {
	Path  string
	Field string
	Err   error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Field != "":
		return fmt.Sprintf("config: %s: %s: %v", e.Path, e.Field, e.Err)
	case e.Path != "":
		return fmt.Sprintf("config: %s: %v", e.Path, e.Err)
	case e.Field != "":
		return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
	default:
		return fmt.Sprintf("config: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalid(field, format string, args ...any) error {
	return &Error{Field: field, Err: fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)}
}
