package storage

import "fmt"

// IOError reports that the users file could not be read or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("users file %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// CorruptError reports that the users file does not hold an object with a "users" array.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("users file %s is not well formatted", e.Path)
	}
	return fmt.Sprintf("users file %s is not well formatted: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }
