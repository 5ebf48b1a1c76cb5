package corpussync

import (
	"errors"
	"fmt"
)

// ErrStoreLocked is returned when another run holds the store lock.
var ErrStoreLocked = errors.New("corpus store is locked by another run")

// SourceReadError reports a source file that could not be rendered.
type SourceReadError struct {
	File string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("failed to read source %q: %v", e.File, e.Err)
}

func (e *SourceReadError) Unwrap() error {
	return e.Err
}

// StoreReadError reports a persisted corpus that could not be loaded.
type StoreReadError struct {
	Store string
	Err   error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("failed to load corpus from %s: %v", e.Store, e.Err)
}

func (e *StoreReadError) Unwrap() error {
	return e.Err
}

// StoreWriteError reports a corpus that could not be saved.
type StoreWriteError struct {
	Store string
	Err   error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("failed to save corpus to %s: %v", e.Store, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}
