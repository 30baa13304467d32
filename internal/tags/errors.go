package tags

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrTagInUse is returned when deleting a tag that is still linked to items.
	ErrTagInUse = errors.New("tag is still referenced by one or more items")

	// ErrNotLinked is returned when unlinking an item/tag pair that is not linked.
	ErrNotLinked = errors.New("tag is not linked to item")

	// ErrInvalidName is returned when a tag name fails validation.
	ErrInvalidName = errors.New("invalid tag name")

	// ErrPersistence is matched by every *PersistenceError.
	ErrPersistence = errors.New("persistence error")
)

// NotFoundError names the entity and id that could not be found.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistenceError wraps a storage failure. Err is for logs only and must not
// be shown to API callers.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
