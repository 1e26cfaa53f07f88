package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every per-entity not-found error
var ErrNotFound = errors.New("not found")

// Common storage errors
var (
	// ErrIdeaNotFound indicates that idea was not found in storage
	ErrIdeaNotFound = fmt.Errorf("idea %w", ErrNotFound)

	// ErrCategoryNotFound indicates that category was not found in storage
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)

	// ErrTagNotFound indicates that tag was not found in storage
	ErrTagNotFound = fmt.Errorf("tag %w", ErrNotFound)

	// ErrSettingNotFound indicates that settings key is absent
	ErrSettingNotFound = fmt.Errorf("setting %w", ErrNotFound)

	// ErrInvalidField indicates a column name outside the update allow-list
	ErrInvalidField = errors.New("invalid field")

	// ErrInvalidRating indicates a rating outside [0,5]
	ErrInvalidRating = errors.New("invalid rating")

	// ErrConflict indicates an irrecoverable state during a merge
	ErrConflict = errors.New("conflict")

	// ErrSchema indicates that the store could not be opened or base tables created
	ErrSchema = errors.New("schema error")

	// ErrLocked indicates that a locked idea was targeted by an edit
	ErrLocked = errors.New("idea is locked")

	// ErrCategoryHasChildren indicates a delete that would orphan child categories
	ErrCategoryHasChildren = errors.New("category has children")

	// ErrCategoryCycle indicates a re-parent that would break the forest
	ErrCategoryCycle = errors.New("category cycle")
)
