package service

import (
	"errors"
	"fmt"
)

// ErrBatchTooLarge is returned when a batch exceeds the configured item limit.
var ErrBatchTooLarge = errors.New("batch too large")

// ErrEmptyBatch is returned for a batch with no documents.
var ErrEmptyBatch = errors.New("batch has no items")

// ErrItemPanic marks a batch item whose normalization panicked.
var ErrItemPanic = errors.New("item normalization panicked")

// ItemError reports which batch document failed.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
