package services

import (
	"errors"
	"fmt"
)

var (
	ErrNoMealPlanEntries = errors.New("no meal plan entries in range")
	ErrInvalidDateRange  = errors.New("from date is after to date")
	ErrDataIntegrity     = errors.New("meal plan data integrity violation")
	ErrStorageDisabled   = errors.New("list archive storage is disabled")
)

// DataIntegrityError reports upstream data that makes a shopping list impossible to
// compute, such as a recipe whose baseline servings is zero.
type DataIntegrityError struct {
	Entity string
	ID     int64
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("%s %d: %s", e.Entity, e.ID, e.Reason)
}

// Is makes errors.Is(err, ErrDataIntegrity) match any DataIntegrityError
func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

// UpstreamError wraps a failure of the meal plan reader or the shopping list writer.
// It unwraps to the original error.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
