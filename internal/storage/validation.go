package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/macro-log/internal/common"
	"github.com/Veraticus/macro-log/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateEntry checks the fields the schema requires. Macro values are stored as given.
func validateEntry(entry *model.Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	if _, err := model.ParseDate(entry.Date); err != nil {
		return fmt.Errorf("%w: date %q", common.ErrInvalidEntry, entry.Date)
	}
	return nil
}

func validateWeight(weight *model.WeightEntry) error {
	if weight == nil {
		return fmt.Errorf("%w: weight", ErrNilParameter)
	}
	if _, err := model.ParseDate(weight.Date); err != nil {
		return fmt.Errorf("%w: date %q", common.ErrInvalidEntry, weight.Date)
	}
	return nil
}
