package quote

import (
	"errors"
	"fmt"
)

var (
	ErrClientNameRequired = errors.New("quote: client name is required")
	ErrItemNotFound       = errors.New("quote: item not found")
	ErrUnknownField       = errors.New("quote: unknown field")
	ErrInvalidValue       = errors.New("quote: invalid value")
)

func itemNotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

func unknownField(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownField, name)
}

func outOfRange(field string) error {
	return fmt.Errorf("%w: %s out of range", ErrInvalidValue, field)
}

func invalid(field, value string) error {
	return fmt.Errorf("%w: %s=%q", ErrInvalidValue, field, value)
}
