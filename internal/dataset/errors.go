package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrNoDataset   = errors.New("no dataset")
	ErrUnitCount   = errors.New("unit count out of range")
	ErrRowCount    = errors.New("row count does not match unit count")
	ErrInvalidRow  = errors.New("invalid row")
	ErrColumnName  = errors.New("invalid extra column name")
	ErrParse       = errors.New("extra column values must be numeric")
	ErrCardinality = errors.New("extra column value count does not match row count")
)

// ParseError reports the first token of an extra column literal that is
// not a finite number.
type ParseError struct {
	Index int
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("value %d (%q) is not numeric: ensure all entered values are numeric", e.Index+1, e.Token)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

type CardinalityError struct {
	Got  int
	Want int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("got %d values, number of values must match the number of rows (%d)", e.Got, e.Want)
}

func (e *CardinalityError) Unwrap() error {
	return ErrCardinality
}
