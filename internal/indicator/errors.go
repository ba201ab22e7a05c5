package indicator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidWindow indicates a year window with From > To.
	ErrInvalidWindow = errors.New("invalid year window")
	// ErrInvalidScale indicates a non-positive population scale factor.
	ErrInvalidScale = errors.New("scale factor must be positive")
	// ErrUnknownKey indicates a row restriction asked for a key the table does not have.
	ErrUnknownKey = errors.New("unknown row key")
	// ErrMissingIndicator indicates a year index build without one of the required tables.
	ErrMissingIndicator = errors.New("missing indicator table")
	// ErrNotAligned indicates tables handed to the year index do not share the same row keys.
	ErrNotAligned = errors.New("tables are not aligned")
	// ErrYearGap indicates aligned year columns that are not consecutive and ascending.
	ErrYearGap = errors.New("year columns are not contiguous")
)

// ParseError indicates a column label that cannot be read as an integer year.
type ParseError struct {
	Table string
	Label string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("table %s: year label %q is not an integer: %v", e.Table, e.Label, e.Err)
	}
	return fmt.Sprintf("year label %q is not an integer: %v", e.Label, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EmptyIntersectionError indicates that aligning the tables left nothing on
// an axis: no shared countries, or no year columns inside the window.
type EmptyIntersectionError struct {
	Axis   string // "countries" or "years"
	Tables []string
}

func (e *EmptyIntersectionError) Error() string {
	axis := e.Axis
	if axis == "" {
		axis = "countries"
	}
	if len(e.Tables) == 0 {
		return fmt.Sprintf("no common %s", axis)
	}
	return fmt.Sprintf("no common %s across tables: %s", axis, strings.Join(e.Tables, ", "))
}

// MissingYearError indicates an aligned table lacks a requested year column.
type MissingYearError struct {
	Table string
	Year  int
}

func (e *MissingYearError) Error() string {
	return fmt.Sprintf("table %s has no column for year %d", e.Table, e.Year)
}
