package records

import (
	"errors"
	"fmt"
	"strings"
)

// Category classifies a record.
type Category string

const (
	CategoryPerson   Category = "person"
	CategoryLocation Category = "location"
	CategoryVehicle  Category = "vehicle"

	// All is the search sentinel that disables category filtering.
	All Category = "all"

	// DefaultCategory is assigned when a payload omits the category field.
	DefaultCategory = CategoryPerson
)

// Categories lists every concrete record category in display order.
var Categories = []Category{CategoryPerson, CategoryLocation, CategoryVehicle}

// ParseCategory normalizes s into a concrete category. Blank input yields
// DefaultCategory.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultCategory, nil
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Record is one entry of the searchable database.
type Record struct {
	ID          int      `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Category    Category `json:"category" yaml:"category"`
}

// ErrNotFound is returned by Lookup for an unknown identifier.
var ErrNotFound = errors.New("record not found")

// Format names a payload encoding accepted by Load.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseError reports a payload that could not be turned into records. Line is
// 1-based and zero when the position is unknown.
type ParseError struct {
	Format Format
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s payload: line %d: %v", e.Format, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s payload: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
