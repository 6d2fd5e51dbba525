package targets

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the installation type of a target.
type Category string

const (
	CategoryMilitary Category = "military"
	CategoryIndustry Category = "industry"
	CategoryBridge   Category = "bridge"
	CategoryAdmin    Category = "admin"
	CategoryAirfield Category = "airfield"
	CategoryCommand  Category = "command"
)

// Priority ranks how urgent a target is.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Classification is the secrecy marking attached to a target.
type Classification string

const (
	ClassConfidential Classification = "CONFIDENTIAL"
	ClassSecret       Classification = "SECRET"
	ClassTopSecret    Classification = "TOP SECRET"
)

// Full domains, in display order.
var (
	Categories      = []Category{CategoryMilitary, CategoryIndustry, CategoryBridge, CategoryAdmin, CategoryAirfield, CategoryCommand}
	Priorities      = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
	Classifications = []Classification{ClassConfidential, ClassSecret, ClassTopSecret}
)

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Target is a marker on the map.
type Target struct {
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	Coordinates    Coordinates    `json:"coordinates"`
	Category       Category       `json:"category"`
	Priority       Priority       `json:"priority"`
	Classification Classification `json:"classification"`
}

// Kind selects one of the three filter dimensions.
type Kind string

const (
	KindCategory       Kind = "category"
	KindPriority       Kind = "priority"
	KindClassification Kind = "classification"
)

var (
	// ErrUnknownValue is returned when a filter value is outside its domain.
	ErrUnknownValue = errors.New("unknown filter value")
	// ErrUnknownLayer is returned when a map layer id is not in the catalogue.
	ErrUnknownLayer = errors.New("unknown map layer")
)

// ParseCategory matches s case-insensitively against the category domain.
func ParseCategory(s string) (Category, error) {
	return parseIn(Categories, strings.ToLower(strings.TrimSpace(s)), KindCategory)
}

// ParsePriority matches s case-insensitively against the priority domain.
func ParsePriority(s string) (Priority, error) {
	return parseIn(Priorities, strings.ToUpper(strings.TrimSpace(s)), KindPriority)
}

// ParseClassification accepts "TOP SECRET", "top_secret" and "top-secret".
func ParseClassification(s string) (Classification, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)
	return parseIn(Classifications, norm, KindClassification)
}

func parseIn[T ~string](domain []T, s string, kind Kind) (T, error) {
	for _, v := range domain {
		if string(v) == s {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%s %q: %w", kind, s, ErrUnknownValue)
}
