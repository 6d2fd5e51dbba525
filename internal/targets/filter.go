package targets

import (
	"encoding/json"
	"fmt"
)

type set[T comparable] map[T]struct{}

func newSet[T comparable](vals []T) set[T] {
	s := make(set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

func (s set[T]) has(v T) bool {
	_, ok := s[v]
	return ok
}

func (s set[T]) clone() set[T] {
	out := make(set[T], len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

// ordered lists the members of s in domain order.
func ordered[T comparable](domain []T, s set[T]) []T {
	out := make([]T, 0, len(s))
	for _, v := range domain {
		if s.has(v) {
			out = append(out, v)
		}
	}
	return out
}

// Filter returns the targets whose category, priority and classification are
// each in the corresponding enabled list. Order follows ts. An empty list in
// any dimension matches nothing.
func Filter(ts []Target, categories []Category, priorities []Priority, classifications []Classification) []Target {
	return filter(ts, newSet(categories), newSet(priorities), newSet(classifications))
}

func filter(ts []Target, cats set[Category], pris set[Priority], classes set[Classification]) []Target {
	out := []Target{}
	if len(cats) == 0 || len(pris) == 0 || len(classes) == 0 {
		return out
	}
	for _, t := range ts {
		if cats.has(t.Category) && pris.has(t.Priority) && classes.has(t.Classification) {
			out = append(out, t)
		}
	}
	return out
}

// FilterState is the set of enabled values per dimension. It is a value type:
// every mutating method returns a new state and leaves the receiver alone.
type FilterState struct {
	categories      set[Category]
	priorities      set[Priority]
	classifications set[Classification]
}

// NewFilterState returns a state with every value enabled.
func NewFilterState() FilterState {
	return FilterState{
		categories:      newSet(Categories),
		priorities:      newSet(Priorities),
		classifications: newSet(Classifications),
	}
}

func (f FilterState) clone() FilterState {
	return FilterState{
		categories:      f.categories.clone(),
		priorities:      f.priorities.clone(),
		classifications: f.classifications.clone(),
	}
}

// Apply filters ts through the enabled sets.
func (f FilterState) Apply(ts []Target) []Target {
	return filter(ts, f.categories, f.priorities, f.classifications)
}

// Set enables or disables a single value of the given kind.
func (f FilterState) Set(kind Kind, value string, enabled bool) (FilterState, error) {
	next := f.clone()
	switch kind {
	case KindCategory:
		v, err := ParseCategory(value)
		if err != nil {
			return f, err
		}
		setMember(next.categories, v, enabled)
	case KindPriority:
		v, err := ParsePriority(value)
		if err != nil {
			return f, err
		}
		setMember(next.priorities, v, enabled)
	case KindClassification:
		v, err := ParseClassification(value)
		if err != nil {
			return f, err
		}
		setMember(next.classifications, v, enabled)
	default:
		return f, fmt.Errorf("filter kind %q: %w", kind, ErrUnknownValue)
	}
	return next, nil
}

// Toggle flips a single value of the given kind.
func (f FilterState) Toggle(kind Kind, value string) (FilterState, error) {
	enabled, err := f.IsEnabled(kind, value)
	if err != nil {
		return f, err
	}
	return f.Set(kind, value, !enabled)
}

// IsEnabled reports whether value is currently enabled.
func (f FilterState) IsEnabled(kind Kind, value string) (bool, error) {
	switch kind {
	case KindCategory:
		v, err := ParseCategory(value)
		return err == nil && f.categories.has(v), err
	case KindPriority:
		v, err := ParsePriority(value)
		return err == nil && f.priorities.has(v), err
	case KindClassification:
		v, err := ParseClassification(value)
		return err == nil && f.classifications.has(v), err
	}
	return false, fmt.Errorf("filter kind %q: %w", kind, ErrUnknownValue)
}

func setMember[T comparable](s set[T], v T, enabled bool) {
	if enabled {
		s[v] = struct{}{}
	} else {
		delete(s, v)
	}
}

// Enabled is the exported snapshot of a FilterState.
type Enabled struct {
	Categories      []Category       `json:"categories"`
	Priorities      []Priority       `json:"priorities"`
	Classifications []Classification `json:"classifications"`
}

// Enabled lists enabled values in domain order.
func (f FilterState) Enabled() Enabled {
	return Enabled{
		Categories:      ordered(Categories, f.categories),
		Priorities:      ordered(Priorities, f.priorities),
		Classifications: ordered(Classifications, f.classifications),
	}
}

// FilterStateFrom builds a state from explicit lists. Nil lists mean "all".
func FilterStateFrom(e Enabled) FilterState {
	f := NewFilterState()
	if e.Categories != nil {
		f.categories = newSet(e.Categories)
	}
	if e.Priorities != nil {
		f.priorities = newSet(e.Priorities)
	}
	if e.Classifications != nil {
		f.classifications = newSet(e.Classifications)
	}
	return f
}

func (f FilterState) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Enabled())
}

// CountByCategory tallies ts per category.
func CountByCategory(ts []Target) map[Category]int {
	out := make(map[Category]int, len(Categories))
	for _, t := range ts {
		out[t.Category]++
	}
	return out
}
