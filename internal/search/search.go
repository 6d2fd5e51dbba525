package search

import (
	"github.com/aryannaik/recon-dashboard/internal/records"
	"github.com/aryannaik/recon-dashboard/internal/targets"
)

const snippetRunes = 120

// Result is a record as returned to the frontend.
type Result struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    records.Category `json:"category"`
	Snippet     string           `json:"snippet"`
}

// Response is the payload for one search.
type Response struct {
	Query    string           `json:"query"`
	Category records.Category `json:"category"`
	Results  []Result         `json:"results"`
	Total    int              `json:"total"`
}

// TargetResponse is the payload for the map markers under a filter state.
type TargetResponse struct {
	Filters targets.Enabled          `json:"filters"`
	Targets []targets.Target         `json:"targets"`
	Total   int                      `json:"total"`
	Counts  map[targets.Category]int `json:"counts"`
}

type Searcher struct {
	store   *records.Store
	targets []targets.Target
}

func NewSearcher(store *records.Store, ts []targets.Target) *Searcher {
	return &Searcher{store: store, targets: ts}
}

// Search runs a record search. A blank category means all categories.
func (s *Searcher) Search(query string, category records.Category) Response {
	if category == "" {
		category = records.All
	}
	hits := s.store.Search(query, category)
	return Response{
		Query:    query,
		Category: category,
		Results:  recordsToResults(hits),
		Total:    len(hits),
	}
}

// Targets returns the markers visible under f, with per-category counts of
// the visible set.
func (s *Searcher) Targets(f targets.FilterState) TargetResponse {
	visible := f.Apply(s.targets)
	return TargetResponse{
		Filters: f.Enabled(),
		Targets: visible,
		Total:   len(visible),
		Counts:  targets.CountByCategory(visible),
	}
}

// AllTargets returns the unfiltered marker set.
func (s *Searcher) AllTargets() []targets.Target {
	out := make([]targets.Target, len(s.targets))
	copy(out, s.targets)
	return out
}

func recordsToResults(hits []records.Record) []Result {
	results := make([]Result, 0, len(hits))
	for _, r := range hits {
		results = append(results, Result{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Category:    r.Category,
			Snippet:     buildSnippet(r.Description),
		})
	}
	return results
}

func buildSnippet(s string) string {
	runes := []rune(s)
	if len(runes) > snippetRunes {
		return string(runes[:snippetRunes]) + "..."
	}
	return s
}
