package records

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/aryannaik/recon-dashboard/internal/logging"
)

// entry pairs a record with its case-folded search fields.
type entry struct {
	Record
	name string
	desc string
}

// Store is the in-memory backing collection. Reads and replacements are safe
// for concurrent use; a replacement swaps the whole collection in one step.
type Store struct {
	mu      sync.RWMutex
	entries []entry
	byID    map[int]int
	logger  *zap.Logger
}

// NewStore returns a store seeded with recs. IDs are reassigned sequentially.
func NewStore(recs []Record, logger *zap.Logger) *Store {
	s := &Store{logger: logging.OrNop(logger)}
	s.Replace(recs)
	return s
}

// Replace swaps the backing collection for recs, assigning IDs 1..n in order.
func (s *Store) Replace(recs []Record) {
	entries := make([]entry, len(recs))
	byID := make(map[int]int, len(recs))
	for i, r := range recs {
		r.ID = i + 1
		entries[i] = entry{Record: r, name: fold(r.Name), desc: fold(r.Description)}
		byID[r.ID] = i
	}

	s.mu.Lock()
	s.entries = entries
	s.byID = byID
	s.mu.Unlock()
}

// Load parses data and, on success, replaces the collection. On failure the
// previous collection is kept and a *ParseError is returned.
func (s *Store) Load(format Format, data []byte) (int, error) {
	recs, err := Parse(format, data)
	if err != nil {
		s.logger.Warn("record payload rejected", zap.String("format", string(format)), zap.Error(err))
		return 0, err
	}
	s.Replace(recs)
	s.logger.Info("records loaded", zap.String("format", string(format)), zap.Int("count", len(recs)))
	return len(recs), nil
}

// LoadFile reads path and loads it using the format implied by its name and
// content.
func (s *Store) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read records file: %w", err)
	}
	return s.Load(DetectFormat(path, data), data)
}

// Count returns the number of records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Record
	}
	return out
}

// Lookup returns the record with the given ID or an error wrapping ErrNotFound.
func (s *Store) Lookup(id int) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return Record{}, fmt.Errorf("record %d: %w", id, ErrNotFound)
	}
	return s.entries[i].Record, nil
}

// Search returns, in insertion order, every record whose name or description
// contains query case-insensitively and whose category equals category. An
// empty query matches everything; All (or "") disables the category test.
// No match yields an empty, non-nil slice.
func (s *Store) Search(query string, category Category) []Record {
	needle := fold(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Record{}
	for _, e := range s.entries {
		if category != All && category != "" && e.Category != category {
			continue
		}
		if needle != "" && !strings.Contains(e.name, needle) && !strings.Contains(e.desc, needle) {
			continue
		}
		out = append(out, e.Record)
	}
	return out
}

// fold applies full Unicode case folding. A Caser is not safe for concurrent
// use, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
