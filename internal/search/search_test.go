package search

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryannaik/recon-dashboard/internal/records"
	"github.com/aryannaik/recon-dashboard/internal/targets"
)

func newTestSearcher() *Searcher {
	return NewSearcher(records.NewStore(records.Builtin(), nil), targets.Builtin())
}

func TestSearchResponse(t *testing.T) {
	s := newTestSearcher()

	resp := s.Search("москва", "")
	assert.Equal(t, records.All, resp.Category)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 1, resp.Results[0].ID)
	assert.Equal(t, "Агент разведки, Москва", resp.Results[0].Snippet)

	resp = s.Search("nothing", records.All)
	assert.Zero(t, resp.Total)
	assert.NotNil(t, resp.Results)
}

func TestBuildSnippetIsRuneSafe(t *testing.T) {
	long := strings.Repeat("ж", snippetRunes+10)
	got := buildSnippet(long)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, snippetRunes+3, utf8.RuneCountInString(got))
}

func TestTargetsResponse(t *testing.T) {
	s := newTestSearcher()

	f, err := targets.NewFilterState().Set(targets.KindCategory, "bridge", false)
	require.NoError(t, err)

	resp := s.Targets(f)
	assert.Equal(t, len(targets.Builtin())-2, resp.Total)
	assert.Zero(t, resp.Counts[targets.CategoryBridge])
	assert.Equal(t, 3, resp.Counts[targets.CategoryMilitary])
	assert.NotContains(t, resp.Filters.Categories, targets.CategoryBridge)
	assert.Len(t, s.AllTargets(), len(targets.Builtin()))
}
