package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryannaik/recon-dashboard/internal/records"
	"github.com/aryannaik/recon-dashboard/internal/session"
	"github.com/aryannaik/recon-dashboard/internal/targets"
)

func newTestApp(t *testing.T, opts ...session.Option) *App {
	t.Helper()
	return New(records.NewStore(records.Builtin(), nil), targets.Builtin(), session.NewManager(opts...), nil)
}

func TestSearchUpdatesState(t *testing.T) {
	a := newTestApp(t)
	st := NewState()

	st, resp := a.Search(st, "иванов", records.All)
	assert.Equal(t, "иванов", st.Query)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Иванов Иван Иванович", resp.Results[0].Name)

	assert.Equal(t, resp, a.Refresh(st))
}

func TestLoadRecordsThenRefresh(t *testing.T) {
	a := newTestApp(t)
	st, _ := a.Search(NewState(), "", records.All)

	n, err := a.LoadRecords("upload.csv", []byte("name,description,category\nA,x,vehicle\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, a.Refresh(st).Total)

	_, err = a.LoadRecords("upload.json", []byte("[{"))
	assert.ErrorAs(t, err, new(*records.ParseError))
	assert.Equal(t, 1, a.Refresh(st).Total, "failed load keeps the collection")

	r, err := a.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, "A", r.Name)
	_, err = a.Lookup(2)
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestParseSearchCategory(t *testing.T) {
	c, err := ParseSearchCategory("")
	require.NoError(t, err)
	assert.Equal(t, records.All, c)

	c, err = ParseSearchCategory("ALL")
	require.NoError(t, err)
	assert.Equal(t, records.All, c)

	c, err = ParseSearchCategory("location")
	require.NoError(t, err)
	assert.Equal(t, records.CategoryLocation, c)

	_, err = ParseSearchCategory("aircraft")
	assert.Error(t, err)
}

func TestFilterCommands(t *testing.T) {
	a := newTestApp(t)
	st := NewState()
	all := a.Targets(st).Total

	st, resp, err := a.ToggleFilter(st, targets.KindPriority, "CRITICAL")
	require.NoError(t, err)
	for _, tg := range resp.Targets {
		assert.NotEqual(t, targets.PriorityCritical, tg.Priority)
	}
	assert.Less(t, resp.Total, all)

	unchanged, _, err := a.ToggleFilter(st, targets.KindPriority, "URGENT")
	assert.ErrorIs(t, err, targets.ErrUnknownValue)
	assert.Equal(t, st.Filters.Enabled(), unchanged.Filters.Enabled())

	st, resp = a.ResetFilters(st)
	assert.Equal(t, all, resp.Total)
	assert.Equal(t, all, a.Status(st).Visible)
}

func TestSetLayer(t *testing.T) {
	a := newTestApp(t)
	st, layer, err := a.SetLayer(NewState(), "dark")
	require.NoError(t, err)
	assert.Equal(t, "dark", st.Layer)
	assert.Equal(t, "dark", layer.ID)

	st, _, err = a.SetLayer(st, "thermal")
	assert.ErrorIs(t, err, targets.ErrUnknownLayer)
	assert.Equal(t, "dark", st.Layer)
	assert.Len(t, a.Layers(), 4)
}

func TestSessionCommands(t *testing.T) {
	a := newTestApp(t, session.WithRememberFile(t.TempDir()))
	st := NewState()

	_, err := a.Logout(st)
	assert.ErrorIs(t, err, session.ErrNoSession)
	_, err = a.UpdateProfile(st, session.ProfileUpdate{Bio: "x"})
	assert.ErrorIs(t, err, session.ErrNoSession)

	st, err = a.Register(st, session.Registration{Username: "sidorova", Email: "s@mill.gov"})
	require.NoError(t, err)
	require.True(t, st.SignedIn())

	st, err = a.UpdateProfile(st, session.ProfileUpdate{Fullname: "Сидорова Анна"})
	require.NoError(t, err)
	assert.Equal(t, "Сидорова Анна", st.User.DisplayName())

	resumed, err := a.Resume(NewState(), st.Token)
	require.NoError(t, err)
	assert.Equal(t, st.User, resumed.User)

	restored, err := a.Restore(NewState())
	require.NoError(t, err)
	assert.Equal(t, "sidorova", restored.User.Username)

	st, err = a.Logout(st)
	require.NoError(t, err)
	assert.False(t, st.SignedIn())
	assert.Nil(t, a.Status(st).User)

	_, err = a.Login(st, "no", "pw")
	assert.ErrorIs(t, err, session.ErrInvalidUsername)
	st, err = a.Login(st, "sidorova", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Сидорова Анна", st.User.Fullname)
}

func TestStateString(t *testing.T) {
	st := NewState()
	assert.Equal(t, `anonymous layer=satellite query="" category=all`, st.String())
}

func TestProfileAccountAge(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	a := newTestApp(t, session.WithClock(func() time.Time { return created }))
	a.now = func() time.Time { return created.Add(50 * time.Hour) }

	_, err := a.Profile(NewState())
	assert.ErrorIs(t, err, session.ErrNoSession)

	st, err := a.Login(NewState(), "orlov", "pw")
	require.NoError(t, err)
	p, err := a.Profile(st)
	require.NoError(t, err)
	assert.Equal(t, "orlov", p.Username)
	assert.Equal(t, 2, p.AccountAgeDays)
}
