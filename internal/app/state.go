// Package app holds the dashboard's explicit state and the command handlers a
// presentation layer invokes. Handlers take a State and return the next one;
// nothing here keeps per-user state of its own.
package app

import (
	"fmt"

	"github.com/aryannaik/recon-dashboard/internal/records"
	"github.com/aryannaik/recon-dashboard/internal/session"
	"github.com/aryannaik/recon-dashboard/internal/targets"
)

// State is everything one viewer has selected.
type State struct {
	Token    string              `json:"-"`
	User     *session.User       `json:"user,omitempty"`
	Layer    string              `json:"layer"`
	Filters  targets.FilterState `json:"filters"`
	Query    string              `json:"query"`
	Category records.Category    `json:"category"`
}

// NewState is the state of a fresh, signed-out viewer.
func NewState() State {
	return State{
		Layer:    targets.DefaultLayer,
		Filters:  targets.NewFilterState(),
		Category: records.All,
	}
}

// SignedIn reports whether the state carries a session.
func (s State) SignedIn() bool {
	return s.Token != "" && s.User != nil
}

func (s State) String() string {
	who := "anonymous"
	if s.User != nil {
		who = s.User.Username
	}
	return fmt.Sprintf("%s layer=%s query=%q category=%s", who, s.Layer, s.Query, s.Category)
}
