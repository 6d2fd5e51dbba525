// Package tui is a terminal rendition of the dashboard: a record search pane
// and a target filter pane, both driven through the app command handlers.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aryannaik/recon-dashboard/internal/app"
	"github.com/aryannaik/recon-dashboard/internal/records"
	"github.com/aryannaik/recon-dashboard/internal/search"
	"github.com/aryannaik/recon-dashboard/internal/targets"
)

type pane int

const (
	paneRecords pane = iota
	paneTargets
)

// option is one toggleable row of the target filter pane.
type option struct {
	kind  targets.Kind
	value string
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF9C")).Bold(true)
	tabStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#888888"))
	activeTab     = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#00FF9C"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	priorityStyle = map[targets.Priority]lipgloss.Style{
		targets.PriorityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
		targets.PriorityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")),
		targets.PriorityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")),
		targets.PriorityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	}
)

var searchCategories = []records.Category{records.All, records.CategoryPerson, records.CategoryLocation, records.CategoryVehicle}

// Model is the bubbletea model for the dashboard.
type Model struct {
	app     *app.App
	state   app.State
	input   textinput.Model
	pane    pane
	options []option
	cursor  int
	results search.Response
	targets search.TargetResponse
	err     error
	width   int
}

// New builds a dashboard model over a, starting from st.
func New(a *app.App, st app.State) Model {
	ti := textinput.New()
	ti.Placeholder = "Поиск по базе..."
	ti.CharLimit = 80
	ti.Width = 40
	ti.SetValue(st.Query)
	ti.Focus()

	m := Model{
		app:     a,
		state:   st,
		input:   ti,
		options: filterOptions(),
	}
	m.state, m.results = a.Search(st, st.Query, st.Category)
	m.targets = a.Targets(m.state)
	return m
}

func filterOptions() []option {
	var out []option
	for _, c := range targets.Categories {
		out = append(out, option{targets.KindCategory, string(c)})
	}
	for _, p := range targets.Priorities {
		out = append(out, option{targets.KindPriority, string(p)})
	}
	for _, c := range targets.Classifications {
		out = append(out, option{targets.KindClassification, string(c)})
	}
	return out
}

// State returns the current application state.
func (m Model) State() app.State { return m.state }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(20, msg.Width-6)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.switchPane()
			return m, nil
		case "ctrl+l":
			m.nextLayer()
			return m, nil
		}
		if m.pane == paneTargets {
			return m.updateTargets(msg)
		}
		if msg.String() == "ctrl+t" {
			m.nextCategory()
			return m, nil
		}
	}

	if m.pane != paneRecords {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.state.Query {
		m.state, m.results = m.app.Search(m.state, m.input.Value(), m.state.Category)
	}
	return m, cmd
}

func (m Model) updateTargets(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case " ", "enter":
		opt := m.options[m.cursor]
		st, resp, err := m.app.ToggleFilter(m.state, opt.kind, opt.value)
		m.err = err
		if err == nil {
			m.state, m.targets = st, resp
		}
	case "r":
		m.state, m.targets = m.app.ResetFilters(m.state)
		m.err = nil
	}
	return m, nil
}

func (m *Model) switchPane() {
	if m.pane == paneRecords {
		m.pane = paneTargets
		m.input.Blur()
		return
	}
	m.pane = paneRecords
	m.input.Focus()
}

func (m *Model) nextCategory() {
	next := searchCategories[0]
	for i, c := range searchCategories {
		if c == m.state.Category {
			next = searchCategories[(i+1)%len(searchCategories)]
			break
		}
	}
	m.state, m.results = m.app.Search(m.state, m.state.Query, next)
}

func (m *Model) nextLayer() {
	layers := m.app.Layers()
	next := layers[0].ID
	for i, l := range layers {
		if l.ID == m.state.Layer {
			next = layers[(i+1)%len(layers)].ID
			break
		}
	}
	st, _, err := m.app.SetLayer(m.state, next)
	m.err = err
	if err == nil {
		m.state = st
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("RECON SYSTEM"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(m.header()))
	b.WriteString("\n\n")

	recordsTab, targetsTab := activeTab, tabStyle
	if m.pane == paneTargets {
		recordsTab, targetsTab = tabStyle, activeTab
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		recordsTab.Render(fmt.Sprintf("База [%d]", m.results.Total)),
		targetsTab.Render(fmt.Sprintf("Цели [%d]", m.targets.Total)),
	))
	b.WriteString("\n\n")

	if m.pane == paneRecords {
		b.WriteString(m.viewRecords())
	} else {
		b.WriteString(m.viewTargets())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("tab: панель  ctrl+t: категория  ctrl+l: слой  space: фильтр  r: сброс  esc: выход"))
	return b.String()
}

func (m Model) header() string {
	who := "гость"
	if m.state.User != nil {
		who = m.state.User.DisplayName()
	}
	return fmt.Sprintf("оператор: %s | слой: %s", who, m.state.Layer)
}

func (m Model) viewRecords() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("категория: " + string(m.state.Category)))
	b.WriteString("\n\n")

	if len(m.results.Results) == 0 {
		b.WriteString(dimStyle.Render("Ничего не найдено"))
		b.WriteString("\n")
		return b.String()
	}
	for _, r := range m.results.Results {
		fmt.Fprintf(&b, "%3d  %-9s %s\n", r.ID, r.Category, r.Name)
		if r.Snippet != "" {
			b.WriteString("               ")
			b.WriteString(dimStyle.Render(r.Snippet))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) viewTargets() string {
	filters := make([]string, 0, len(m.options))
	for i, opt := range m.options {
		on, _ := m.state.Filters.IsEnabled(opt.kind, opt.value)
		box := "[ ]"
		if on {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, opt.value)
		if i == m.cursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		filters = append(filters, line)
	}

	markers := make([]string, 0, len(m.targets.Targets)+1)
	if len(m.targets.Targets) == 0 {
		markers = append(markers, dimStyle.Render("Нет целей под текущими фильтрами"))
	}
	for _, t := range m.targets.Targets {
		style, ok := priorityStyle[t.Priority]
		if !ok {
			style = dimStyle
		}
		markers = append(markers, fmt.Sprintf("%s %s (%.2f, %.2f) %s",
			style.Render(fmt.Sprintf("%-8s", t.Priority)),
			t.Title, t.Coordinates.Lat, t.Coordinates.Lng,
			dimStyle.Render(string(t.Classification))))
	}

	left := lipgloss.NewStyle().Width(26).Render(strings.Join(filters, "\n"))
	right := lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(markers, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n"
}
