// Package tui implements the interactive dashboard: one line per catalog
// app with install state, resolved release, and live operation progress.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/enderfall/hub/internal/core"
)

// StatusUpdate carries one orchestrator status change into the program.
type StatusUpdate struct {
	AppID  string
	Status core.AppStatus
}

// Deps wires the dashboard to the engine. Status must be the channel the
// orchestrator's OnStatus callback feeds.
type Deps struct {
	Store        core.Store
	Orchestrator *core.Orchestrator
	Resolver     *core.Resolver
	Catalog      []core.AppCatalogEntry
	Status       <-chan StatusUpdate
}

// Messages.
type (
	releasesMsg struct{ result core.ResolveResult }
	statesMsg   struct{ states map[string]core.InstallationStatus }
	statusMsg   StatusUpdate
	opDoneMsg   struct {
		appID string
		err   error
	}
	notesMsg struct {
		title    string
		rendered string
	}
)

// Model is the dashboard root model.
type Model struct {
	deps Deps

	list    list.Model
	spinner spinner.Model
	notes   viewport.Model

	width  int
	height int

	resolving bool
	showNotes bool

	result     core.ResolveResult
	prefs      map[string]bool
	states     map[string]core.InstallationStatus
	versions   map[string]string
	statuses   map[string]core.AppStatus
	notesTitle string
	errMsg     string
}

// New creates the dashboard model.
func New(deps Deps) Model {
	l := list.New(nil, appDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)

	return Model{
		deps:     deps,
		list:     l,
		spinner:  s,
		prefs:    make(map[string]bool),
		states:   make(map[string]core.InstallationStatus),
		versions: make(map[string]string),
		statuses: make(map[string]core.AppStatus),
	}
}

// Run starts the dashboard and blocks until the user quits.
func Run(deps Deps) error {
	p := tea.NewProgram(New(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.resolveCmd(false),
		m.refreshStatesCmd(),
		m.waitStatusCmd(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-6, max(1, msg.Height-8))
		m.notes = viewport.New(msg.Width-6, max(1, msg.Height-6))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.list.SetDelegate(appDelegate{spinnerFrame: m.spinner.View()})
		return m, cmd

	case releasesMsg:
		m.resolving = false
		m.result = msg.result
		m.errMsg = msg.result.FailureMessage()
		m.reloadRecords()
		m.syncItems()
		return m, nil

	case statesMsg:
		m.states = msg.states
		m.reloadRecords()
		m.syncItems()
		return m, nil

	case statusMsg:
		m.statuses[msg.AppID] = msg.Status
		m.syncItems()
		return m, m.waitStatusCmd()

	case opDoneMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.errMsg = ""
		}
		return m, m.refreshStatesCmd()

	case notesMsg:
		m.showNotes = true
		m.notesTitle = msg.title
		m.notes.SetContent(msg.rendered)
		m.notes.GotoTop()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showNotes {
		switch {
		case key.Matches(msg, keys.Back), key.Matches(msg, keys.Quit):
			m.showNotes = false
			return m, nil
		}
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Refresh):
		m.resolving = true
		return m, m.resolveCmd(true)

	case key.Matches(msg, keys.Enter):
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		if item.state.Installed {
			return m, m.launchCmd(item.entry.ID)
		}
		if item.release == nil {
			m.errMsg = fmt.Sprintf("no installer available for %s", item.entry.Name)
			return m, nil
		}
		return m, m.installCmd(item.entry.ID, *item.release)

	case key.Matches(msg, keys.Update):
		item, ok := m.selected()
		if !ok || !item.hasUpdate || item.release == nil {
			return m, nil
		}
		return m, m.updateCmd(item.entry.ID, *item.release)

	case key.Matches(msg, keys.Uninstall):
		item, ok := m.selected()
		if !ok || !item.state.Installed {
			return m, nil
		}
		return m, m.uninstallCmd(item.entry.ID)

	case key.Matches(msg, keys.Channel):
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		enabled := !m.prefs[item.entry.ID]
		if err := core.SetPrereleaseEnabled(m.deps.Store, item.entry.ID, enabled); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.prefs[item.entry.ID] = enabled
		m.resolving = true
		return m, m.resolveCmd(false)

	case key.Matches(msg, keys.Notes):
		item, ok := m.selected()
		if !ok || item.release == nil || item.release.Notes == "" {
			return m, nil
		}
		return m, renderNotesCmd(item.entry.Name, item.release)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	header := logoStyle.Render("Enderfall Hub")
	if m.resolving {
		header += "  " + m.spinner.View() + headerHintStyle.Render(" checking for releases...")
	}

	if m.showNotes {
		title := notesTitleStyle.Render(m.notesTitle + " — release notes")
		body := contentStyle.Width(m.width - 2).Render(m.notes.View())
		help := helpStyle.Render("esc back · j/k scroll")
		return lipgloss.JoinVertical(lipgloss.Left, header, title, body, help)
	}

	body := contentStyle.Width(m.width - 2).Render(m.list.View())

	var footer []string
	if m.errMsg != "" {
		footer = append(footer, errorStyle.Render(m.errMsg))
	}
	footer = append(footer, helpStyle.Render(
		"enter install/launch · u update · d uninstall · p channel · n notes · r refresh · q quit"))

	parts := append([]string{header, body}, footer...)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) selected() (appItem, bool) {
	item := m.list.SelectedItem()
	if item == nil {
		return appItem{}, false
	}
	it, ok := item.(appItem)
	return it, ok
}

// reloadRecords re-reads the persisted version records and channel prefs.
func (m *Model) reloadRecords() {
	for _, entry := range m.deps.Catalog {
		if v, ok, err := core.InstalledVersion(m.deps.Store, entry.ID); err == nil && ok {
			m.versions[entry.ID] = v
		} else {
			delete(m.versions, entry.ID)
		}
		pre, err := core.PrereleaseEnabled(m.deps.Store, entry.ID)
		if err == nil {
			m.prefs[entry.ID] = pre
		}
	}
}

// syncItems rebuilds the list items from current state.
func (m *Model) syncItems() {
	items := make([]list.Item, 0, len(m.deps.Catalog))
	for _, entry := range m.deps.Catalog {
		item := appItem{
			entry:      entry,
			state:      m.states[entry.ID],
			installed:  m.versions[entry.ID],
			prerelease: m.prefs[entry.ID],
			status:     m.statuses[entry.ID],
		}
		if rel, ok := m.result.Releases[entry.ID]; ok {
			rel := rel
			item.release = &rel
			item.hasUpdate = core.UpdateAvailable(item.installed, &rel)
		}
		items = append(items, item)
	}
	m.list.SetItems(items)
}

// Commands.

func (m Model) resolveCmd(force bool) tea.Cmd {
	deps := m.deps
	prefs, err := core.ChannelPrefs(deps.Store, deps.Catalog)
	if err != nil {
		prefs = nil
	}
	return func() tea.Msg {
		result := deps.Resolver.ResolveReleases(context.Background(), deps.Catalog, prefs, force)
		return releasesMsg{result: result}
	}
}

func (m Model) refreshStatesCmd() tea.Cmd {
	orch := m.deps.Orchestrator
	return func() tea.Msg {
		return statesMsg{states: orch.RefreshState()}
	}
}

func (m Model) waitStatusCmd() tea.Cmd {
	ch := m.deps.Status
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return nil
		}
		return statusMsg(update)
	}
}

func (m Model) installCmd(appID string, rel core.ReleaseInfo) tea.Cmd {
	orch := m.deps.Orchestrator
	return func() tea.Msg {
		err := orch.Install(context.Background(), appID, rel, core.InstallOptions{
			CreateDesktopShortcut:   true,
			CreateStartMenuShortcut: true,
		})
		return opDoneMsg{appID: appID, err: err}
	}
}

func (m Model) updateCmd(appID string, rel core.ReleaseInfo) tea.Cmd {
	orch := m.deps.Orchestrator
	return func() tea.Msg {
		err := orch.Update(context.Background(), appID, rel, core.InstallOptions{})
		return opDoneMsg{appID: appID, err: err}
	}
}

func (m Model) uninstallCmd(appID string) tea.Cmd {
	orch := m.deps.Orchestrator
	return func() tea.Msg {
		err := orch.Uninstall(context.Background(), appID)
		return opDoneMsg{appID: appID, err: err}
	}
}

func (m Model) launchCmd(appID string) tea.Cmd {
	orch := m.deps.Orchestrator
	return func() tea.Msg {
		return opDoneMsg{appID: appID, err: orch.Launch(appID, false)}
	}
}

func renderNotesCmd(appName string, rel *core.ReleaseInfo) tea.Cmd {
	notes := rel.Notes
	version := rel.Version
	return func() tea.Msg {
		rendered, err := glamour.Render(notes, "dark")
		if err != nil {
			rendered = notes
		}
		return notesMsg{
			title:    fmt.Sprintf("%s v%s", appName, version),
			rendered: strings.TrimRight(rendered, "\n"),
		}
	}
}
