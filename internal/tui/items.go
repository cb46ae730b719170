package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/enderfall/hub/internal/core"
)

// appItem wraps one catalog entry plus everything the dashboard shows for
// it: install state, resolved release, channel, and operation status.
type appItem struct {
	entry      core.AppCatalogEntry
	state      core.InstallationStatus
	installed  string // installed version record, "" when absent
	release    *core.ReleaseInfo
	prerelease bool
	hasUpdate  bool
	status     core.AppStatus
}

func (i appItem) FilterValue() string { return i.entry.Name }

// line renders the one-line summary for the delegate.
func (i appItem) line(spinnerFrame string) string {
	var b strings.Builder
	b.WriteString(i.entry.Name)

	if i.state.Installed {
		if i.installed != "" {
			b.WriteString(mutedStyle.Render(" v" + i.installed))
		}
		b.WriteString(installedStyle.Render(" ●"))
	}
	if i.hasUpdate && i.release != nil {
		b.WriteString(updateStyle.Render(fmt.Sprintf(" update → v%s", i.release.Version)))
	}
	if !i.state.Installed && i.release != nil {
		b.WriteString(mutedStyle.Render(" v" + i.release.Version + " available"))
	}
	if i.prerelease {
		b.WriteString(channelStyle.Render(" [pre-release]"))
	}
	if i.state.DevAvailable {
		b.WriteString(channelStyle.Render(" [dev]"))
	}

	switch i.status.Phase {
	case core.PhaseDownloading, core.PhaseInstalling, core.PhaseUninstalling:
		b.WriteString(" " + spinnerFrame + " " + mutedStyle.Render(i.status.Phase.String()))
		if i.status.Progress > 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf(" %d%%", int(i.status.Progress*100))))
		}
	case core.PhaseFailed:
		b.WriteString(errorStyle.Render(" ✗ " + i.status.Message))
	}

	return b.String()
}

// appDelegate renders appItems one line each.
type appDelegate struct {
	spinnerFrame string
}

func (d appDelegate) Height() int                             { return 1 }
func (d appDelegate) Spacing() int                            { return 0 }
func (d appDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d appDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(appItem)
	if !ok {
		return
	}

	indicator := "  "
	line := it.line(d.spinnerFrame)
	if index == m.Index() {
		indicator = "> "
		line = selectedItemStyle.Render(indicator) + line
	} else {
		line = normalItemStyle.Render(indicator) + line
	}

	_, _ = fmt.Fprint(w, ansi.Truncate(line, m.Width(), "…"))
}
