package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/plhk/pterm/internal/session"
	"github.com/plhk/pterm/internal/shell"
)

// Run launches the terminal UI on top of a running controller. It
// returns when the user quits or the controller closes.
func Run(ctx context.Context, ctrl *shell.Controller, notifier *Notifier) error {
	program := tea.NewProgram(newModel(ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	notifier.attach(program)
	_, err := program.Run()
	return err
}

type model struct {
	ctrl *shell.Controller

	styles    styles
	tabs      []session.TabInfo
	focusedID string
	width     int
	height    int
	lastErr   string
	quitting  bool
}

func newModel(ctrl *shell.Controller) model {
	return model{
		ctrl:   ctrl,
		styles: buildStyles(ctrl.Palette()),
	}
}

func (m model) Init() tea.Cmd {
	// Pull the snapshot that may predate the notifier attachment.
	return func() tea.Msg {
		return TabsMsg{Tabs: m.ctrl.Tabs(), FocusedID: m.ctrl.FocusedID()}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TabsMsg:
		m.tabs = msg.Tabs
		m.focusedID = msg.FocusedID
		m.lastErr = ""
		return m, tea.SetWindowTitle(m.focusedTitle())

	case SpawnFailedMsg:
		m.lastErr = fmt.Sprintf("open tab failed: %v", msg.Err)

	case ThemeMsg:
		m.styles = buildStyles(msg.Palette)

	case ClosedMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if idx, ok := tabShortcut(key); ok {
		return m, m.cmd(func() { m.ctrl.FocusIndex(idx) })
	}

	switch key {
	case "ctrl+t":
		return m, m.cmd(func() { _, _ = m.ctrl.OpenTab(context.Background()) })
	case "ctrl+w":
		id := m.focusedID
		return m, m.cmd(func() { m.ctrl.CloseTab(id) })
	case "ctrl+right", "alt+right":
		return m, m.cmd(m.ctrl.FocusNext)
	case "ctrl+left", "alt+left":
		return m, m.cmd(m.ctrl.FocusPrev)
	case "ctrl+r":
		return m, m.cmd(m.ctrl.Reload)
	case "ctrl+q":
		return m, m.cmd(m.ctrl.Shutdown)
	}
	return m, nil
}

// cmd runs a controller operation off the UI loop; resulting state
// changes come back as notifier messages.
func (m model) cmd(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

// tabShortcut maps alt+1..alt+9 to a tab index.
func tabShortcut(key string) (int, bool) {
	if !strings.HasPrefix(key, "alt+") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(key, "alt+"))
	if err != nil || n < 1 || n > 9 {
		return 0, false
	}
	return n - 1, true
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.tabBar())
	b.WriteString("\n\n")

	if len(m.tabs) == 0 {
		b.WriteString(m.styles.Muted.Render("No open tabs. Press ctrl+t to open one."))
	} else {
		b.WriteString(m.styles.Title.Render(m.focusedTitle()))
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d open tab(s)", len(m.tabs))))
	}

	if m.lastErr != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Error.Render(m.lastErr))
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.Muted.Render("ctrl+t new | ctrl+w close | alt+1..9 switch | ctrl+←/→ cycle | ctrl+r reload | ctrl+q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m model) tabBar() string {
	if len(m.tabs) == 0 {
		return m.styles.TabBar.Render("")
	}

	labels := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		label := fmt.Sprintf("%d. %s", i+1, tab.Title)
		if tab.ID == m.focusedID {
			labels[i] = m.styles.TabActive.Render(label)
		} else {
			labels[i] = m.styles.TabInactive.Render(label)
		}
	}
	return m.styles.TabBar.Render(strings.Join(labels, " "))
}

func (m model) focusedTitle() string {
	for _, tab := range m.tabs {
		if tab.ID == m.focusedID {
			return tab.Title
		}
	}
	return "pterm"
}
