// Package tui implements the user-facing layer: a tab bar and key
// dispatch on top of the shell controller.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/plhk/pterm/internal/session"
	"github.com/plhk/pterm/internal/theme"
)

// TabsMsg carries a new tab snapshot from the controller.
type TabsMsg struct {
	Tabs      []session.TabInfo
	FocusedID string
}

// SpawnFailedMsg reports a failed open-tab request.
type SpawnFailedMsg struct {
	Err error
}

// ThemeMsg carries a freshly applied palette and font.
type ThemeMsg struct {
	Palette theme.Palette
	Font    theme.Font
}

// ClosedMsg reports that the controller reached its terminal state.
type ClosedMsg struct{}

// Notifier bridges controller notifications into the running bubbletea
// program. Notifications arriving before the program starts are
// dropped; the model pulls a fresh snapshot on init.
type Notifier struct {
	mu      sync.Mutex
	program *tea.Program
}

// NewNotifier creates an unattached notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) attach(program *tea.Program) {
	n.mu.Lock()
	n.program = program
	n.mu.Unlock()
}

func (n *Notifier) send(msg tea.Msg) {
	n.mu.Lock()
	program := n.program
	n.mu.Unlock()
	if program != nil {
		program.Send(msg)
	}
}

// TabsChanged implements shell.Notifier.
func (n *Notifier) TabsChanged(tabs []session.TabInfo, focusedID string) {
	n.send(TabsMsg{Tabs: tabs, FocusedID: focusedID})
}

// SpawnFailed implements shell.Notifier.
func (n *Notifier) SpawnFailed(err error) {
	n.send(SpawnFailedMsg{Err: err})
}

// ThemeChanged implements shell.Notifier.
func (n *Notifier) ThemeChanged(p theme.Palette, f theme.Font) {
	n.send(ThemeMsg{Palette: p, Font: f})
}

// Closed implements shell.Notifier.
func (n *Notifier) Closed() {
	n.send(ClosedMsg{})
}
