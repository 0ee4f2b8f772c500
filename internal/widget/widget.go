// Package widget defines the terminal-widget engine boundary: the
// collaborator that hosts one child process on a display surface. The
// session layer depends only on the interfaces here, never on a
// concrete backend.
package widget

import (
	"context"

	"github.com/plhk/pterm/internal/theme"
)

// EventType identifies an instance notification.
type EventType string

const (
	// EventTitleChanged carries a new window title set by the child.
	EventTitleChanged EventType = "title_changed"
	// EventExited reports child process termination. It is the final
	// event; the instance channel is closed after it.
	EventExited EventType = "exited"
)

// Event is a notification from a widget instance. Events from one
// instance are delivered in the order they occurred.
type Event struct {
	Type     EventType
	Title    string
	ExitCode int
}

// SpawnOptions describe the child process and its initial appearance.
type SpawnOptions struct {
	// Shell is the command to run. Empty means $SHELL, then /bin/sh.
	Shell string

	// WorkingDir is the child's working directory. Empty means the
	// current process directory.
	WorkingDir string

	// Env contains extra KEY=VALUE entries appended to the inherited
	// environment.
	Env []string

	Palette theme.Palette
	Font    theme.Font
}

// Instance is one live terminal surface with its child process.
type Instance interface {
	// Pid returns the child process id.
	Pid() int

	// WorkingDir returns the child's current working directory,
	// best-effort. Used so a new tab can inherit it.
	WorkingDir() string

	// SetColors applies a palette without restarting the child.
	SetColors(p theme.Palette)

	// SetFont applies a font request without restarting the child.
	SetFont(family string, size int)

	// Resize adjusts the terminal dimensions.
	Resize(cols, rows int) error

	// Terminate asks the child to exit. Idempotent; terminating an
	// already-exited instance is a no-op.
	Terminate()

	// Events returns the instance notification stream. Closed after
	// EventExited is delivered.
	Events() <-chan Event
}

// Engine spawns terminal instances.
type Engine interface {
	Spawn(ctx context.Context, opts SpawnOptions) (Instance, error)
}
