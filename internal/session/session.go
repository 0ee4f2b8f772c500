// Package session provides terminal session lifecycle management: one
// PTY-backed child process per tab, plus the ordered registry of tabs.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plhk/pterm/internal/theme"
	"github.com/plhk/pterm/internal/widget"
)

// Session errors.
var (
	// ErrSpawnFailed indicates the child process could not be started.
	ErrSpawnFailed = errors.New("failed to spawn session")
)

// CreateOptions configure a new session.
type CreateOptions struct {
	// Shell is the command to run. Empty means the engine default.
	Shell string

	// WorkingDir is the child's starting directory. A new tab passes
	// the focused tab's directory here to inherit it.
	WorkingDir string

	Palette theme.Palette
	Font    theme.Font
}

// Session wraps one terminal widget instance. The session exclusively
// owns the child process handle; callers interact only through it.
type Session struct {
	id        string
	inst      widget.Instance
	createdAt time.Time

	mu    sync.Mutex
	title string
}

// Create spawns a new child process on a fresh terminal instance. On
// failure nothing is left behind and the error wraps ErrSpawnFailed;
// the caller must not register the session anywhere.
func Create(ctx context.Context, engine widget.Engine, opts CreateOptions) (*Session, error) {
	if engine == nil {
		return nil, fmt.Errorf("%w: engine is required", ErrSpawnFailed)
	}

	inst, err := engine.Spawn(ctx, widget.SpawnOptions{
		Shell:      opts.Shell,
		WorkingDir: opts.WorkingDir,
		Palette:    opts.Palette,
		Font:       opts.Font,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawnFailed, err)
	}

	return &Session{
		id:        uuid.New().String(),
		inst:      inst,
		createdAt: time.Now().UTC(),
		title:     defaultTitle(opts.WorkingDir),
	}, nil
}

// ID returns the session's opaque identifier. IDs are unique for the
// process lifetime and never reused.
func (s *Session) ID() string {
	return s.id
}

// Title returns the current tab title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// SetTitle updates the tab title, normally from a title-changed event.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
}

// Pid returns the child process id.
func (s *Session) Pid() int {
	return s.inst.Pid()
}

// WorkingDir returns the child's current directory, best-effort.
func (s *Session) WorkingDir() string {
	return s.inst.WorkingDir()
}

// CreatedAt returns when the session was spawned.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// ApplyTheme re-applies palette and font to the live session without
// restarting its process.
func (s *Session) ApplyTheme(p theme.Palette, f theme.Font) {
	s.inst.SetColors(p)
	s.inst.SetFont(f.Family, f.Size)
}

// Resize adjusts the terminal dimensions.
func (s *Session) Resize(cols, rows int) error {
	return s.inst.Resize(cols, rows)
}

// Terminate requests the child process to exit. Idempotent.
func (s *Session) Terminate() {
	s.inst.Terminate()
}

// Events returns the session's notification stream: title changes in
// order, then a final exit event, then the channel closes.
func (s *Session) Events() <-chan widget.Event {
	return s.inst.Events()
}

// defaultTitle builds the user@host:dir placeholder shown until the
// child sets a title of its own.
func defaultTitle(workingDir string) string {
	username := ""
	if u, err := user.Current(); err == nil {
		username = u.Username
	}
	host, _ := os.Hostname()
	dir := workingDir
	if dir == "" {
		dir, _ = os.Getwd()
	}
	return fmt.Sprintf("%s@%s:%s", username, host, dir)
}
