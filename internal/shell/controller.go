// Package shell hosts the top-level controller coordinating tabs,
// sessions, and configuration across the whole window lifecycle.
package shell

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/plhk/pterm/internal/config"
	"github.com/plhk/pterm/internal/logging"
	"github.com/plhk/pterm/internal/session"
	"github.com/plhk/pterm/internal/theme"
	"github.com/plhk/pterm/internal/widget"
)

// Controller errors.
var (
	ErrEngineRequired = errors.New("widget engine is required")
	ErrStoreRequired  = errors.New("config store is required")
	ErrShuttingDown   = errors.New("shell is shutting down")
)

// State is the whole-window lifecycle state.
type State int

const (
	// StateEmpty means no sessions are open.
	StateEmpty State = iota
	// StateRunning means at least one session is open and focused.
	StateRunning
	// StateShuttingDown means close was requested and the controller
	// is waiting for all children to exit.
	StateShuttingDown
	// StateClosed is terminal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting_down"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Notifier receives user-facing notifications. Methods are invoked from
// the controller loop; implementations must not call back into the
// controller synchronously.
type Notifier interface {
	// TabsChanged reports the new tab snapshot after any membership,
	// focus, or title change.
	TabsChanged(tabs []session.TabInfo, focusedID string)

	// SpawnFailed reports a failed open-tab request. The window state
	// is unchanged; no tab was created.
	SpawnFailed(err error)

	// ThemeChanged reports a freshly applied palette and font.
	ThemeChanged(p theme.Palette, f theme.Font)

	// Closed reports that the last session exited after a shutdown
	// request.
	Closed()
}

// NoopNotifier discards all notifications.
type NoopNotifier struct{}

func (NoopNotifier) TabsChanged([]session.TabInfo, string)  {}
func (NoopNotifier) SpawnFailed(error)                      {}
func (NoopNotifier) ThemeChanged(theme.Palette, theme.Font) {}
func (NoopNotifier) Closed()                                {}

// Options configure the controller.
type Options struct {
	Engine   widget.Engine
	Store    *config.Store
	Notifier Notifier

	// Shell overrides the command spawned in new tabs.
	Shell string
}

type sessionEvent struct {
	id    string
	event widget.Event
}

// Controller is the top-level orchestrator. All state transitions run
// on the single goroutine inside Run; public methods hand work to that
// loop and wait for it.
type Controller struct {
	engine   widget.Engine
	store    *config.Store
	notifier Notifier
	shell    string

	registry *session.Registry
	palette  theme.Palette
	font     theme.Font
	state    State

	cmds   chan func()
	events chan sessionEvent
	done   chan struct{}
	logger zerolog.Logger
}

// New creates a controller and resolves the initial configuration.
func New(opts Options) (*Controller, error) {
	if opts.Engine == nil {
		return nil, ErrEngineRequired
	}
	if opts.Store == nil {
		return nil, ErrStoreRequired
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NoopNotifier{}
	}

	cfg := opts.Store.Load()

	return &Controller{
		engine:   opts.Engine,
		store:    opts.Store,
		notifier: notifier,
		shell:    opts.Shell,
		registry: session.NewRegistry(),
		palette:  theme.Resolve(cfg),
		font:     theme.ResolveFont(cfg),
		state:    StateEmpty,
		cmds:     make(chan func(), 16),
		events:   make(chan sessionEvent, 16),
		done:     make(chan struct{}),
		logger:   logging.Component("shell"),
	}, nil
}

// Run executes the control loop until the controller reaches Closed or
// the context is canceled. Collaborator notifications and user requests
// are all serviced here, one at a time.
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("context canceled, terminating sessions")
			for _, s := range c.registry.Sessions() {
				s.Terminate()
			}
			c.close()
			return ctx.Err()
		case fn := <-c.cmds:
			fn()
		case ev := <-c.events:
			c.handleSessionEvent(ev)
		}

		if c.state == StateClosed {
			return nil
		}
	}
}

// Done is closed once the controller reaches Closed.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// do runs fn on the control loop and waits for it. Returns false if the
// loop has already finished.
func (c *Controller) do(fn func()) bool {
	executed := make(chan struct{})
	wrapped := func() {
		fn()
		close(executed)
	}

	select {
	case c.cmds <- wrapped:
	case <-c.done:
		return false
	}

	select {
	case <-executed:
		return true
	case <-c.done:
		return false
	}
}

// State reports the current lifecycle state.
func (c *Controller) State() State {
	state := StateClosed
	c.do(func() { state = c.state })
	return state
}

// Tabs returns the current tab snapshot.
func (c *Controller) Tabs() []session.TabInfo {
	var tabs []session.TabInfo
	c.do(func() { tabs = c.registry.List() })
	return tabs
}

// FocusedID returns the focused session id, or "".
func (c *Controller) FocusedID() string {
	id := ""
	c.do(func() { id = c.registry.FocusedID() })
	return id
}

// Palette returns the currently applied palette.
func (c *Controller) Palette() theme.Palette {
	p := theme.Default()
	c.do(func() { p = c.palette })
	return p
}

// OpenTab spawns a new session and focuses it. On spawn failure the
// window keeps its prior state: no tab is created and the error is
// surfaced exactly once through the notifier and the return value.
func (c *Controller) OpenTab(ctx context.Context) (string, error) {
	var id string
	err := ErrShuttingDown
	c.do(func() { id, err = c.openTab(ctx) })
	return id, err
}

// CloseTab terminates the session and removes its tab immediately,
// re-deriving focus. Unknown ids are a no-op.
func (c *Controller) CloseTab(id string) {
	c.do(func() { c.closeTab(id, "close_tab") })
}

// FocusTab moves focus to the given session. Returns false, changing
// nothing, if the id is unknown.
func (c *Controller) FocusTab(id string) bool {
	ok := false
	c.do(func() {
		ok = c.registry.Focus(id)
		if ok {
			c.notifyTabs()
		}
	})
	return ok
}

// FocusIndex moves focus to the tab at the given display index.
func (c *Controller) FocusIndex(idx int) bool {
	ok := false
	c.do(func() {
		ok = c.registry.FocusIndex(idx)
		if ok {
			c.notifyTabs()
		}
	})
	return ok
}

// FocusNext cycles focus to the right.
func (c *Controller) FocusNext() {
	c.do(func() {
		c.registry.FocusNext()
		c.notifyTabs()
	})
}

// FocusPrev cycles focus to the left.
func (c *Controller) FocusPrev() {
	c.do(func() {
		c.registry.FocusPrev()
		c.notifyTabs()
	})
}

// Reload re-reads the configuration and applies the resolved palette
// and font to every live session. Tab membership and focus are
// untouched. Application is atomic: one resolved palette value is
// applied to all sessions before the controller retains it as current.
func (c *Controller) Reload() {
	c.do(c.reload)
}

// Shutdown requests the whole window to close: every session is asked
// to terminate and the controller transitions to ShuttingDown (or
// directly to Closed when no sessions are open).
func (c *Controller) Shutdown() {
	c.do(c.shutdown)
}

func (c *Controller) openTab(ctx context.Context) (string, error) {
	if c.state == StateShuttingDown || c.state == StateClosed {
		return "", ErrShuttingDown
	}

	// A new tab inherits the focused tab's working directory.
	workingDir := ""
	if focused := c.registry.Focused(); focused != nil {
		workingDir = focused.WorkingDir()
	}

	sess, err := session.Create(ctx, c.engine, session.CreateOptions{
		Shell:      c.shell,
		WorkingDir: workingDir,
		Palette:    c.palette,
		Font:       c.font,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("open tab failed")
		c.notifier.SpawnFailed(err)
		return "", err
	}

	c.registry.Insert(sess)
	c.state = StateRunning
	go c.forward(sess)

	c.logger.Info().Str("session_id", sess.ID()).Int("pid", sess.Pid()).Msg("tab opened")
	c.notifyTabs()
	return sess.ID(), nil
}

func (c *Controller) closeTab(id, cause string) {
	sess, ok := c.registry.Get(id)
	if !ok {
		return
	}

	sess.Terminate()
	c.removeSession(id, cause)
}

// removeSession drops the tab and re-derives focus and state. Removal
// is idempotent, so a close followed by the exit notification (or
// duplicate notifications) settles harmlessly.
func (c *Controller) removeSession(id, cause string) {
	if !c.registry.Remove(id) {
		return
	}

	c.logger.Info().Str("session_id", id).Str("cause", cause).Msg("tab closed")

	if c.registry.Len() == 0 {
		switch c.state {
		case StateRunning:
			c.state = StateEmpty
		case StateShuttingDown:
			c.close()
			return
		}
	}
	c.notifyTabs()
}

func (c *Controller) reload() {
	cfg := c.store.Load()
	palette := theme.Resolve(cfg)
	font := theme.ResolveFont(cfg)

	for _, s := range c.registry.Sessions() {
		s.ApplyTheme(palette, font)
	}

	c.palette = palette
	c.font = font

	c.logger.Info().Int("sessions", c.registry.Len()).Msg("configuration reloaded")
	c.notifier.ThemeChanged(palette, font)
}

func (c *Controller) shutdown() {
	switch c.state {
	case StateShuttingDown, StateClosed:
		return
	case StateEmpty:
		c.close()
		return
	}

	c.state = StateShuttingDown
	c.logger.Info().Int("sessions", c.registry.Len()).Msg("shutting down")
	for _, s := range c.registry.Sessions() {
		s.Terminate()
	}
}

func (c *Controller) close() {
	if c.state == StateClosed {
		return
	}
	c.state = StateClosed
	close(c.done)
	c.logger.Info().Msg("closed")
	c.notifier.Closed()
}

// forward relays one session's events into the control loop, keeping
// that session's ordering. It exits when the session's stream closes.
func (c *Controller) forward(s *session.Session) {
	for ev := range s.Events() {
		select {
		case c.events <- sessionEvent{id: s.ID(), event: ev}:
		case <-c.done:
			return
		}
	}
}

func (c *Controller) handleSessionEvent(ev sessionEvent) {
	switch ev.event.Type {
	case widget.EventTitleChanged:
		sess, ok := c.registry.Get(ev.id)
		if !ok {
			return
		}
		sess.SetTitle(ev.event.Title)
		c.notifyTabs()
	case widget.EventExited:
		// An unexpected exit closes the tab exactly like close_tab;
		// only the logged cause differs.
		c.logger.Debug().Str("session_id", ev.id).Int("exit_code", ev.event.ExitCode).Msg("session exited")
		c.removeSession(ev.id, "process_exit")
	}
}

func (c *Controller) notifyTabs() {
	c.notifier.TabsChanged(c.registry.List(), c.registry.FocusedID())
}
