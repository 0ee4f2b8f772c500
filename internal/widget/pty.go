package widget

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/rs/zerolog"

	"github.com/plhk/pterm/internal/logging"
	"github.com/plhk/pterm/internal/theme"
)

const (
	defaultCols = 80
	defaultRows = 24

	// killDelay is how long Terminate waits for a graceful exit
	// before killing the child outright.
	killDelay = 3 * time.Second
)

// PTYEngine spawns shells on pseudo-terminals. It is the default Engine
// implementation; a GUI rendering backend would replace it without the
// session layer noticing.
type PTYEngine struct {
	logger zerolog.Logger
}

// NewPTYEngine creates a PTY-backed engine.
func NewPTYEngine() *PTYEngine {
	return &PTYEngine{logger: logging.Component("pty")}
}

// DefaultShell returns the shell command to spawn when none is
// configured: $SHELL, then /bin/sh.
func DefaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}

// Spawn starts the child on a fresh PTY and begins delivering events.
func (e *PTYEngine) Spawn(ctx context.Context, opts SpawnOptions) (Instance, error) {
	shell := opts.Shell
	if shell == "" {
		shell = DefaultShell()
	}

	cmd := exec.Command(shell)
	cmd.Dir = opts.WorkingDir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	cmd.Env = append(cmd.Env, opts.Env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: defaultCols,
		Rows: defaultRows,
	})
	if err != nil {
		return nil, fmt.Errorf("start pty: %w", err)
	}

	inst := &ptyInstance{
		cmd:      cmd,
		ptmx:     ptmx,
		startDir: opts.WorkingDir,
		palette:  opts.Palette,
		font:     opts.Font,
		events:   make(chan Event, 16),
		readDone: make(chan struct{}),
		logger:   e.logger.With().Int("pid", cmd.Process.Pid).Logger(),
	}

	go inst.readLoop()
	go inst.waitLoop()

	e.logger.Debug().Str("shell", shell).Int("pid", cmd.Process.Pid).Msg("spawned")
	return inst, nil
}

type ptyInstance struct {
	cmd      *exec.Cmd
	ptmx     *os.File
	startDir string
	logger   zerolog.Logger

	mu      sync.Mutex
	palette theme.Palette
	font    theme.Font
	exited  bool

	terminate sync.Once
	events    chan Event
	readDone  chan struct{}
}

func (i *ptyInstance) Pid() int {
	return i.cmd.Process.Pid
}

// WorkingDir resolves the child's cwd from procfs; falls back to the
// spawn directory. Linux-only.
func (i *ptyInstance) WorkingDir() string {
	link := fmt.Sprintf("/proc/%d/cwd", i.Pid())
	if dir, err := os.Readlink(link); err == nil {
		return dir
	}
	return i.startDir
}

// SetColors records the palette. The PTY backend has no renderer; a
// display backend would repaint here.
func (i *ptyInstance) SetColors(p theme.Palette) {
	i.mu.Lock()
	i.palette = p
	i.mu.Unlock()
}

// SetFont records the font request.
func (i *ptyInstance) SetFont(family string, size int) {
	i.mu.Lock()
	i.font = theme.Font{Family: family, Size: size}
	i.mu.Unlock()
}

// Colors returns the last applied palette.
func (i *ptyInstance) Colors() theme.Palette {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.palette
}

// Font returns the last applied font request.
func (i *ptyInstance) Font() theme.Font {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.font
}

func (i *ptyInstance) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return errors.New("dimensions must be positive")
	}
	return pty.Setsize(i.ptmx, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
}

// Terminate requests a graceful shutdown, then kills the child if it
// lingers. Safe to call any number of times, including after exit.
func (i *ptyInstance) Terminate() {
	i.terminate.Do(func() {
		i.mu.Lock()
		exited := i.exited
		i.mu.Unlock()
		if exited {
			return
		}

		if err := i.cmd.Process.Signal(syscall.SIGHUP); err != nil {
			i.logger.Debug().Err(err).Msg("signal failed, child likely gone")
			return
		}

		go func() {
			timer := time.NewTimer(killDelay)
			defer timer.Stop()
			select {
			case <-i.readDone:
			case <-timer.C:
				i.mu.Lock()
				exited := i.exited
				i.mu.Unlock()
				if !exited {
					i.logger.Warn().Msg("child ignored SIGHUP, killing")
					_ = i.cmd.Process.Kill()
				}
			}
		}()
	})
}

func (i *ptyInstance) Events() <-chan Event {
	return i.events
}

// readLoop drains PTY output, extracting title reports. Output bytes are
// otherwise discarded here; rendering belongs to the display backend.
func (i *ptyInstance) readLoop() {
	defer close(i.readDone)

	var scanner titleScanner
	buf := make([]byte, 4096)
	for {
		n, err := i.ptmx.Read(buf)
		if n > 0 {
			for _, title := range scanner.Feed(buf[:n]) {
				i.events <- Event{Type: EventTitleChanged, Title: title}
			}
		}
		if err != nil {
			// EOF or EIO once the child side closes.
			return
		}
	}
}

// waitLoop reaps the child and delivers the final exit event after all
// title events, preserving per-instance ordering.
func (i *ptyInstance) waitLoop() {
	err := i.cmd.Wait()

	i.mu.Lock()
	i.exited = true
	i.mu.Unlock()

	_ = i.ptmx.Close()
	<-i.readDone

	exitCode := 0
	if err != nil {
		exitErr := new(exec.ExitError)
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = 1
		}
	}

	i.events <- Event{Type: EventExited, ExitCode: exitCode}
	close(i.events)
	i.logger.Debug().Int("exit_code", exitCode).Msg("child exited")
}
