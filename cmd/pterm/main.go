// Command pterm is a tabbed terminal session manager: each tab hosts a
// shell on its own pseudo-terminal, themed from a shared config file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/plhk/pterm/internal/config"
	"github.com/plhk/pterm/internal/logging"
	"github.com/plhk/pterm/internal/shell"
	"github.com/plhk/pterm/internal/tui"
	"github.com/plhk/pterm/internal/widget"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		shellCmd   string
		logLevel   string
		headless   bool
	)

	cmd := &cobra.Command{
		Use:           "pterm",
		Short:         "Tabbed terminal session manager",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logging.Setup(logging.Options{
				Level:   logLevel,
				Console: term.IsTerminal(int(os.Stderr.Fd())),
			})
			return run(cmd.Context(), configPath, shellCmd, headless)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file path (default: per-user config dir)")
	cmd.Flags().StringVar(&shellCmd, "shell", "", "shell command for new tabs (default: $SHELL)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	cmd.Flags().BoolVar(&headless, "headless", false, "run without the tab bar UI")

	return cmd
}

func run(parent context.Context, configPath, shellCmd string, headless bool) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.Component("main")
	store := config.NewStore(configPath)

	var notifier shell.Notifier = shell.NoopNotifier{}
	var bridge *tui.Notifier
	if !headless {
		bridge = tui.NewNotifier()
		notifier = bridge
	}

	ctrl, err := shell.New(shell.Options{
		Engine:   widget.NewPTYEngine(),
		Store:    store,
		Notifier: notifier,
		Shell:    shellCmd,
	})
	if err != nil {
		return err
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- ctrl.Run(ctx)
	}()

	go func() {
		if err := store.Watch(ctx, ctrl.Reload); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn().Err(err).Msg("config watch stopped")
		}
	}()

	if _, err := ctrl.OpenTab(ctx); err != nil {
		// The window stays open in its empty state; the failure has
		// been surfaced through the notifier.
		logger.Error().Err(err).Msg("could not open initial tab")
	}

	if headless {
		<-ctrl.Done()
	} else {
		if err := tui.Run(ctx, ctrl, bridge); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn().Err(err).Msg("ui exited with error")
		}
		ctrl.Shutdown()
	}

	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
