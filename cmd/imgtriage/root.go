package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"imgtriage/internal/config"
	"imgtriage/internal/errors"
	"imgtriage/internal/log"
	"imgtriage/internal/organize"
	"imgtriage/internal/triage"
	"imgtriage/internal/tui"
	"imgtriage/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	cfg     *config.Config
)

// NewRootCmd creates the root command. Without a subcommand it opens the
// triage UI with the given files imported.
func NewRootCmd() *cobra.Command {
	cfgFile, debug, cfg = "", false, nil

	rootCmd := &cobra.Command{
		Use:   "imgtriage [files...]",
		Short: "Sort through images and save the keepers",
		Long: `imgtriage walks you through a pile of images one at a time.

Accept or reject each file with the arrow keys, tag it with a single
letter, filter the accepted pile by tag and copy or move the result
into a target directory.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfgFile != "" {
				cfg, err = config.LoadConfigFile(cfgFile)
			} else {
				cfg, err = config.LoadConfig()
			}
			if err != nil {
				return errors.Wrap(err, "loading config")
			}

			opts := []log.Option{log.WithOutput(cmd.ErrOrStderr())}
			if cfg.Logging.JSON {
				opts = append(opts, log.WithJSON())
			}
			log.Configure(opts...)
			log.SetDebug(debug || cfg.Logging.Debug)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/imgtriage/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewSaveCmd())
	rootCmd.AddCommand(NewDeleteCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

// newSession builds an empty session that imports the configured extensions
func newSession() (*triage.Session, error) {
	matcher, err := triage.NewExtensionMatcher(cfg.Import.Extensions)
	if err != nil {
		return nil, err
	}
	return triage.NewSession(triage.NewStore(matcher)), nil
}

func runTUI(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the terminal belongs to the UI from here on
	if cfg.Logging.File != "" {
		log.Configure(log.WithFile(cfg.Logging.File))
	} else {
		log.Configure(log.Discard())
	}

	session, err := newSession()
	if err != nil {
		return err
	}

	opts := []tui.Option{tui.WithContext(ctx)}
	if cfg.Watch.Enabled {
		w, err := watch.New()
		if err != nil {
			return fmt.Errorf("starting file watcher: %w", err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("starting file watcher: %w", err)
		}
		defer w.Stop()
		opts = append(opts, tui.WithWatcher(w))
	}

	m := tui.New(cfg, session, organize.NewSaver(cfg), opts...)
	if len(args) > 0 {
		paths, err := tui.ExpandPaths(args)
		if err != nil {
			return err
		}
		m.Import(paths)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
