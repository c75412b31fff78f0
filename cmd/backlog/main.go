package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/backlog/internal/app"
	"github.com/five82/backlog/internal/config"
	"github.com/five82/backlog/internal/logging"
	"github.com/five82/backlog/internal/logtail"
	"github.com/five82/backlog/internal/offline"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "backlog: %v\n", err)
		return 1
	}
	return 0
}

type globalFlags struct {
	configPath string
	prefsPath  string
	location   string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "backlog",
		Short:         "Browse and curate a game collection and tierlist",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd.Context(), flags, flags.location)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			return a.Run(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default ~/.config/backlog/config.toml)")
	root.PersistentFlags().StringVar(&flags.prefsPath, "prefs", "", "preferences file (default ~/.config/backlog/prefs.toml)")
	root.Flags().StringVarP(&flags.location, "location", "l", "/", "start location, e.g. /completed?platform=pc")

	root.AddCommand(newListCmd(&flags), newSyncCmd(&flags), newLogsCmd(&flags))
	return root
}

func newListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list [location]",
		Short: "Print the games selected by a location",
		Example: `  backlog list
  backlog list "/completed?sort=finishedDate&dir=desc"
  backlog list /tierlist`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := "/"
			if len(args) == 1 {
				location = args[0]
			}
			a, err := open(cmd.Context(), *flags, location)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			return a.List(cmd.Context(), location, cmd.OutOrStdout())
		},
	}
}

func newSyncCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay a save queued while offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd.Context(), *flags, "/")
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			err = a.SyncPending(cmd.Context())
			switch {
			case errors.Is(err, offline.ErrNoPending):
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to sync")
				return nil
			case err != nil:
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "pending save replayed")
			return nil
		},
	}
}

func newLogsCmd(flags *globalFlags) *cobra.Command {
	var (
		lines int
		level string
		color bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent log records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			minLevel, err := logging.ParseLevel(level)
			if err != nil {
				return err
			}
			records, err := logtail.Read(cfg.LogPath(), lines)
			if err != nil {
				return err
			}
			return logtail.Render(cmd.OutOrStdout(), records, logtail.Options{Color: color, MinLevel: minLevel})
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 200, "number of trailing lines to read (0 reads all)")
	cmd.Flags().StringVar(&level, "level", "debug", "minimum level to show")
	cmd.Flags().BoolVar(&color, "color", false, "colorize output")
	return cmd
}

func open(ctx context.Context, flags globalFlags, location string) (*app.App, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(ctx, cfg, app.Options{PrefsPath: flags.prefsPath, Location: location})
}
