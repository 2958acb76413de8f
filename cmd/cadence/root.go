package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/cadence/internal/config"
	"github.com/phrazzld/cadence/internal/domain"
	"github.com/phrazzld/cadence/internal/domain/srs"
	"github.com/phrazzld/cadence/internal/platform/logger"
)

var errNoProgress = errors.New("progress file is required (use -p FILE or -p - for stdin)")

// options holds the flags shared by every subcommand.
type options struct {
	configPath   string
	now          string
	progressPath string
}

// session is the per-invocation state built from options.
type session struct {
	scheduler srs.Service
	logger    *slog.Logger
	now       time.Time
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "cadence",
		Short:         "Spaced-repetition scheduler",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: ./config.yaml or $XDG_CONFIG_HOME/cadence)")
	rootCmd.PersistentFlags().StringVar(&opts.now, "now", "", "evaluate at this RFC 3339 time instead of the clock")

	rootCmd.AddCommand(newNewCmd(opts))
	rootCmd.AddCommand(newStageCmd(opts))
	rootCmd.AddCommand(newPreviewCmd(opts))
	rootCmd.AddCommand(newGradeCmd(opts))
	rootCmd.AddCommand(newPostponeCmd(opts))
	rootCmd.AddCommand(newParamsCmd(opts))

	return rootCmd
}

// addProgressFlag registers -p on commands that operate on a record.
func addProgressFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.progressPath, "progress", "p", "", "progress record JSON file, or - for stdin")
}

func (o *options) session(cmd *cobra.Command) (*session, error) {
	cfg, err := config.LoadFrom(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cmd.ErrOrStderr(), config.ServerConfig{
		LogLevel:  cfg.Server.LogLevel,
		LogFormat: "text",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	params, err := cfg.Scheduler.Params()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if o.now != "" {
		now, err = time.Parse(time.RFC3339, o.now)
		if err != nil {
			return nil, fmt.Errorf("invalid --now %q: %w", o.now, err)
		}
	}

	return &session{
		scheduler: srs.NewServiceWithParams(params),
		logger:    log.With("component", "cli", "command", cmd.Name()),
		now:       now,
	}, nil
}

// readProgress decodes the record named by -p. A JSON null yields nil,
// which the scheduler treats as a fresh item.
func (o *options) readProgress(cmd *cobra.Command) (*domain.Progress, error) {
	if o.progressPath == "" {
		return nil, errNoProgress
	}

	var r io.Reader
	if o.progressPath == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(o.progressPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open progress file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var progress *domain.Progress
	if err := json.NewDecoder(r).Decode(&progress); err != nil {
		return nil, fmt.Errorf("failed to decode progress: %w", err)
	}
	return progress, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
