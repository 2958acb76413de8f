package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phrazzld/cadence/internal/domain"
)

func newNewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Print a fresh progress record, due now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), s.scheduler.Introduce(s.now))
		},
	}
}

func newStageCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Print the grading stage (1, 2 or 3) of a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			progress, err := opts.readProgress(cmd)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), int(s.scheduler.Stage(progress)))
			return err
		},
	}
	addProgressFlag(cmd, opts)
	return cmd
}

func newPreviewCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the interval each grade would produce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			progress, err := opts.readProgress(cmd)
			if err != nil {
				return err
			}
			for _, o := range s.scheduler.PreviewAll(progress, s.now) {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-5s  %s\n", o.Grade, o.Label); err != nil {
					return err
				}
			}
			return nil
		},
	}
	addProgressFlag(cmd, opts)
	return cmd
}

func newGradeCmd(opts *options) *cobra.Command {
	var latencyMs int64

	cmd := &cobra.Command{
		Use:       "grade <again|hard|good|easy>",
		Short:     "Apply a grade and print the updated record",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"again", "hard", "good", "easy"},
		RunE: func(cmd *cobra.Command, args []string) error {
			grade, err := domain.ParseGrade(args[0])
			if err != nil {
				return err
			}
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			progress, err := opts.readProgress(cmd)
			if err != nil {
				return err
			}

			var latency *int64
			if cmd.Flags().Changed("latency") {
				latency = &latencyMs
			}

			next, err := s.scheduler.ApplyGrade(progress, grade, latency, s.now)
			if err != nil {
				return err
			}

			s.logger.Debug("grade applied",
				"grade", grade,
				"due_at", next.DueAt,
				"penalty_level", next.PenaltyLevel)
			return writeJSON(cmd.OutOrStdout(), next)
		},
	}
	addProgressFlag(cmd, opts)
	cmd.Flags().Int64Var(&latencyMs, "latency", 0, "response latency in milliseconds")
	return cmd
}

func newPostponeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "postpone <days>",
		Short: "Push a record's due date forward by whole days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid days %q: %w", args[0], err)
			}
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			progress, err := opts.readProgress(cmd)
			if err != nil {
				return err
			}

			next, err := s.scheduler.PostponeReview(progress, days, s.now)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), next)
		},
	}
	addProgressFlag(cmd, opts)
	return cmd
}

func newParamsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Print the effective scheduler parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			params := s.scheduler.Params()
			return writeJSON(cmd.OutOrStdout(), struct {
				Params   interface{} `json:"params"`
				Timezone string      `json:"timezone"`
			}{params, params.Location.String()})
		},
	}
}
