package progress

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"language-learner/cmd/learner/cmd/shared"
	"language-learner/internal/app/progress"
)

// Cmd groups commands that inspect the resume file.
var Cmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect or reset recorded progress",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "List completed tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker, err := open(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "file:         %s\n", tracker.Path())
		fmt.Fprintf(out, "started:      %s\n", stamp(tracker.Started()))
		fmt.Fprintf(out, "last updated: %s\n", stamp(tracker.LastUpdated()))
		completed := tracker.Completed()
		fmt.Fprintf(out, "completed:    %d\n", len(completed))
		for _, id := range completed {
			fmt.Fprintf(out, "  %s\n", id)
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget every completed task",
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker, err := open(cmd)
		if err != nil {
			return err
		}
		if err := tracker.Reset(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "progress reset: %s\n", tracker.Path())
		return nil
	},
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(resetCmd)
}

func open(cmd *cobra.Command) (*progress.Tracker, error) {
	logger, err := shared.Logger(cmd)
	if err != nil {
		return nil, err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := shared.LoadConfig(cmd, logger)
	if err != nil {
		return nil, err
	}
	return progress.Open(cfg.ProgressPath())
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.RFC3339)
}
