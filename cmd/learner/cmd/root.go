package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"language-learner/cmd/learner/cmd/export"
	"language-learner/cmd/learner/cmd/pdf"
	"language-learner/cmd/learner/cmd/progress"
	"language-learner/cmd/learner/cmd/shared"
	"language-learner/cmd/learner/cmd/version"
	"language-learner/internal/app"
	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/app/converter"
	"language-learner/internal/app/logging"
	"language-learner/internal/app/pipeline"
	"language-learner/internal/config"
)

var (
	Verbose        bool
	configPath     string
	downloadOnly   bool
	transcribeOnly bool
	notesOnly      bool
	workers        int
	showProgress   bool
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learner",
		Short: "Download course lessons, transcribe them and build study notes",
		Long: `Download course lessons, transcribe them and build study notes.

- Lessons come from YouTube, Google Drive, direct URLs, local files, SFTP or S3
- Audio is transcribed with whisper.cpp, OpenAI or Gemini
- Transcripts are compiled into one Markdown (and optionally PDF) study guide
- Completed steps are recorded so interrupted runs resume where they stopped`,
		SilenceUsage: true,
		RunE:         runPipeline,
	}

	cmd.AddCommand(pdf.Cmd)
	cmd.AddCommand(export.Cmd)
	cmd.AddCommand(progress.Cmd)
	cmd.AddCommand(version.Cmd)

	cmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "course config file")

	cmd.Flags().BoolVar(&downloadOnly, "download-only", false, "only download lessons")
	cmd.Flags().BoolVar(&transcribeOnly, "transcribe-only", false, "only transcribe downloaded lessons")
	cmd.Flags().BoolVar(&notesOnly, "notes-only", false, "only generate notes from existing transcripts")
	cmd.MarkFlagsMutuallyExclusive("download-only", "transcribe-only", "notes-only")

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "process lessons in parallel with this many workers")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "show progress bars even when output is not a terminal")
	return cmd
}

// Execute runs the root command and exits with exitCode on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for configuration errors, which abort before any stage runs,
// and 1 for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case apperrors.IsConfig(err):
		return 2
	default:
		return 1
	}
}

func selectedStage(download, transcribe, notes bool) pipeline.Stage {
	switch {
	case download:
		return pipeline.StageDownload
	case transcribe:
		return pipeline.StageTranscribe
	case notes:
		return pipeline.StageNotes
	default:
		return pipeline.StageAll
	}
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	logger, err := shared.Logger(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := shared.LoadConfig(cmd, logger)
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}
	if cmd.Flags().Changed("workers") {
		if err := config.ValidateConcurrency(workers, "--workers"); err != nil {
			return err
		}
		cfg.Processing.MaxWorkers = workers
		cfg.Processing.Parallel = workers > 1
	}

	runID := logging.NewRunID()
	logger = logging.WithRun(logger, runID)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bars := converter.NewProgressManager(converter.ProgressConfig{
		Enabled: !Verbose && converter.ShouldShowProgress(showProgress),
		Writer:  os.Stderr,
	})
	defer bars.Shutdown()

	p, cleanup, err := app.InitializePipeline(ctx, cfg, logger, app.RunID(runID), bars)
	if err != nil {
		return err
	}
	defer cleanup()

	stage := selectedStage(downloadOnly, transcribeOnly, notesOnly)
	report, err := p.Run(ctx, stage)
	if report != nil {
		printSummary(cmd, report)
	}
	if err != nil && report != nil {
		if failed := report.FailedLessons(); len(failed) > 0 && ctx.Err() == nil {
			return fmt.Errorf("%d lesson(s) failed: %w", len(failed), err)
		}
	}
	return err
}

func printSummary(cmd *cobra.Command, r *pipeline.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s (%s)\n", r.RunID, r.Stage)
	fmt.Fprintf(out, "  downloaded:  %d\n", len(r.Downloaded))
	fmt.Fprintf(out, "  transcribed: %d\n", len(r.Transcribed))
	fmt.Fprintf(out, "  skipped:     %d\n", len(r.Skipped))
	for _, f := range r.Failures {
		fmt.Fprintf(out, "  failed:      %s\n", f.Error())
	}
	if r.Notes != nil {
		fmt.Fprintf(out, "  notes:       %s (%d/%d lessons transcribed)\n", r.Notes.Markdown, r.Notes.Transcribed, r.Notes.Lessons)
		if r.Notes.PDF != "" {
			fmt.Fprintf(out, "  pdf:         %s\n", r.Notes.PDF)
		}
		if r.Notes.PDFError != nil {
			fmt.Fprintf(out, "  pdf failed:  %v\n", r.Notes.PDFError)
		}
	}
}
