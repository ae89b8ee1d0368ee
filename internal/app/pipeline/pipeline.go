// Package pipeline drives the download, transcribe and notes stages for every
// configured lesson.
package pipeline

import (
	"context"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"language-learner/internal/app/converter"
	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/app/model"
	"language-learner/internal/app/notes"
	"language-learner/internal/app/progress"
	"language-learner/internal/app/util/files"
	"language-learner/internal/config"
	"language-learner/internal/downloader"
)

// Downloader fetches one lesson into dest.
type Downloader interface {
	Download(ctx context.Context, kind config.SourceKind, src config.Source, lesson config.Lesson, dest string) (downloader.Result, error)
}

// LessonConverter transcribes one downloaded lesson.
type LessonConverter interface {
	Convert(ctx context.Context, ref config.LessonRef) (*model.Transcript, error)
}

// NotesGenerator renders the course notes.
type NotesGenerator interface {
	Generate(ctx context.Context, lessons []config.LessonRef) (*notes.Result, error)
}

// Pipeline runs the stages of one course.
type Pipeline struct {
	cfg        *config.Config
	tracker    *progress.Tracker
	downloader Downloader
	converter  LessonConverter
	notes      NotesGenerator
	metrics    *Metrics
	bars       *converter.ProgressManager
	runID      string
	workers    int
	logger     *zap.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithWorkers overrides processing.max_workers. Values below one are ignored.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithProgressBars renders per-stage bars through pm.
func WithProgressBars(pm *converter.ProgressManager) Option {
	return func(p *Pipeline) { p.bars = pm }
}

// WithMetrics records stage outcomes into m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithRunID tags the report with the run identifier.
func WithRunID(id string) Option {
	return func(p *Pipeline) { p.runID = id }
}

func New(cfg *config.Config, tracker *progress.Tracker, dl Downloader, conv LessonConverter,
	gen NotesGenerator, logger *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:        cfg,
		tracker:    tracker,
		downloader: dl,
		converter:  conv,
		notes:      gen,
		workers:    cfg.Processing.MaxWorkers,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = NewMetrics()
	}
	return p
}

// Run executes stage for every enabled lesson. Lesson failures do not stop the
// run; they are logged, collected in the report and returned combined.
func (p *Pipeline) Run(ctx context.Context, stage Stage) (*Report, error) {
	report := &Report{RunID: p.runID, Stage: stage}

	if err := p.cfg.CreateOutputDirs(); err != nil {
		return report, err
	}

	lessons := p.cfg.Lessons()
	p.logger.Info("starting run",
		zap.String("stage", stage.String()),
		zap.String("course", p.cfg.Course.Name),
		zap.Int("lessons", len(lessons)),
		zap.Bool("parallel", p.parallel()))

	if stage.Includes(StageDownload) || stage.Includes(StageTranscribe) {
		if err := p.runLessons(ctx, stage, lessons, report); err != nil {
			return report, err
		}
	}

	if stage.Includes(StageNotes) && ctx.Err() == nil {
		p.runNotes(ctx, lessons, report)
	}

	report.sortLists()
	p.writeMetrics()

	if err := ctx.Err(); err != nil {
		return report, err
	}

	p.logger.Info("run finished",
		zap.Int("downloaded", len(report.Downloaded)),
		zap.Int("transcribed", len(report.Transcribed)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Strings("failed", report.FailedLessons()))
	return report, report.Err()
}

func (p *Pipeline) parallel() bool {
	return p.cfg.Processing.Parallel && p.workers > 1
}

func (p *Pipeline) runLessons(ctx context.Context, stage Stage, lessons []config.LessonRef, report *Report) error {
	bar := p.bars.CreateBar(len(lessons), "Lessons")
	defer func() {
		bar.Complete()
		p.bars.Wait()
	}()

	if !p.parallel() {
		for _, ref := range lessons {
			if err := ctx.Err(); err != nil {
				return err
			}
			p.processLesson(ctx, stage, ref, report)
			bar.Advance(ref.Lesson.Filename)
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(p.workers)
	for _, ref := range lessons {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.processLesson(ctx, stage, ref, report)
			bar.Advance(ref.Lesson.Filename)
			return nil
		})
	}
	return g.Wait()
}

// processLesson moves one lesson through pending, downloaded and transcribed.
func (p *Pipeline) processLesson(ctx context.Context, stage Stage, ref config.LessonRef, report *Report) {
	log := p.logger.With(zap.String("lesson", ref.Lesson.Filename), zap.String("source", string(ref.Kind)))

	if stage.Includes(StageDownload) {
		if err := p.download(ctx, ref, report, log); err != nil {
			return
		}
	}
	if stage.Includes(StageTranscribe) {
		_ = p.transcribe(ctx, ref, report, log)
	}
}

func (p *Pipeline) download(ctx context.Context, ref config.LessonRef, report *Report, log *zap.Logger) error {
	paths := converter.PathsFor(p.cfg, ref.Lesson)
	id := progress.DownloadTask(ref.Lesson.Filename)

	// A removed video still counts as downloaded once its transcript exists.
	present := files.Exists(paths.Video) || files.AllExist(paths.Outputs()...)
	if p.skip(id, present, log) {
		report.skipped(StageDownload, ref.Lesson.Filename)
		p.metrics.Observe(StageDownload, OutcomeSkipped, 0)
		return nil
	}

	start := time.Now()
	res, err := p.downloader.Download(ctx, ref.Kind, ref.Source, ref.Lesson, paths.Video)
	if err != nil {
		return p.failed(StageDownload, ref, err, start, report, log)
	}
	if err := p.tracker.MarkDone(id); err != nil {
		return p.failed(StageDownload, ref, err, start, report, log)
	}

	p.metrics.Observe(StageDownload, OutcomeSuccess, time.Since(start))
	if res.Skipped {
		log.Info("destination already exists, download skipped", zap.String("path", res.Path))
	} else {
		log.Info("downloaded", zap.String("path", res.Path), zap.Duration("took", time.Since(start)))
	}
	report.downloaded(ref.Lesson.Filename)
	return nil
}

func (p *Pipeline) transcribe(ctx context.Context, ref config.LessonRef, report *Report, log *zap.Logger) error {
	paths := converter.PathsFor(p.cfg, ref.Lesson)
	id := progress.TranscribeTask(ref.Lesson.Filename)

	if p.skip(id, files.AllExist(paths.Outputs()...), log) {
		report.skipped(StageTranscribe, ref.Lesson.Filename)
		p.metrics.Observe(StageTranscribe, OutcomeSkipped, 0)
		return nil
	}

	start := time.Now()
	if _, err := p.converter.Convert(ctx, ref); err != nil {
		return p.failed(StageTranscribe, ref, err, start, report, log)
	}
	if !files.AllExist(paths.Outputs()...) {
		err := apperrors.Newf(apperrors.KindTranscription, "transcript outputs for %s are missing", ref.Lesson.Filename)
		return p.failed(StageTranscribe, ref, err, start, report, log)
	}
	if err := p.tracker.MarkDone(id); err != nil {
		return p.failed(StageTranscribe, ref, err, start, report, log)
	}

	p.metrics.Observe(StageTranscribe, OutcomeSuccess, time.Since(start))
	report.transcribed(ref.Lesson.Filename)
	return nil
}

// runNotes renders the course notes once. A lesson transcribed in this run
// re-arms the notes task so the document picks it up.
func (p *Pipeline) runNotes(ctx context.Context, lessons []config.LessonRef, report *Report) {
	id := progress.NotesTask(p.cfg.NotesFilename())
	log := p.logger.With(zap.String("notes", p.cfg.NotesFilename()))

	if len(report.Transcribed) > 0 && p.tracker.IsDone(id) {
		log.Info("new transcripts available, regenerating notes", zap.Int("transcribed", len(report.Transcribed)))
		if err := p.tracker.Forget(id); err != nil {
			log.Warn("failed to re-arm notes task", zap.Error(err))
		}
	}

	if p.skip(id, files.Exists(p.cfg.NotesPath()), log) {
		report.skipped(StageNotes, p.cfg.NotesFilename())
		p.metrics.Observe(StageNotes, OutcomeSkipped, 0)
		return
	}

	transcribed := lo.Filter(lessons, func(ref config.LessonRef, _ int) bool {
		return files.Exists(converter.PathsFor(p.cfg, ref.Lesson).JSON)
	})
	if len(transcribed) == 0 && len(lessons) > 0 {
		log.Warn("no transcripts found, notes will only contain the course skeleton")
	}

	start := time.Now()
	res, err := p.notes.Generate(ctx, lessons)
	if err != nil {
		report.fail(StageNotes, p.cfg.NotesFilename(), err)
		p.metrics.Observe(StageNotes, OutcomeFailed, time.Since(start))
		log.Error("notes generation failed", zap.String("stage", StageNotes.String()), zap.Error(err))
		return
	}
	report.Notes = res

	if err := p.tracker.MarkDone(id); err != nil {
		report.fail(StageNotes, p.cfg.NotesFilename(), err)
		p.metrics.Observe(StageNotes, OutcomeFailed, time.Since(start))
		return
	}
	p.metrics.Observe(StageNotes, OutcomeSuccess, time.Since(start))
}

// skip reports whether task id can be skipped. A completed task whose output
// is gone is trusted unless processing.verify_outputs is set, in which case
// it is forgotten and run again.
func (p *Pipeline) skip(id string, outputPresent bool, log *zap.Logger) bool {
	if !p.tracker.IsDone(id) {
		return false
	}
	if outputPresent {
		log.Info("already completed, skipping", zap.String("task", id))
		return true
	}
	if !p.cfg.Processing.VerifyOutputs {
		log.Warn("marked complete but output is missing, trusting progress log", zap.String("task", id))
		return true
	}
	log.Warn("marked complete but output is missing, running again", zap.String("task", id))
	if err := p.tracker.Forget(id); err != nil {
		log.Warn("failed to forget task", zap.String("task", id), zap.Error(err))
	}
	return false
}

func (p *Pipeline) failed(stage Stage, ref config.LessonRef, err error, start time.Time, report *Report, log *zap.Logger) error {
	report.fail(stage, ref.Lesson.Filename, err)
	p.metrics.Observe(stage, OutcomeFailed, time.Since(start))
	log.Error("stage failed, skipping lesson",
		zap.String("stage", stage.String()),
		zap.String("kind", apperrors.KindOf(err).String()),
		zap.Error(err))
	return err
}

func (p *Pipeline) writeMetrics() {
	path := p.cfg.MetricsPath()
	if path == "" {
		return
	}
	if err := p.metrics.WriteTextfile(path); err != nil {
		p.logger.Warn("failed to write metrics", zap.Error(err))
	}
}
