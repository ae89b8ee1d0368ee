package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"language-learner/internal/app/api"
	"language-learner/internal/app/api/provider"
	"language-learner/internal/app/audio"
	"language-learner/internal/app/converter"
	"language-learner/internal/app/model"
	"language-learner/internal/app/notes"
	"language-learner/internal/app/pipeline"
	"language-learner/internal/app/progress"
	"language-learner/internal/app/repository"
	"language-learner/internal/app/repository/sqlite"
	"language-learner/internal/config"
	"language-learner/internal/downloader"
)

// RunID identifies one invocation of the pipeline.
type RunID string

func provideTracker(cfg *config.Config) (*progress.Tracker, error) {
	return progress.Open(cfg.ProgressPath())
}

// lazyTranscriber builds the configured backend on first use, so runs that
// never transcribe do not need its binary or API key.
type lazyTranscriber struct {
	cfg    config.TranscriptionConfig
	logger *zap.Logger

	once sync.Once
	t    api.Transcriber
	err  error
}

func (l *lazyTranscriber) Transcribe(ctx context.Context, audioPath, language string) (*model.Transcript, error) {
	l.once.Do(func() {
		l.t, l.err = provider.NewTranscriber(l.cfg, l.logger)
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.t.Transcribe(ctx, audioPath, language)
}

func (l *lazyTranscriber) Name() string {
	return l.cfg.Provider
}

func provideTranscriber(cfg *config.Config, logger *zap.Logger) api.Transcriber {
	return &lazyTranscriber{cfg: cfg.Transcription, logger: logger}
}

func provideExtractor(logger *zap.Logger) audio.Extractor {
	return audio.NewFFmpegExtractor(logger)
}

// provideCatalog opens the SQLite catalog when output.catalog is set. A nil
// DAO disables recording.
func provideCatalog(ctx context.Context, cfg *config.Config) (repository.CatalogDAO, func(), error) {
	path := cfg.CatalogPath()
	if path == "" {
		return nil, func() {}, nil
	}
	db, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}

func provideConverter(cfg *config.Config, extractor audio.Extractor, transcriber api.Transcriber,
	catalog repository.CatalogDAO, runID RunID, logger *zap.Logger) *converter.Converter {
	return converter.NewConverter(cfg, extractor, transcriber, catalog, string(runID), logger)
}

func provideDownloader(logger *zap.Logger) *downloader.Downloader {
	return downloader.New(logger)
}

// providePDFConverter returns nil when PDF output is disabled.
func providePDFConverter(cfg *config.Config, logger *zap.Logger) *notes.PDFConverter {
	if !cfg.Output.GeneratePDF {
		return nil
	}
	return notes.NewPDFConverter(&notes.RodRenderer{}, cfg.Output.PDFMode, cfg.Language.Code, logger)
}

func providePipeline(cfg *config.Config, tracker *progress.Tracker, dl pipeline.Downloader,
	conv pipeline.LessonConverter, gen pipeline.NotesGenerator, bars *converter.ProgressManager,
	runID RunID, logger *zap.Logger) *pipeline.Pipeline {
	return pipeline.New(cfg, tracker, dl, conv, gen, logger,
		pipeline.WithRunID(string(runID)),
		pipeline.WithProgressBars(bars),
		pipeline.WithMetrics(pipeline.NewMetrics()),
	)
}
