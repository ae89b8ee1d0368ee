//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"language-learner/internal/app/converter"
	"language-learner/internal/app/notes"
	"language-learner/internal/app/pipeline"
	"language-learner/internal/config"
	"language-learner/internal/downloader"
)

// InitializePipeline assembles the course pipeline. The cleanup closes the
// catalog.
func InitializePipeline(ctx context.Context, cfg *config.Config, logger *zap.Logger, runID RunID,
	bars *converter.ProgressManager) (*pipeline.Pipeline, func(), error) {
	wire.Build(
		provideTracker,
		provideTranscriber,
		provideExtractor,
		provideCatalog,
		provideConverter,
		provideDownloader,
		providePDFConverter,
		notes.NewGenerator,
		providePipeline,
		wire.Bind(new(pipeline.Downloader), new(*downloader.Downloader)),
		wire.Bind(new(pipeline.LessonConverter), new(*converter.Converter)),
		wire.Bind(new(pipeline.NotesGenerator), new(*notes.Generator)),
	)
	return nil, nil, nil
}
