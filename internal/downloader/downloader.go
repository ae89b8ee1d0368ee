// Package downloader fetches lesson videos from the configured providers.
package downloader

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/app/util/files"
	"language-learner/internal/config"
)

// Fetcher retrieves one lesson into dest. Implementations write through a
// temporary file so dest only appears once the transfer succeeded.
type Fetcher interface {
	Fetch(ctx context.Context, src config.Source, lesson config.Lesson, dest string) error
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, src config.Source, lesson config.Lesson, dest string) error

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, src config.Source, lesson config.Lesson, dest string) error {
	return f(ctx, src, lesson, dest)
}

// Result describes the outcome of a download.
type Result struct {
	Path    string
	Skipped bool
}

// Downloader dispatches lessons to the fetcher registered for their kind.
type Downloader struct {
	fetchers map[config.SourceKind]Fetcher
	logger   *zap.Logger
}

// Option customizes a Downloader.
type Option func(*Downloader)

// WithFetcher replaces the fetcher used for kind.
func WithFetcher(kind config.SourceKind, f Fetcher) Option {
	return func(d *Downloader) { d.fetchers[kind] = f }
}

// New returns a Downloader with a fetcher for every source kind.
func New(logger *zap.Logger, opts ...Option) *Downloader {
	ytdlp := NewYTDLPFetcher(logger)
	web := NewHTTPFetcher(nil, logger)

	d := &Downloader{
		fetchers: map[config.SourceKind]Fetcher{
			config.SourceYouTube:     FetcherFunc(ytdlp.FetchYouTube),
			config.SourceGoogleDrive: Fallback(logger, FetcherFunc(ytdlp.FetchGoogleDrive), FetcherFunc(web.FetchGoogleDrive)),
			config.SourceURL:         Fallback(logger, FetcherFunc(ytdlp.FetchURL), FetcherFunc(web.FetchURL)),
			config.SourceLocal:       LocalFetcher{},
			config.SourceSFTP:        NewSFTPFetcher(logger),
			config.SourceS3:          NewS3Fetcher(logger),
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download fetches lesson into dest. An existing dest is never overwritten and
// is reported as Skipped.
func (d *Downloader) Download(ctx context.Context, kind config.SourceKind, src config.Source, lesson config.Lesson, dest string) (Result, error) {
	logger := d.logger.With(zap.String("lesson", lesson.Filename), zap.String("source", string(kind)))

	if files.Exists(dest) {
		logger.Info("already downloaded, skipping", zap.String("path", dest))
		return Result{Path: dest, Skipped: true}, nil
	}

	fetcher, ok := d.fetchers[kind]
	if !ok {
		return Result{}, apperrors.Wrapf(apperrors.ErrUnsupportedSource, apperrors.KindProvider, "source type %q", kind)
	}

	start := time.Now()
	logger.Info("downloading")
	if err := fetcher.Fetch(ctx, src, lesson, dest); err != nil {
		if apperrors.KindOf(err) == apperrors.KindUnknown {
			err = apperrors.Wrapf(err, apperrors.KindProvider, "download %s from %s", lesson.Filename, kind)
		}
		return Result{}, err
	}
	if !files.Exists(dest) {
		return Result{}, apperrors.Newf(apperrors.KindProvider, "download %s from %s: fetcher reported success but %s is missing", lesson.Filename, kind, dest)
	}

	logger.Info("downloaded", zap.String("path", dest), zap.Duration("elapsed", time.Since(start)))
	return Result{Path: dest}, nil
}

// Fallback tries each fetcher in order until one succeeds.
func Fallback(logger *zap.Logger, fetchers ...Fetcher) Fetcher {
	return FetcherFunc(func(ctx context.Context, src config.Source, lesson config.Lesson, dest string) error {
		var lastErr error
		for i, f := range fetchers {
			if err := f.Fetch(ctx, src, lesson, dest); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				lastErr = err
				if i < len(fetchers)-1 {
					logger.Warn("download method failed, trying fallback",
						zap.String("lesson", lesson.Filename), zap.Error(err))
				}
				continue
			}
			return nil
		}
		return fmt.Errorf("all download methods failed: %w", lastErr)
	})
}
