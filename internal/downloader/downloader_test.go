package downloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/config"
)

func writingFetcher(content string, calls *int) Fetcher {
	return FetcherFunc(func(_ context.Context, _ config.Source, _ config.Lesson, dest string) error {
		*calls++
		return os.WriteFile(dest, []byte(content), 0o644)
	})
}

func TestNew_EveryKindHasFetcher(t *testing.T) {
	d := New(zap.NewNop())
	for _, kind := range config.SourceKinds {
		assert.Contains(t, d.fetchers, kind, "no fetcher for %s", kind)
	}
}

func TestDownload_ExistingDestinationIsSkipped(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "lesson01.mp4")
	require.NoError(t, os.WriteFile(dest, []byte("original"), 0o644))

	calls := 0
	d := New(zap.NewNop(), WithFetcher(config.SourceYouTube, writingFetcher("new", &calls)))

	res, err := d.Download(context.Background(), config.SourceYouTube, config.Source{}, config.Lesson{ID: "abc", Filename: "lesson01.mp4"}, dest)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, dest, res.Path)
	assert.Zero(t, calls)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestDownload_Dispatch(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "lesson01.mp4")
	calls := 0
	d := New(zap.NewNop(), WithFetcher(config.SourceURL, writingFetcher("video", &calls)))

	res, err := d.Download(context.Background(), config.SourceURL, config.Source{}, config.Lesson{URL: "https://x/y.mp4", Filename: "lesson01.mp4"}, dest)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 1, calls)
	assert.FileExists(t, dest)
}

func TestDownload_Errors(t *testing.T) {
	dir := t.TempDir()
	d := New(zap.NewNop(),
		WithFetcher(config.SourceYouTube, FetcherFunc(func(context.Context, config.Source, config.Lesson, string) error {
			return errors.New("video unavailable")
		})),
		WithFetcher(config.SourceURL, FetcherFunc(func(context.Context, config.Source, config.Lesson, string) error {
			return nil
		})),
	)

	_, err := d.Download(context.Background(), config.SourceYouTube, config.Source{}, config.Lesson{ID: "x", Filename: "a.mp4"}, filepath.Join(dir, "a.mp4"))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindProvider, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "video unavailable")

	_, err = d.Download(context.Background(), config.SourceURL, config.Source{}, config.Lesson{Filename: "b.mp4"}, filepath.Join(dir, "b.mp4"))
	assert.ErrorContains(t, err, "is missing")

	_, err = d.Download(context.Background(), config.SourceKind("ftp"), config.Source{}, config.Lesson{Filename: "c.mp4"}, filepath.Join(dir, "c.mp4"))
	assert.True(t, apperrors.Is(err, apperrors.ErrUnsupportedSource))
}

func TestDownload_Local(t *testing.T) {
	dir := t.TempDir()
	srcFile := filepath.Join(dir, "media", "recording.mp4")
	require.NoError(t, os.MkdirAll(filepath.Dir(srcFile), 0o755))
	require.NoError(t, os.WriteFile(srcFile, []byte("local video"), 0o644))

	d := New(zap.NewNop())
	dest := filepath.Join(dir, "out", "lesson01.mp4")

	res, err := d.Download(context.Background(), config.SourceLocal, config.Source{}, config.Lesson{Path: srcFile, Filename: "lesson01.mp4"}, dest)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "local video", string(data))

	_, err = d.Download(context.Background(), config.SourceLocal, config.Source{}, config.Lesson{Filename: "lesson02.mp4"}, filepath.Join(dir, "out", "lesson02.mp4"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSourceNotFound))

	_, err = d.Download(context.Background(), config.SourceLocal, config.Source{}, config.Lesson{Path: filepath.Join(dir, "nope.mp4"), Filename: "lesson03.mp4"}, filepath.Join(dir, "out", "lesson03.mp4"))
	assert.True(t, apperrors.Is(err, apperrors.ErrSourceNotFound))
}

func TestFallback(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "a.mp4")
	calls := 0
	failing := FetcherFunc(func(context.Context, config.Source, config.Lesson, string) error {
		calls++
		return errors.New("yt-dlp: not found")
	})

	f := Fallback(zap.NewNop(), failing, writingFetcher("ok", &calls))
	require.NoError(t, f.Fetch(context.Background(), config.Source{}, config.Lesson{}, dest))
	assert.Equal(t, 2, calls)

	f = Fallback(zap.NewNop(), failing, failing)
	err := f.Fetch(context.Background(), config.Source{}, config.Lesson{}, dest)
	assert.ErrorContains(t, err, "all download methods failed: yt-dlp: not found")
}
