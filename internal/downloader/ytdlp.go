package downloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"language-learner/internal/app/util/files"
	"language-learner/internal/config"
)

// Runner downloads url into output with yt-dlp, merging streams into container.
type Runner func(ctx context.Context, url, output, container string) error

// formatSelectors maps the merge containers yt-dlp can write to a stream
// selection that does not need re-encoding.
var formatSelectors = map[string]string{
	"mp4":  "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
	"webm": "bestvideo[ext=webm]+bestaudio[ext=webm]/best[ext=webm]/best",
	"mkv":  "bestvideo+bestaudio/best",
}

// mergeContainer returns the yt-dlp merge format for dest's extension.
func mergeContainer(dest string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(dest), "."))
	if _, ok := formatSelectors[ext]; !ok {
		return "", fmt.Errorf("yt-dlp cannot write %q: filename must end in .mp4, .mkv or .webm", filepath.Base(dest))
	}
	return ext, nil
}

// YTDLPFetcher downloads through the yt-dlp command line tool.
type YTDLPFetcher struct {
	run    Runner
	logger *zap.Logger
}

// NewYTDLPFetcher returns a fetcher that shells out to yt-dlp.
func NewYTDLPFetcher(logger *zap.Logger) *YTDLPFetcher {
	return &YTDLPFetcher{run: runYTDLP, logger: logger}
}

func runYTDLP(ctx context.Context, url, output, container string) error {
	_, err := ytdlp.New().
		NoPlaylist().
		NoProgress().
		Format(formatSelectors[container]).
		MergeOutputFormat(container).
		Output(output).
		Run(ctx, url)
	return err
}

// YouTubeURL is the watch page of a video id.
func YouTubeURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// GoogleDriveURL is the viewer page of a file id.
func GoogleDriveURL(id string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", id)
}

// FetchYouTube downloads the video addressed by lesson.ID.
func (f *YTDLPFetcher) FetchYouTube(ctx context.Context, _ config.Source, lesson config.Lesson, dest string) error {
	return f.fetch(ctx, YouTubeURL(lesson.ID), dest)
}

// FetchGoogleDrive downloads the Drive file addressed by lesson.ID.
func (f *YTDLPFetcher) FetchGoogleDrive(ctx context.Context, _ config.Source, lesson config.Lesson, dest string) error {
	return f.fetch(ctx, GoogleDriveURL(lesson.ID), dest)
}

// FetchURL downloads lesson.URL.
func (f *YTDLPFetcher) FetchURL(ctx context.Context, _ config.Source, lesson config.Lesson, dest string) error {
	return f.fetch(ctx, lesson.URL, dest)
}

func (f *YTDLPFetcher) fetch(ctx context.Context, url, dest string) error {
	container, err := mergeContainer(dest)
	if err != nil {
		return err
	}
	if err := files.EnsureDir(dirOf(dest)); err != nil {
		return err
	}
	tmp := files.TempPath(dest)
	f.logger.Debug("running yt-dlp", zap.String("url", url), zap.String("output", tmp), zap.String("container", container))

	if err := f.run(ctx, url, tmp, container); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("yt-dlp %s: %w", url, err)
	}
	return files.CommitTemp(tmp, dest)
}
