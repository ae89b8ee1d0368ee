package downloader

import (
	"context"
	"io"
	"os"
	"path/filepath"

	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/app/util/files"
	"language-learner/internal/config"
)

// LocalFetcher copies a lesson that already exists on disk. Without a path the
// lesson must already be at its destination.
type LocalFetcher struct{}

// Fetch copies lesson.Path to dest.
func (LocalFetcher) Fetch(ctx context.Context, _ config.Source, lesson config.Lesson, dest string) error {
	if lesson.Path == "" {
		return apperrors.Wrapf(apperrors.ErrSourceNotFound, apperrors.KindProvider, "local lesson %s not found at %s", lesson.Filename, dest)
	}
	if !files.Exists(lesson.Path) {
		return apperrors.Wrapf(apperrors.ErrSourceNotFound, apperrors.KindProvider, "local lesson %s not found at %s", lesson.Filename, lesson.Path)
	}
	if same, _ := samePath(lesson.Path, dest); same {
		return nil
	}

	in, err := os.Open(lesson.Path)
	if err != nil {
		return err
	}
	defer in.Close()

	return files.WriteAtomic(dest, 0o644, func(w io.Writer) error {
		_, err := io.Copy(w, readerWithContext(ctx, in))
		return err
	})
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// readerWithContext stops long copies when ctx is cancelled.
func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}

func dirOf(path string) string {
	return filepath.Dir(path)
}
