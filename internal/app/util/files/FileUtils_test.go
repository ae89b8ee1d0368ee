package files

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.True(t, Exists(file))
	assert.False(t, Exists(dir), "directories are not files")
	assert.False(t, Exists(filepath.Join(dir, "missing")))
	assert.True(t, AllExist(file))
	assert.False(t, AllExist(file, filepath.Join(dir, "missing")))
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.md", "a.MD", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0o755))

	got, err := ListFiles(dir, ".md")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.MD", got[0].Name)
	assert.Equal(t, filepath.Join(dir, "b.md"), got[1].FullPath)

	_, err = ListFiles(filepath.Join(dir, "nope"), ".md")
	assert.Error(t, err)
}

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		path, ext, want string
	}{
		{"out/lesson01.mp4", ".mp3", "out/lesson01.mp3"},
		{"notes.md", ".pdf", "notes.pdf"},
		{"noext", ".txt", "noext.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplaceExt(tt.path, tt.ext))
		})
	}
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "progress.json")

	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteAtomic_FailureKeepsOriginal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video.mp4")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	err := WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("connection reset")
	})
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCommitTemp(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "lesson.mp4")
	tmp := TempPath(dest)
	assert.Equal(t, filepath.Join(dir, "lesson.part.mp4"), tmp)

	assert.Error(t, CommitTemp(tmp, dest))

	require.NoError(t, os.WriteFile(tmp, []byte("video"), 0o644))
	require.NoError(t, CommitTemp(tmp, dest))
	assert.True(t, Exists(dest))
	assert.False(t, Exists(tmp))
}
