package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"language-learner/internal/app/model"
)

// Exists reports whether path exists and is a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// AllExist reports whether every path exists.
func AllExist(paths ...string) bool {
	for _, p := range paths {
		if !Exists(p) {
			return false
		}
	}
	return true
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// ListFiles returns the files in dir with the given extension, ordered by name.
func ListFiles(dir, ext string) ([]model.FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var fileInfos []model.FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		fileInfos = append(fileInfos, model.FileInfo{
			FullPath: filepath.Join(dir, entry.Name()),
			ModTime:  info.ModTime(),
			Name:     entry.Name(),
		})
	}

	sort.Slice(fileInfos, func(i, j int) bool {
		return fileInfos[i].Name < fileInfos[j].Name
	})
	return fileInfos, nil
}

// ReplaceExt swaps the extension of path.
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// WriteFileAtomic writes data to a temporary sibling of path and renames it into
// place, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return WriteAtomic(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteAtomic streams into a temporary sibling of path and renames it into place
// once write succeeds. The temporary file is removed on any failure.
func WriteAtomic(path string, perm os.FileMode, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.part")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	tmpName = ""
	return nil
}

// TempPath returns a temporary sibling path for a tool that insists on writing
// to a file name itself. The caller renames it with CommitTemp.
func TempPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".part" + ext
}

// CommitTemp renames tmp onto path.
func CommitTemp(tmp, path string) error {
	if !Exists(tmp) {
		return fmt.Errorf("expected output %s was not produced", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
