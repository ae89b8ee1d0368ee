package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/app/model"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{59.99, "00:00:59"},
		{60, "00:01:00"},
		{3665, "01:01:05"},
		{36000, "10:00:00"},
		{-5, "00:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimestamp(tt.seconds))
		})
	}
}

func TestPaths(t *testing.T) {
	txt, js := Paths("out/transcripts", "lesson01.mp4")
	assert.Equal(t, filepath.Join("out/transcripts", "lesson01.txt"), txt)
	assert.Equal(t, filepath.Join("out/transcripts", "lesson01.json"), js)
}

func sample() *model.Transcript {
	return &model.Transcript{
		Text:     "Dzień dobry. Jak się masz?",
		Language: "pl",
		Duration: 3665,
		Segments: []model.Segment{
			{ID: 0, Start: 0, End: 2.5, Text: " Dzień dobry."},
			{ID: 1, Start: 3661, End: 3665, Text: "Jak się masz?"},
		},
	}
}

func TestWriteText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lesson01.txt")
	require.NoError(t, WriteText(path, "lesson01.mp4", sample()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "TRANSCRIPT: lesson01.mp4\n"))
	assert.Contains(t, out, "FULL TRANSCRIPT:\n")
	assert.Contains(t, out, "Dzień dobry. Jak się masz?")
	assert.Contains(t, out, "[00:00:00] Dzień dobry.\n")
	assert.Contains(t, out, "[01:01:01] Jak się masz?\n")
	assert.Contains(t, out, "Duration: 01:01:05\n")
	assert.Contains(t, out, "Segments: 2\n")
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lesson01.json")
	want := sample()
	require.NoError(t, WriteJSON(path, want))

	got, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadJSON_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadJSON(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrFileNotFound))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("[]x"), 0o644))
	_, err = ReadJSON(bad)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindIO, apperrors.KindOf(err))
}
