// Package transcript renders and persists lesson transcripts.
package transcript

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/app/model"
	"language-learner/internal/app/util/files"
)

const ruleWidth = 60

// FormatTimestamp renders seconds as HH:MM:SS. Fractions are truncated and
// negative values clamp to zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// Paths returns the txt and json locations of a lesson's transcript.
func Paths(dir, lessonFilename string) (txt, jsonPath string) {
	stem := strings.TrimSuffix(lessonFilename, filepath.Ext(lessonFilename))
	return filepath.Join(dir, stem+".txt"), filepath.Join(dir, stem+".json")
}

// Render writes the human readable layout of t to w.
func Render(w io.Writer, title string, t *model.Transcript) error {
	rule := strings.Repeat("=", ruleWidth)
	var b strings.Builder

	fmt.Fprintf(&b, "TRANSCRIPT: %s\n", title)
	if t.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", t.Language)
	}
	fmt.Fprintf(&b, "%s\n\n", rule)

	b.WriteString("FULL TRANSCRIPT:\n")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", ruleWidth))
	fmt.Fprintf(&b, "%s\n\n", t.Text)

	b.WriteString("TIMESTAMPED TRANSCRIPT:\n")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", ruleWidth))
	for _, seg := range t.Segments {
		fmt.Fprintf(&b, "[%s] %s\n", FormatTimestamp(seg.Start), strings.TrimSpace(seg.Text))
	}

	fmt.Fprintf(&b, "\n%s\n", rule)
	fmt.Fprintf(&b, "Duration: %s\n", FormatTimestamp(t.Duration))
	fmt.Fprintf(&b, "Segments: %d\n", len(t.Segments))

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteText writes the rendered transcript to path.
func WriteText(path, title string, t *model.Transcript) error {
	err := files.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Render(w, title, t)
	})
	if err != nil {
		return apperrors.Wrapf(err, apperrors.KindIO, "write transcript %s", path)
	}
	return nil
}

// WriteJSON writes the structured transcript to path.
func WriteJSON(path string, t *model.Transcript) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindIO, "encode transcript")
	}
	if err := files.WriteFileAtomic(path, data, 0o644); err != nil {
		return apperrors.Wrapf(err, apperrors.KindIO, "write transcript %s", path)
	}
	return nil
}

// ReadJSON loads a transcript written by WriteJSON.
func ReadJSON(path string) (*model.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("transcript", path)
		}
		return nil, apperrors.Wrapf(err, apperrors.KindIO, "read transcript %s", path)
	}
	var t model.Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.KindIO, "decode transcript %s", path)
	}
	return &t, nil
}
