package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"language-learner/internal/app/model"
)

// SampleSegments returns a short Spanish lesson transcript.
func SampleSegments() []model.Segment {
	return []model.Segment{
		{Start: 0, End: 4.2, Text: "Hola, bienvenidos a la primera lección."},
		{Start: 4.2, End: 9.8, Text: "Hoy vamos a aprender el vocabulario de los saludos."},
		{Start: 9.8, End: 15.1, Text: "Buenos días significa good morning."},
		{Start: 15.1, End: 22.6, Text: "La gramática de hoy: el verbo ser en presente."},
		{Start: 22.6, End: 65.0, Text: "Repetimos juntos: yo soy, tú eres, él es."},
	}
}

// SampleTranscript returns a normalized transcript built from SampleSegments.
func SampleTranscript() *model.Transcript {
	t := &model.Transcript{Language: "es", Segments: SampleSegments()}
	t.Normalize()
	return t
}

// LocalCourseYAML is a minimal configuration with a single local lesson. Fill
// the lesson path and output directory with fmt.Sprintf.
const LocalCourseYAML = `course:
  name: Spanish for Travellers
  language: Spanish
  level: A1
language:
  code: es
sources:
  - type: local
    lessons:
      - filename: lesson01.mp4
        path: %s
        title: Greetings
transcription:
  provider: whisper_cpp
processing:
  keep_video: true
output:
  directory: %s
  generate_pdf: false
`

// WriteFile creates path with content, creating parent directories.
func WriteFile(t testing.TB, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
