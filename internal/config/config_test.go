package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "language-learner/internal/app/errors"
)

const validConfig = `
course:
  name: Polish for Beginners
  language: Polish
  level: A1
  institution: Language School
language:
  code: pl
sources:
  - type: youtube
    lessons:
      - id: dQw4w9WgXcQ
        filename: lesson01.mp4
        title: Greetings
  - type: google_drive
    enabled: false
    lessons:
      - id: 1AbCdEf
        filename: lesson02.mp4
  - type: local
    lessons:
      - path: /media/lesson03.mp4
        filename: lesson03.mp4
      - filename: lesson04.mp4
  - type: url
    lessons:
      - url: https://example.com/lesson05.mp4
        filename: lesson05.mp4
processing:
  keep_video: false
output:
  directory: out
  generate_pdf: true
  pdf_mode: tablet
`

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	require.NoError(t, err)

	assert.Equal(t, "Polish for Beginners", cfg.Course.Name)
	assert.Equal(t, "pl", cfg.Language.Code)
	assert.Equal(t, DefaultNativeLanguage, cfg.Language.NativeLanguage)
	assert.Equal(t, "pl", cfg.Transcription.Language)
	assert.Equal(t, DefaultTranscriptionProvider, cfg.Transcription.Provider)
	assert.Equal(t, DefaultMaxWorkers, cfg.Processing.MaxWorkers)
	assert.True(t, cfg.Processing.ShouldExtractAudio())
	assert.False(t, cfg.Processing.ShouldKeepVideo())
	assert.True(t, cfg.Notes.ShouldIncludeAlphabet())
	assert.Equal(t, "tablet", cfg.Output.PDFMode)

	assert.Equal(t, "out", cfg.OutputDir())
	assert.Equal(t, filepath.Join("out", "transcripts"), cfg.TranscriptsDir())
	assert.Equal(t, filepath.Join("out", "audio"), cfg.AudioDir())
	assert.Equal(t, filepath.Join("out", "progress.json"), cfg.ProgressPath())
	assert.Equal(t, "Comprehensive_Notes_Polish_A1.md", cfg.NotesFilename())
}

func TestConfig_Lessons(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	require.NoError(t, err)

	lessons := cfg.Lessons()
	require.Len(t, lessons, 4, "disabled google_drive group is skipped")

	names := make([]string, len(lessons))
	for i, l := range lessons {
		names[i] = l.Lesson.Filename
		assert.Equal(t, i+1, l.Number)
	}
	assert.Equal(t, []string{"lesson01.mp4", "lesson03.mp4", "lesson04.mp4", "lesson05.mp4"}, names)
	assert.Equal(t, SourceYouTube, lessons[0].Kind)
	assert.Equal(t, SourceURL, lessons[3].Kind)
	assert.Len(t, cfg.EnabledSources(), 3)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		contains string
	}{
		{
			name:     "missing course name",
			yaml:     "language: {code: pl}\n",
			contains: "course.name is required",
		},
		{
			name:     "missing language code",
			yaml:     "course: {name: X}\n",
			contains: "language.code is required",
		},
		{
			name:     "unknown source kind",
			yaml:     "course: {name: X}\nlanguage: {code: pl}\nsources:\n  - type: dropbox\n    lessons: []\n",
			contains: "unknown source type",
		},
		{
			name:     "youtube lesson without id",
			yaml:     "course: {name: X}\nlanguage: {code: pl}\nsources:\n  - type: youtube\n    lessons:\n      - filename: a.mp4\n",
			contains: "sources[0].lessons[0].id is required",
		},
		{
			name:     "url lesson without scheme",
			yaml:     "course: {name: X}\nlanguage: {code: pl}\nsources:\n  - type: url\n    lessons:\n      - url: example.com/a.mp4\n        filename: a.mp4\n",
			contains: "sources[0].lessons[0].url is invalid",
		},
		{
			name:     "filename with directory",
			yaml:     "course: {name: X}\nlanguage: {code: pl}\nsources:\n  - type: local\n    lessons:\n      - filename: ../a.mp4\n",
			contains: "must be a bare file name",
		},
		{
			name:     "sftp without block",
			yaml:     "course: {name: X}\nlanguage: {code: pl}\nsources:\n  - type: sftp\n    lessons:\n      - filename: a.mp4\n",
			contains: "sources[0].sftp is required",
		},
		{
			name:     "s3 without block",
			yaml:     "course: {name: X}\nlanguage: {code: pl}\nsources:\n  - type: s3\n    lessons:\n      - filename: a.mp4\n",
			contains: "sources[0].s3 is required",
		},
		{
			name:     "duplicate filenames",
			yaml:     "course: {name: X}\nlanguage: {code: pl}\nsources:\n  - type: local\n    lessons:\n      - filename: a.mp4\n      - filename: a.mp4\n",
			contains: "duplicate lesson filenames: a.mp4",
		},
		{
			name:     "unknown provider",
			yaml:     "course: {name: X}\nlanguage: {code: pl}\ntranscription: {provider: azure}\n",
			contains: "transcription.provider is invalid",
		},
		{
			name:     "too many workers",
			yaml:     "course: {name: X}\nlanguage: {code: pl}\nprocessing: {max_workers: 64}\n",
			contains: "processing.max_workers is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.contains)
			assert.True(t, apperrors.IsConfig(err), "expected config error, got %v", err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConfigNotFound))
	assert.True(t, apperrors.IsConfig(err))
	assert.Contains(t, err.Error(), "config.example.yaml")
}

func TestLoad_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Polish for Beginners", cfg.Course.Name)
}

func TestConfig_MarshalRoundTrip(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	require.NoError(t, err)

	data, err := cfg.Marshal()
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.Course, again.Course)
	assert.Equal(t, cfg.Language, again.Language)
	assert.Equal(t, cfg.Output, again.Output)
	assert.Equal(t, len(cfg.Sources), len(again.Sources))
	assert.Equal(t, cfg.NotesFilename(), again.NotesFilename())
}

func TestConfig_SFTPDefaultPort(t *testing.T) {
	cfg, err := Parse([]byte(`
course: {name: X}
language: {code: ja}
sources:
  - type: sftp
    sftp: {host: files.example.com, user: learner}
    lessons:
      - filename: a.mp4
`))
	require.NoError(t, err)
	assert.Equal(t, DefaultSSHPort, cfg.Sources[0].SFTP.Port)
}

func TestConfig_NotesFilenameTemplate(t *testing.T) {
	cfg := &Config{
		Course: Course{Language: "Brazilian Portuguese", Level: "B1 Intermediate"},
		Output: OutputConfig{Directory: "out", NotesFilename: "Notes {language} {level}.md"},
	}
	assert.Equal(t, "Notes_Brazilian_Portuguese_B1_Intermediate.md", cfg.NotesFilename())
	assert.Equal(t, filepath.Join("out", "Notes_Brazilian_Portuguese_B1_Intermediate.md"), cfg.NotesPath())
}

func TestConfig_CreateOutputDirs(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	cfg := &Config{Output: OutputConfig{Directory: root, TranscriptsDir: "transcripts", AudioDir: "audio"}}

	require.NoError(t, cfg.CreateOutputDirs())
	for _, dir := range []string{root, cfg.TranscriptsDir(), cfg.AudioDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestConfig_OptionalOutputPaths(t *testing.T) {
	cfg := &Config{Output: OutputConfig{Directory: "out"}}
	assert.Empty(t, cfg.CatalogPath())
	assert.Empty(t, cfg.MetricsPath())

	cfg.Output.Catalog = "catalog.db"
	cfg.Output.MetricsFile = "/var/lib/node_exporter/learner.prom"
	assert.Equal(t, filepath.Join("out", "catalog.db"), cfg.CatalogPath())
	assert.Equal(t, "/var/lib/node_exporter/learner.prom", cfg.MetricsPath())
}
