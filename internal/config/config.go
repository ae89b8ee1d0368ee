package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	apperrors "language-learner/internal/app/errors"
)

// Config is the typed course configuration. It is loaded once and treated as
// read-only afterwards.
type Config struct {
	Course        Course              `yaml:"course"`
	Language      Language            `yaml:"language"`
	Sources       []Source            `yaml:"sources" validate:"dive"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Processing    ProcessingConfig    `yaml:"processing"`
	Output        OutputConfig        `yaml:"output"`
	Notes         NotesConfig         `yaml:"notes"`
}

// Course holds the metadata printed in the notes header.
type Course struct {
	Name        string `yaml:"name" validate:"required"`
	Language    string `yaml:"language,omitempty"`
	Level       string `yaml:"level,omitempty"`
	Institution string `yaml:"institution,omitempty"`
}

// Language holds the target and native language codes.
type Language struct {
	Code           string `yaml:"code" validate:"required,min=2,max=8"`
	NativeLanguage string `yaml:"native_language,omitempty"`
}

// Source is one provider group and its ordered lessons.
type Source struct {
	Type    SourceKind  `yaml:"type" validate:"required"`
	Enabled *bool       `yaml:"enabled,omitempty"`
	Lessons []Lesson    `yaml:"lessons" validate:"dive"`
	SFTP    *SFTPConfig `yaml:"sftp,omitempty"`
	S3      *S3Config   `yaml:"s3,omitempty"`
}

// IsEnabled defaults to true when the flag is absent.
func (s Source) IsEnabled() bool {
	return boolOr(s.Enabled, true)
}

// Lesson is a single downloadable item.
type Lesson struct {
	ID       string `yaml:"id,omitempty"`
	URL      string `yaml:"url,omitempty"`
	Path     string `yaml:"path,omitempty"`
	Filename string `yaml:"filename" validate:"required"`
	Date     string `yaml:"date,omitempty"`
	Title    string `yaml:"title,omitempty"`
}

// SFTPConfig locates lessons on an SFTP server.
type SFTPConfig struct {
	Host                  string `yaml:"host" validate:"required"`
	Port                  int    `yaml:"port,omitempty"`
	User                  string `yaml:"user" validate:"required"`
	Password              string `yaml:"password,omitempty"`
	RemoteDir             string `yaml:"remote_dir,omitempty"`
	InsecureIgnoreHostKey bool   `yaml:"insecure_ignore_host_key,omitempty"`
}

// S3Config locates lessons in an S3 compatible bucket.
type S3Config struct {
	Endpoint  string `yaml:"endpoint" validate:"required"`
	Bucket    string `yaml:"bucket" validate:"required"`
	Prefix    string `yaml:"prefix,omitempty"`
	Region    string `yaml:"region,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	UseSSL    bool   `yaml:"use_ssl,omitempty"`
}

// TranscriptionConfig selects and configures the speech-to-text backend.
type TranscriptionConfig struct {
	Provider   string `yaml:"provider,omitempty" validate:"omitempty,oneof=whisper_cpp openai gemini"`
	Model      string `yaml:"model,omitempty"`
	Language   string `yaml:"language,omitempty"`
	Prompt     string `yaml:"prompt,omitempty"`
	BinaryPath string `yaml:"binary_path,omitempty"`
	ModelPath  string `yaml:"model_path,omitempty"`
	APIKey     string `yaml:"api_key,omitempty"`
	BaseURL    string `yaml:"base_url,omitempty"`
	TempDir    string `yaml:"temp_dir,omitempty"`
}

// ProcessingConfig toggles optional pipeline behavior.
type ProcessingConfig struct {
	ExtractAudio  *bool `yaml:"extract_audio,omitempty"`
	KeepVideo     *bool `yaml:"keep_video,omitempty"`
	Parallel      bool  `yaml:"parallel,omitempty"`
	MaxWorkers    int   `yaml:"max_workers,omitempty"`
	VerifyOutputs bool  `yaml:"verify_outputs,omitempty"`
}

// ShouldExtractAudio defaults to true.
func (p ProcessingConfig) ShouldExtractAudio() bool {
	return boolOr(p.ExtractAudio, true)
}

// ShouldKeepVideo defaults to true.
func (p ProcessingConfig) ShouldKeepVideo() bool {
	return boolOr(p.KeepVideo, true)
}

// OutputConfig describes the output layout.
type OutputConfig struct {
	Directory      string `yaml:"directory,omitempty"`
	TranscriptsDir string `yaml:"transcripts_dir,omitempty"`
	AudioDir       string `yaml:"audio_dir,omitempty"`
	NotesFilename  string `yaml:"notes_filename,omitempty"`
	GeneratePDF    bool   `yaml:"generate_pdf,omitempty"`
	PDFMode        string `yaml:"pdf_mode,omitempty" validate:"omitempty,oneof=standard tablet ebook"`
	Catalog        string `yaml:"catalog,omitempty"`
	MetricsFile    string `yaml:"metrics_file,omitempty"`
}

// NotesConfig toggles optional notes sections.
type NotesConfig struct {
	IncludeAlphabet  *bool `yaml:"include_alphabet,omitempty"`
	IncludeResources *bool `yaml:"include_resources,omitempty"`
}

// ShouldIncludeAlphabet defaults to true.
func (n NotesConfig) ShouldIncludeAlphabet() bool {
	return boolOr(n.IncludeAlphabet, true)
}

// ShouldIncludeResources defaults to true.
func (n NotesConfig) ShouldIncludeResources() bool {
	return boolOr(n.IncludeResources, true)
}

// LessonRef is a lesson together with the source group it belongs to.
type LessonRef struct {
	Number int
	Kind   SourceKind
	Source Source
	Lesson Lesson
}

// Load reads, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrapf(apperrors.ErrConfigNotFound, apperrors.KindConfig,
				"%s (copy config/config.example.yaml to %s and customize it)", path, path)
		}
		return nil, apperrors.Wrapf(err, apperrors.KindConfig, "read configuration %s", path)
	}
	return Parse(data)
}

// Parse decodes, defaults and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindConfig, "parse configuration")
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Marshal serializes the configuration back to YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) applyDefaults() {
	if c.Course.Language == "" {
		c.Course.Language = DefaultCourseLanguage
	}
	if c.Course.Level == "" {
		c.Course.Level = DefaultCourseLevel
	}
	if c.Language.NativeLanguage == "" {
		c.Language.NativeLanguage = DefaultNativeLanguage
	}
	if c.Transcription.Provider == "" {
		c.Transcription.Provider = DefaultTranscriptionProvider
	}
	if c.Transcription.Model == "" {
		c.Transcription.Model = DefaultTranscriptionModel
	}
	if c.Transcription.Language == "" {
		c.Transcription.Language = c.Language.Code
	}
	if c.Processing.MaxWorkers == 0 {
		c.Processing.MaxWorkers = DefaultMaxWorkers
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	if c.Output.TranscriptsDir == "" {
		c.Output.TranscriptsDir = DefaultTranscriptsDir
	}
	if c.Output.AudioDir == "" {
		c.Output.AudioDir = DefaultAudioDir
	}
	if c.Output.NotesFilename == "" {
		c.Output.NotesFilename = DefaultNotesFilename
	}
	if c.Output.PDFMode == "" {
		c.Output.PDFMode = DefaultPDFMode
	}
	for i := range c.Sources {
		if s := c.Sources[i].SFTP; s != nil && s.Port == 0 {
			s.Port = DefaultSSHPort
		}
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct constraints and the per-kind requirements of every
// source group.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			field := strings.TrimPrefix(fe.Namespace(), "Config.")
			if fe.Tag() == "required" {
				return apperrors.RequiredField(field)
			}
			return apperrors.InvalidField(field, fmt.Sprintf("failed %q constraint", fe.Tag()))
		}
		return apperrors.Wrap(err, apperrors.KindConfig, "validate configuration")
	}

	if err := ValidateConcurrency(c.Processing.MaxWorkers, "processing.max_workers"); err != nil {
		return err
	}

	for i, src := range c.Sources {
		if err := validateSource(i, src); err != nil {
			return err
		}
	}

	filenames := lo.FlatMap(c.Sources, func(s Source, _ int) []string {
		return lo.Map(s.Lessons, func(l Lesson, _ int) string { return l.Filename })
	})
	if dups := lo.FindDuplicates(filenames); len(dups) > 0 {
		return apperrors.InvalidField("sources", fmt.Sprintf("duplicate lesson filenames: %s", strings.Join(dups, ", ")))
	}
	return nil
}

func validateSource(i int, src Source) error {
	prefix := fmt.Sprintf("sources[%d]", i)

	switch src.Type {
	case SourceSFTP:
		if src.SFTP == nil {
			return apperrors.RequiredField(prefix + ".sftp")
		}
		if err := ValidatePort(src.SFTP.Port, prefix+".sftp.port"); err != nil {
			return err
		}
	case SourceS3:
		if src.S3 == nil {
			return apperrors.RequiredField(prefix + ".s3")
		}
	}

	for j, lesson := range src.Lessons {
		field := fmt.Sprintf("%s.lessons[%d]", prefix, j)
		if filepath.Base(lesson.Filename) != lesson.Filename {
			return apperrors.InvalidField(field+".filename", "must be a bare file name")
		}
		switch {
		case src.Type.RequiresID() && lesson.ID == "":
			return apperrors.RequiredField(field + ".id")
		case src.Type == SourceURL:
			if err := ValidateURL(lesson.URL, field+".url"); err != nil {
				return err
			}
		}
	}
	return nil
}

// OutputDir is the root of every generated artifact.
func (c *Config) OutputDir() string {
	return c.Output.Directory
}

// TranscriptsDir holds the txt and json transcripts.
func (c *Config) TranscriptsDir() string {
	return filepath.Join(c.Output.Directory, c.Output.TranscriptsDir)
}

// AudioDir holds the extracted mp3 files.
func (c *Config) AudioDir() string {
	return filepath.Join(c.Output.Directory, c.Output.AudioDir)
}

// ProgressPath is where the completed-task log lives.
func (c *Config) ProgressPath() string {
	return filepath.Join(c.Output.Directory, ProgressFilename)
}

// NotesFilename expands the notes filename template.
func (c *Config) NotesFilename() string {
	name := strings.NewReplacer(
		"{language}", c.Course.Language,
		"{level}", c.Course.Level,
	).Replace(c.Output.NotesFilename)
	return strings.ReplaceAll(name, " ", "_")
}

// NotesPath is the full path of the Markdown notes.
func (c *Config) NotesPath() string {
	return filepath.Join(c.Output.Directory, c.NotesFilename())
}

// CatalogPath is the SQLite catalog location, or "" when the catalog is off.
// Relative paths live under the output directory.
func (c *Config) CatalogPath() string {
	return c.underOutput(c.Output.Catalog)
}

// MetricsPath is the textfile-collector output, or "" when disabled.
func (c *Config) MetricsPath() string {
	return c.underOutput(c.Output.MetricsFile)
}

func (c *Config) underOutput(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Output.Directory, p)
}

// EnabledSources returns the source groups that are switched on.
func (c *Config) EnabledSources() []Source {
	return lo.Filter(c.Sources, func(s Source, _ int) bool { return s.IsEnabled() })
}

// Lessons flattens the enabled sources into an ordered lesson list.
func (c *Config) Lessons() []LessonRef {
	refs := lo.FlatMap(c.EnabledSources(), func(s Source, _ int) []LessonRef {
		return lo.Map(s.Lessons, func(l Lesson, _ int) LessonRef {
			return LessonRef{Kind: s.Type, Source: s, Lesson: l}
		})
	})
	for i := range refs {
		refs[i].Number = i + 1
	}
	return refs
}

// CreateOutputDirs creates the output, transcripts and audio directories.
func (c *Config) CreateOutputDirs() error {
	for _, dir := range []string{c.OutputDir(), c.TranscriptsDir(), c.AudioDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.Wrapf(err, apperrors.KindConfig, "create output directory %s", dir)
		}
	}
	return nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
