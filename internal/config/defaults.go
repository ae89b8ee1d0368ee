package config

// Configuration default constants
const (
	DefaultConfigPath = "config/config.yaml"

	// Course defaults
	DefaultCourseLanguage = "Language"
	DefaultCourseLevel    = "A1"
	DefaultNativeLanguage = "en"

	// Transcription defaults
	DefaultTranscriptionProvider = "whisper_cpp"
	DefaultTranscriptionModel    = "medium"

	// Processing defaults
	DefaultMaxWorkers = 2

	// Output defaults
	DefaultOutputDir      = "output"
	DefaultTranscriptsDir = "transcripts"
	DefaultAudioDir       = "audio"
	DefaultNotesFilename  = "Comprehensive_Notes_{language}_{level}.md"
	DefaultPDFMode        = "standard"
	ProgressFilename      = "progress.json"

	// Network defaults
	DefaultSSHPort = 22
)
