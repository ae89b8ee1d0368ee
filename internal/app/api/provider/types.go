package provider

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "language-learner/internal/app/errors"
)

// AudioFormat defines supported audio formats
type AudioFormat string

const (
	FormatWAV  AudioFormat = "wav"
	FormatMP3  AudioFormat = "mp3"
	FormatM4A  AudioFormat = "m4a"
	FormatFLAC AudioFormat = "flac"
	FormatOGG  AudioFormat = "ogg"
	FormatWEBM AudioFormat = "webm"
	FormatMP4  AudioFormat = "mp4"
)

// Error codes shared by the backends.
const (
	CodeInvalidInput    = "invalid_input"
	CodeFileNotFound    = "file_not_found"
	CodeAudioConversion = "audio_conversion_error"
	CodeExecution       = "execution_error"
	CodeAPI             = "api_error"
	CodeInvalidResponse = "invalid_response"
)

// TranscriptionError represents provider-specific errors
type TranscriptionError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Provider  string `json:"provider"`
	Retryable bool   `json:"retryable"`
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Unwrap classifies every provider failure as a transcription error.
func (e *TranscriptionError) Unwrap() error {
	return apperrors.ErrTranscription
}

// NewError builds a TranscriptionError.
func NewError(providerName, code string, retryable bool, format string, args ...any) *TranscriptionError {
	return &TranscriptionError{
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
		Provider:  providerName,
		Retryable: retryable,
	}
}

// IsRetryable reports whether err is a TranscriptionError marked retryable.
func IsRetryable(err error) bool {
	var te *TranscriptionError
	return apperrors.As(err, &te) && te.Retryable
}

// IsValidAudioFormat checks if the given format is supported
func IsValidAudioFormat(format string) bool {
	switch AudioFormat(format) {
	case FormatWAV, FormatMP3, FormatM4A, FormatFLAC, FormatOGG, FormatWEBM, FormatMP4:
		return true
	default:
		return false
	}
}

// GetAudioFormatFromFilename extracts audio format from filename
func GetAudioFormatFromFilename(filename string) AudioFormat {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if !IsValidAudioFormat(ext) {
		return ""
	}
	return AudioFormat(ext)
}

// MIMEType returns the media type used when uploading a file of format f.
func (f AudioFormat) MIMEType() string {
	switch f {
	case FormatWAV:
		return "audio/wav"
	case FormatMP3:
		return "audio/mpeg"
	case FormatM4A:
		return "audio/mp4"
	case FormatFLAC:
		return "audio/flac"
	case FormatOGG:
		return "audio/ogg"
	case FormatWEBM:
		return "audio/webm"
	case FormatMP4:
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}
