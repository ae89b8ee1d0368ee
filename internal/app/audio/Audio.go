// Package audio wraps the ffmpeg and ffprobe command line tools.
package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/app/model"
	"language-learner/internal/app/util/files"
)

// Extractor turns a lesson video into an audio file.
type Extractor interface {
	Extract(ctx context.Context, videoPath, audioPath string) error
}

// runCommand executes name with args and returns stdout. Replaced in tests.
var runCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s error: %v, stderr: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// FFmpegExtractor extracts an mp3 track with ffmpeg.
type FFmpegExtractor struct {
	logger *zap.Logger
}

// NewFFmpegExtractor returns an extractor that logs through logger.
func NewFFmpegExtractor(logger *zap.Logger) *FFmpegExtractor {
	return &FFmpegExtractor{logger: logger}
}

// Extract writes the audio of videoPath to audioPath as mp3. An existing
// audioPath is reused.
func (e *FFmpegExtractor) Extract(ctx context.Context, videoPath, audioPath string) error {
	if files.Exists(audioPath) {
		e.logger.Debug("audio already extracted", zap.String("audio", audioPath))
		return nil
	}
	if !files.Exists(videoPath) {
		return apperrors.Wrapf(apperrors.ErrAudioExtraction, apperrors.KindTranscription, "video %s does not exist", videoPath)
	}
	if err := files.EnsureDir(filepath.Dir(audioPath)); err != nil {
		return apperrors.Wrap(err, apperrors.KindIO, "prepare audio directory")
	}

	e.logger.Info("extracting audio", zap.String("video", videoPath), zap.String("audio", audioPath))

	tmp := files.TempPath(audioPath)
	if _, err := runCommand(ctx, "ffmpeg", "-i", videoPath, "-vn", "-acodec", "libmp3lame", "-y", tmp); err != nil {
		_ = os.Remove(tmp)
		return apperrors.Wrapf(apperrors.ErrAudioExtraction, apperrors.KindTranscription, "%s: %v", filepath.Base(videoPath), err)
	}
	if err := files.CommitTemp(tmp, audioPath); err != nil {
		return apperrors.Wrap(err, apperrors.KindIO, "store extracted audio")
	}
	return nil
}

// GetAudioDuration returns the duration of a media file in seconds.
func GetAudioDuration(ctx context.Context, filePath string) (float64, error) {
	output, err := runCommand(ctx, "ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", filePath)
	if err != nil {
		return 0, err
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration: %w", err)
	}
	return duration, nil
}

// Is16kHzWavFile reports whether filePath is 16-bit 16kHz PCM, the input
// whisper.cpp expects.
func Is16kHzWavFile(ctx context.Context, filePath string) (bool, error) {
	output, err := runCommand(ctx, "ffprobe", "-v", "quiet", "-print_format", "json", "-show_streams", filePath)
	if err != nil {
		return false, err
	}

	var probeOutput model.FFProbeOutput
	if err := json.Unmarshal(output, &probeOutput); err != nil {
		return false, err
	}

	for _, stream := range probeOutput.Streams {
		if stream.CodecType == "audio" && stream.CodecName == "pcm_s16le" && stream.SampleRate == 16000 {
			return true, nil
		}
	}
	return false, nil
}

// ConvertTo16kHzWav converts an audio or video file to a mono 16kHz WAV at
// outputWavPath.
func ConvertTo16kHzWav(ctx context.Context, inputFilePath, outputWavPath string) error {
	ext := strings.ToLower(filepath.Ext(inputFilePath))
	switch ext {
	case ".mp3", ".m4a", ".wav", ".mp4", ".mkv", ".webm":
	default:
		return fmt.Errorf("unsupported audio format not in [mp3,m4a,wav,mp4,mkv,webm]: %s", ext)
	}

	tmp := files.TempPath(outputWavPath)
	if _, err := runCommand(ctx, "ffmpeg", "-i", inputFilePath, "-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", "-y", tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return files.CommitTemp(tmp, outputWavPath)
}
