package whisper_cpp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"language-learner/internal/app/api/provider"
	"language-learner/internal/app/audio"
	"language-learner/internal/app/model"
	"language-learner/internal/app/util/files"
)

const providerName = "whisper_cpp"

// LocalTranscriber implements local transcription, using local binary commands.
type LocalTranscriber struct {
	binaryPath string
	modelPath  string
	prompt     string
	tempDir    string
	logger     *zap.Logger

	// prepare returns a 16kHz WAV version of its input, converting into
	// wavPath when needed.
	prepare func(ctx context.Context, path, wavPath string) (string, error)
	run     func(ctx context.Context, binary string, args ...string) error
}

// NewLocalTranscriber creates a new instance of LocalTranscriber.
func NewLocalTranscriber(binaryPath, modelPath, prompt, tempDir string, logger *zap.Logger) *LocalTranscriber {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &LocalTranscriber{
		binaryPath: binaryPath,
		modelPath:  modelPath,
		prompt:     prompt,
		tempDir:    tempDir,
		logger:     logger,
		prepare:    ensureWav,
		run:        runBinary,
	}
}

// Name identifies the backend.
func (lt *LocalTranscriber) Name() string { return providerName }

// Transcribe runs whisper.cpp with JSON output and parses the timed segments.
func (lt *LocalTranscriber) Transcribe(ctx context.Context, audioPath, language string) (*model.Transcript, error) {
	if !files.Exists(audioPath) {
		return nil, provider.NewError(providerName, provider.CodeFileNotFound, false, "input file not found: %s", audioPath)
	}

	if err := files.EnsureDir(lt.tempDir); err != nil {
		return nil, provider.NewError(providerName, provider.CodeExecution, true, "failed to create temp directory: %v", err)
	}
	outputBase := filepath.Join(lt.tempDir, fmt.Sprintf("transcription_%d", time.Now().UnixNano()))
	outputFile := outputBase + ".json"
	defer os.Remove(outputFile)

	wavPath, err := lt.prepare(ctx, audioPath, outputBase+".wav")
	if err != nil {
		_ = os.Remove(outputBase + ".wav")
		return nil, provider.NewError(providerName, provider.CodeAudioConversion, true, "error converting input file: %v", err)
	}
	if wavPath != audioPath {
		defer os.Remove(wavPath)
	}

	if language == "" {
		language = "auto"
	}
	args := []string{
		"-m", lt.modelPath,
		"-l", language,
		"-oj",
		"-f", wavPath,
		"-of", outputBase,
	}
	if lt.prompt != "" {
		args = append(args, "--prompt", lt.prompt)
	}

	lt.logger.Info("running whisper.cpp",
		zap.String("input", wavPath),
		zap.String("command", lt.binaryPath+" "+strings.Join(args, " ")))

	if err := lt.run(ctx, lt.binaryPath, args...); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, provider.NewError(providerName, provider.CodeExecution, true, "command execution error: %v", err)
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		return nil, provider.NewError(providerName, provider.CodeInvalidResponse, false, "failed to read output file: %v", err)
	}
	t, err := parseOutput(data)
	if err != nil {
		return nil, provider.NewError(providerName, provider.CodeInvalidResponse, false, "failed to parse output: %v", err)
	}
	if t.Language == "" || t.Language == "auto" {
		t.Language = language
	}
	return t, nil
}

// output mirrors the file whisper.cpp writes with -oj.
type output struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func parseOutput(data []byte) (*model.Transcript, error) {
	var out output
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	t := &model.Transcript{Language: out.Result.Language}
	for _, seg := range out.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		t.Segments = append(t.Segments, model.Segment{
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
			Text:  text,
		})
	}
	t.Normalize()
	return t, nil
}

// ensureWav returns path when it is already 16kHz PCM, otherwise converts it
// to wavPath.
func ensureWav(ctx context.Context, path, wavPath string) (string, error) {
	ok, err := audio.Is16kHzWavFile(ctx, path)
	if err != nil {
		return "", err
	}
	if ok {
		return path, nil
	}
	if err := audio.ConvertTo16kHzWav(ctx, path, wavPath); err != nil {
		return "", err
	}
	return wavPath, nil
}

func runBinary(ctx context.Context, binary string, args ...string) error {
	command := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	command.Stderr = &stderr
	if err := command.Run(); err != nil {
		return fmt.Errorf("%v, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
