package whisper_cpp

import (
	"fmt"
	"os/exec"

	"go.uber.org/zap"

	"language-learner/internal/app/api"
	"language-learner/internal/app/api/provider"
	"language-learner/internal/config"
)

const defaultBinary = "whisper-cli"

func init() {
	// Register whisper_cpp provider with the factory
	provider.RegisterProvider(providerName, createWhisperCppProvider)
}

// createWhisperCppProvider creates a whisper.cpp provider from configuration
func createWhisperCppProvider(cfg config.TranscriptionConfig, logger *zap.Logger) (api.Transcriber, error) {
	binaryPath := cfg.BinaryPath
	if binaryPath == "" {
		resolved, err := exec.LookPath(defaultBinary)
		if err != nil {
			return nil, fmt.Errorf("whisper_cpp provider requires 'binary_path' or %s on PATH", defaultBinary)
		}
		binaryPath = resolved
	}

	modelPath := cfg.ModelPath
	if modelPath == "" {
		modelPath = fmt.Sprintf("models/ggml-%s.bin", cfg.Model)
	}

	return NewLocalTranscriber(binaryPath, modelPath, cfg.Prompt, cfg.TempDir, logger), nil
}
