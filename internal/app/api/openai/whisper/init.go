package whisper

import (
	"go.uber.org/zap"

	"language-learner/internal/app/api"
	openaiclient "language-learner/internal/app/api/openai"
	"language-learner/internal/app/api/provider"
	"language-learner/internal/config"
)

func init() {
	// Register openai provider with the factory
	provider.RegisterProvider(providerName, createOpenAIProvider)
}

// createOpenAIProvider creates an OpenAI Whisper provider from configuration
func createOpenAIProvider(cfg config.TranscriptionConfig, logger *zap.Logger) (api.Transcriber, error) {
	apiKey, err := config.APIKeyFor(cfg)
	if err != nil {
		return nil, err
	}

	modelName := cfg.Model
	if modelName == "" || modelName == config.DefaultTranscriptionModel {
		modelName = "whisper-1"
	}

	client := openaiclient.NewClient(apiKey, cfg.BaseURL)
	return NewRemoteTranscriber(client, modelName, cfg.Prompt, logger), nil
}
