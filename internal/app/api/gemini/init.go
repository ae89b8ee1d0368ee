package gemini

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"language-learner/internal/app/api"
	"language-learner/internal/app/api/provider"
	"language-learner/internal/config"
)

func init() {
	provider.RegisterProvider(providerName, createGeminiProvider)
}

func createGeminiProvider(cfg config.TranscriptionConfig, logger *zap.Logger) (api.Transcriber, error) {
	apiKey, err := config.APIKeyFor(cfg)
	if err != nil {
		return nil, err
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, err
	}

	modelName := cfg.Model
	if modelName == config.DefaultTranscriptionModel {
		modelName = ""
	}
	return NewTranscriber(client, modelName, cfg.Prompt, logger), nil
}
