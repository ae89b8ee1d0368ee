package whisper

import (
	"context"
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"language-learner/internal/app/api/provider"
	"language-learner/internal/app/model"
	"language-learner/internal/app/util/files"
)

const providerName = "openai"

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	client *openai.Client
	model  string
	prompt string
	logger *zap.Logger
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, modelName, prompt string, logger *zap.Logger) *RemoteTranscriber {
	if modelName == "" {
		modelName = openai.Whisper1
	}
	return &RemoteTranscriber{client: client, model: modelName, prompt: prompt, logger: logger}
}

// Name identifies the backend.
func (rt *RemoteTranscriber) Name() string { return providerName }

// Transcribe uploads the audio and requests verbose JSON so segment timings
// come back with the text.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, audioPath, language string) (*model.Transcript, error) {
	if !files.Exists(audioPath) {
		return nil, provider.NewError(providerName, provider.CodeFileNotFound, false, "input file not found: %s", audioPath)
	}

	req := openai.AudioRequest{
		Model:    rt.model,
		FilePath: audioPath,
		Prompt:   rt.prompt,
		Language: language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}

	rt.logger.Info("uploading audio for transcription", zap.String("input", audioPath), zap.String("model", rt.model))

	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, classify(err)
	}

	t := &model.Transcript{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: resp.Duration,
	}
	for _, seg := range resp.Segments {
		t.Segments = append(t.Segments, model.Segment{
			ID:    seg.ID,
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}
	if t.Language == "" {
		t.Language = language
	}
	t.Normalize()
	return t, nil
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		retryable := apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
		return provider.NewError(providerName, provider.CodeAPI, retryable,
			"createTranscription failed with status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		retryable := reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
		return provider.NewError(providerName, provider.CodeAPI, retryable,
			"createTranscription failed with status %d: %v", reqErr.HTTPStatusCode, reqErr.Err)
	}
	return provider.NewError(providerName, provider.CodeAPI, true, "createTranscription failed: %v", err)
}
