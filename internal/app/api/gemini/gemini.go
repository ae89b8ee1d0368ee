// Package gemini transcribes audio with Google Gemini models.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"language-learner/internal/app/api/provider"
	"language-learner/internal/app/model"
)

const (
	providerName = "gemini"
	defaultModel = "gemini-2.5-flash"

	// Larger files go through the Files API instead of inline data.
	inlineLimit = 18 << 20
)

// generator is the subset of *genai.Models the transcriber calls.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// uploader is the subset of *genai.Files the transcriber calls.
type uploader interface {
	UploadFromPath(ctx context.Context, path string, config *genai.UploadFileConfig) (*genai.File, error)
}

// Transcriber sends lesson audio to Gemini and asks for timed segments.
type Transcriber struct {
	models generator
	files  uploader
	model  string
	prompt string
	logger *zap.Logger
}

// NewTranscriber wraps a genai client.
func NewTranscriber(client *genai.Client, modelName, prompt string, logger *zap.Logger) *Transcriber {
	return newTranscriber(client.Models, client.Files, modelName, prompt, logger)
}

func newTranscriber(models generator, files uploader, modelName, prompt string, logger *zap.Logger) *Transcriber {
	if modelName == "" {
		modelName = defaultModel
	}
	return &Transcriber{models: models, files: files, model: modelName, prompt: prompt, logger: logger}
}

// Name identifies the backend.
func (t *Transcriber) Name() string { return providerName }

// Transcribe uploads audioPath and parses the JSON transcript Gemini returns.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath, language string) (*model.Transcript, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, provider.NewError(providerName, provider.CodeFileNotFound, false, "input file not found: %s", audioPath)
	}

	mimeType := provider.GetAudioFormatFromFilename(audioPath).MIMEType()
	audioPart, err := t.audioPart(ctx, audioPath, mimeType, info.Size())
	if err != nil {
		return nil, err
	}

	t.logger.Info("requesting transcript", zap.String("input", audioPath), zap.String("model", t.model))

	result, err := t.models.GenerateContent(ctx, t.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: BuildPrompt(language, t.prompt)}, audioPart},
		}},
		BuildConfig(),
	)
	if err != nil {
		return nil, provider.NewError(providerName, provider.CodeAPI, true, "generateContent failed: %v", err)
	}
	if result == nil {
		return nil, provider.NewError(providerName, provider.CodeInvalidResponse, false, "gemini returned nil result")
	}

	tr, err := ParseResponse(result.Text())
	if err != nil {
		return nil, provider.NewError(providerName, provider.CodeInvalidResponse, false, "%v", err)
	}
	if tr.Language == "" {
		tr.Language = language
	}
	return tr, nil
}

func (t *Transcriber) audioPart(ctx context.Context, path, mimeType string, size int64) (*genai.Part, error) {
	if size <= inlineLimit {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, provider.NewError(providerName, provider.CodeInvalidInput, false, "read audio: %v", err)
		}
		return genai.NewPartFromBytes(data, mimeType), nil
	}

	file, err := t.files.UploadFromPath(ctx, path, &genai.UploadFileConfig{MIMEType: mimeType})
	if err != nil {
		return nil, provider.NewError(providerName, provider.CodeAPI, true, "upload audio: %v", err)
	}
	return genai.NewPartFromURI(file.URI, file.MIMEType), nil
}

// BuildConfig requests a JSON response at low temperature.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a careful transcriber of language lessons. Transcribe speech verbatim in the language it is spoken. Do not translate or summarize.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}

// BuildPrompt describes the expected JSON layout.
func BuildPrompt(language, hint string) string {
	var sb strings.Builder
	sb.WriteString("Transcribe the attached lesson recording.\n")
	if language != "" {
		fmt.Fprintf(&sb, "The main language is %q; keep other languages as spoken.\n", language)
	}
	if hint != "" {
		fmt.Fprintf(&sb, "Context: %s\n", hint)
	}
	sb.WriteString(`Respond with JSON: {"language": "<code>", "duration": <seconds>, "segments": [{"start": <seconds>, "end": <seconds>, "text": "<utterance>"}]}`)
	return sb.String()
}

type response struct {
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// ParseResponse decodes the model's JSON answer. Code fences around the JSON
// are tolerated.
func ParseResponse(text string) (*model.Transcript, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var resp response
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &resp); err != nil {
		return nil, fmt.Errorf("decode gemini transcript: %w", err)
	}

	tr := &model.Transcript{Text: resp.Text, Language: resp.Language, Duration: resp.Duration}
	for _, seg := range resp.Segments {
		tr.Segments = append(tr.Segments, model.Segment{Start: seg.Start, End: seg.End, Text: strings.TrimSpace(seg.Text)})
	}
	tr.Normalize()
	if tr.Text == "" {
		return nil, fmt.Errorf("gemini transcript is empty")
	}
	return tr, nil
}
