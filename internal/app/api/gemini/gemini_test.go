package gemini

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"language-learner/internal/app/api/provider"
	apperrors "language-learner/internal/app/errors"
)

type fakeModels struct {
	text     string
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

type fakeFiles struct{ called bool }

func (f *fakeFiles) UploadFromPath(_ context.Context, path string, cfg *genai.UploadFileConfig) (*genai.File, error) {
	f.called = true
	return &genai.File{URI: "https://files.example/" + filepath.Base(path), MIMEType: cfg.MIMEType}, nil
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lesson.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3fake"), 0o644))
	return path
}

func TestTranscriber_Transcribe(t *testing.T) {
	models := &fakeModels{text: "```json\n" + `{"language":"ja","segments":[{"start":0,"end":2,"text":"こんにちは"},{"start":2,"end":4.5,"text":" さようなら "}]}` + "\n```"}
	files := &fakeFiles{}
	tr := newTranscriber(models, files, "", "", zap.NewNop())

	got, err := tr.Transcribe(context.Background(), writeAudio(t), "ja")
	require.NoError(t, err)

	assert.Equal(t, defaultModel, models.model)
	assert.Equal(t, "application/json", models.config.ResponseMIMEType)
	require.Len(t, models.contents, 1)
	require.Len(t, models.contents[0].Parts, 2)
	require.NotNil(t, models.contents[0].Parts[1].InlineData)
	assert.Equal(t, "audio/mpeg", models.contents[0].Parts[1].InlineData.MIMEType)
	assert.False(t, files.called)

	assert.Equal(t, "ja", got.Language)
	assert.Equal(t, "こんにちは さようなら", got.Text)
	assert.InDelta(t, 4.5, got.Duration, 0.001)
	assert.Equal(t, "gemini", tr.Name())
}

func TestTranscriber_Errors(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		tr := newTranscriber(&fakeModels{}, &fakeFiles{}, "", "", zap.NewNop())
		_, err := tr.Transcribe(context.Background(), "/nope.mp3", "ja")
		var te *provider.TranscriptionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, provider.CodeFileNotFound, te.Code)
	})

	t.Run("api_error", func(t *testing.T) {
		tr := newTranscriber(&fakeModels{err: errors.New("quota exceeded")}, &fakeFiles{}, "", "", zap.NewNop())
		_, err := tr.Transcribe(context.Background(), writeAudio(t), "ja")
		require.Error(t, err)
		assert.True(t, provider.IsRetryable(err))
		assert.Equal(t, apperrors.KindTranscription, apperrors.KindOf(err))
	})

	t.Run("bad_json", func(t *testing.T) {
		tr := newTranscriber(&fakeModels{text: "sorry, I cannot"}, &fakeFiles{}, "", "", zap.NewNop())
		_, err := tr.Transcribe(context.Background(), writeAudio(t), "ja")
		var te *provider.TranscriptionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, provider.CodeInvalidResponse, te.Code)
	})
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: `{"text":"Bonjour","segments":[]}`, want: "Bonjour"},
		{name: "segments_only", in: `{"segments":[{"start":0,"end":1,"text":"Guten"},{"start":1,"end":2,"text":"Tag"}]}`, want: "Guten Tag"},
		{name: "empty", in: `{"segments":[]}`, wantErr: true},
		{name: "not_json", in: `hello`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Text)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("ar", "Lesson on greetings")
	assert.Contains(t, p, `"ar"`)
	assert.Contains(t, p, "Context: Lesson on greetings")
	assert.Contains(t, p, `"segments"`)
}
