package whisper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	openaiclient "language-learner/internal/app/api/openai"
	"language-learner/internal/app/api/provider"
	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/config"
)

const verboseResponse = `{
  "task": "transcribe",
  "language": "spanish",
  "duration": 8.5,
  "text": "Hola. ¿Cómo estás?",
  "segments": [
    {"id": 0, "seek": 0, "start": 0.0, "end": 1.2, "text": " Hola."},
    {"id": 1, "seek": 0, "start": 1.2, "end": 8.5, "text": " ¿Cómo estás?"}
  ]
}`

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lesson.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3fake"), 0o644))
	return path
}

func TestRemoteTranscriber_Transcribe(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		expectError   bool
		retryable     bool
		errorContains string
	}{
		{
			name:   "verbose json",
			status: http.StatusOK,
			body:   verboseResponse,
		},
		{
			name:          "unauthorized",
			status:        http.StatusUnauthorized,
			body:          `{"error": {"message": "Invalid API key", "type": "invalid_request_error"}}`,
			expectError:   true,
			errorContains: "401",
		},
		{
			name:          "rate limit",
			status:        http.StatusTooManyRequests,
			body:          `{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`,
			expectError:   true,
			retryable:     true,
			errorContains: "429",
		},
		{
			name:          "server error",
			status:        http.StatusInternalServerError,
			body:          `{"error": {"message": "Internal server error", "type": "server_error"}}`,
			expectError:   true,
			retryable:     true,
			errorContains: "500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
				require.NoError(t, r.ParseMultipartForm(32<<20))
				assert.Equal(t, "whisper-1", r.FormValue("model"))
				assert.Equal(t, "verbose_json", r.FormValue("response_format"))
				assert.Equal(t, "es", r.FormValue("language"))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := openaiclient.NewClient("sk-test", server.URL+"/v1")
			rt := NewRemoteTranscriber(client, "", "", zap.NewNop())

			got, err := rt.Transcribe(context.Background(), writeAudio(t), "es")
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Equal(t, tt.retryable, provider.IsRetryable(err))
				assert.Equal(t, apperrors.KindTranscription, apperrors.KindOf(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Hola. ¿Cómo estás?", got.Text)
			assert.Equal(t, "spanish", got.Language)
			assert.InDelta(t, 8.5, got.Duration, 0.001)
			require.Len(t, got.Segments, 2)
			assert.InDelta(t, 1.2, got.Segments[1].Start, 0.001)
		})
	}
}

func TestRemoteTranscriber_MissingFile(t *testing.T) {
	rt := NewRemoteTranscriber(openaiclient.NewClient("sk-test", "http://127.0.0.1:1/v1"), "", "", zap.NewNop())
	_, err := rt.Transcribe(context.Background(), "/nope.mp3", "es")

	var te *provider.TranscriptionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, provider.CodeFileNotFound, te.Code)
	assert.False(t, te.Retryable)
}

func TestCreateOpenAIProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := createOpenAIProvider(config.TranscriptionConfig{Provider: "openai"}, zap.NewNop())
	assert.ErrorContains(t, err, "OPENAI_API_KEY")

	tr, err := createOpenAIProvider(config.TranscriptionConfig{
		Provider: "openai",
		Model:    config.DefaultTranscriptionModel,
		APIKey:   "sk-inline-key-for-tests-000000",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "whisper-1", tr.(*RemoteTranscriber).model)
}
