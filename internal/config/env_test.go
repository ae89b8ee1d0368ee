package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAPIKeys(t *testing.T) {
	testCases := []struct {
		name          string
		openaiKey     string
		geminiKey     string
		expectError   bool
		errorContains string
	}{
		{
			name:      "valid OpenAI key",
			openaiKey: "sk-1234567890abcdef1234567890abcdef",
		},
		{
			name:      "valid Gemini key",
			geminiKey: "AIzaTest-1234567890abcdef1234567890",
		},
		{
			name:          "invalid OpenAI key format",
			openaiKey:     "invalid-key",
			expectError:   true,
			errorContains: "OPENAI_API_KEY",
		},
		{
			name:          "Gemini key too short",
			geminiKey:     "AIza-short",
			expectError:   true,
			errorContains: "too short",
		},
		{
			name: "empty keys are allowed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", tc.openaiKey)
			t.Setenv("GEMINI_API_KEY", tc.geminiKey)

			apiKeys, err := GetAPIKeys()

			if tc.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.openaiKey, apiKeys.OpenAI)
			assert.Equal(t, tc.geminiKey, apiKeys.Gemini)
		})
	}
}

func TestAPIKeyFor(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-1234567890abcdef1234567890abcdef")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("MY_KEY", "sk-from-config-reference-123456")

	key, err := APIKeyFor(TranscriptionConfig{Provider: "openai"})
	require.NoError(t, err)
	assert.Equal(t, "sk-1234567890abcdef1234567890abcdef", key)

	key, err = APIKeyFor(TranscriptionConfig{Provider: "openai", APIKey: "${MY_KEY}"})
	require.NoError(t, err)
	assert.Equal(t, "sk-from-config-reference-123456", key)

	_, err = APIKeyFor(TranscriptionConfig{Provider: "gemini"})
	assert.ErrorContains(t, err, "GEMINI_API_KEY")

	key, err = APIKeyFor(TranscriptionConfig{Provider: "whisper_cpp"})
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	path, err := LoadEnv()
	require.NoError(t, err)
	assert.Empty(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LEARNER_TEST_VAR=from-dotenv\n"), 0o644))
	t.Setenv("LEARNER_TEST_VAR", "")
	require.NoError(t, os.Unsetenv("LEARNER_TEST_VAR"))

	path, err = LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ".env", path)
	assert.Equal(t, "from-dotenv", os.Getenv("LEARNER_TEST_VAR"))
}
