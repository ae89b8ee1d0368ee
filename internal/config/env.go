package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// APIKeys holds all API keys loaded from environment
type APIKeys struct {
	OpenAI string
	Gemini string
}

// envPaths are tried in order; the first existing file wins.
var envPaths = []string{
	".env",
	".env.local",
	"../.env",
}

// LoadEnv loads environment variables from the first .env file found and
// returns its path. A missing file is not an error: variables may be set
// system-wide.
func LoadEnv() (string, error) {
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}
	return "", nil
}

// GetAPIKeys retrieves and validates API keys from environment variables
func GetAPIKeys() (*APIKeys, error) {
	apiKeys := &APIKeys{
		OpenAI: strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		Gemini: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
	}

	if apiKeys.OpenAI != "" {
		if err := ValidateAPIKey(apiKeys.OpenAI, "OPENAI_API_KEY"); err != nil {
			return nil, err
		}
	}
	if apiKeys.Gemini != "" {
		if err := ValidateAPIKey(apiKeys.Gemini, "GEMINI_API_KEY"); err != nil {
			return nil, err
		}
	}

	return apiKeys, nil
}

// APIKeyFor returns the key a transcription provider needs. An explicit key in
// the configuration wins over the environment.
func APIKeyFor(cfg TranscriptionConfig) (string, error) {
	if cfg.APIKey != "" {
		return ResolveSecret(cfg.APIKey), nil
	}

	keys, err := GetAPIKeys()
	if err != nil {
		return "", err
	}

	switch cfg.Provider {
	case "openai":
		if keys.OpenAI == "" {
			return "", fmt.Errorf("openai transcription requires OPENAI_API_KEY in the environment or .env file")
		}
		return keys.OpenAI, nil
	case "gemini":
		if keys.Gemini == "" {
			return "", fmt.Errorf("gemini transcription requires GEMINI_API_KEY in the environment or .env file")
		}
		return keys.Gemini, nil
	default:
		return "", nil
	}
}

// ResolveSecret expands ${VAR} references so credentials can stay out of the
// configuration file.
func ResolveSecret(value string) string {
	return os.ExpandEnv(value)
}
