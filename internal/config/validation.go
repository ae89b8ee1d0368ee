package config

import (
	"fmt"
	"net/url"
	"strings"

	apperrors "language-learner/internal/app/errors"
)

// MaxWorkers caps processing.max_workers.
const MaxWorkers = 32

// ValidateConcurrency checks a worker count.
func ValidateConcurrency(n int, field string) error {
	if n < 1 || n > MaxWorkers {
		return apperrors.InvalidField(field, fmt.Sprintf("must be between 1 and %d, got %d", MaxWorkers, n))
	}
	return nil
}

// ValidateURL requires an absolute http or https URL.
func ValidateURL(raw, field string) error {
	if raw == "" {
		return apperrors.RequiredField(field)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.InvalidField(field, "must be an absolute http or https URL")
	}
	return nil
}

// ValidatePort checks a TCP port number.
func ValidatePort(port int, field string) error {
	if port < 1 || port > 65535 {
		return apperrors.InvalidField(field, fmt.Sprintf("port %d out of range", port))
	}
	return nil
}

// apiKeyFormats are the prefix and minimum length of each provider's keys.
var apiKeyFormats = map[string]struct {
	prefix string
	minLen int
}{
	"OPENAI_API_KEY": {"sk-", 20},
	"GEMINI_API_KEY": {"AIza", 30},
}

// ValidateAPIKey checks the shape of the key read from envVar.
func ValidateAPIKey(key, envVar string) error {
	if key == "" {
		return apperrors.RequiredField(envVar)
	}
	format, ok := apiKeyFormats[envVar]
	if !ok {
		return nil
	}
	if !strings.HasPrefix(key, format.prefix) {
		return apperrors.InvalidField(envVar, fmt.Sprintf("must start with %q", format.prefix))
	}
	if len(key) < format.minLen {
		return apperrors.InvalidField(envVar, "too short")
	}
	return nil
}
