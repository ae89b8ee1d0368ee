package provider

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"language-learner/internal/app/api"
	"language-learner/internal/config"
)

// ProviderCreator builds a transcriber from the transcription section of the
// course configuration.
type ProviderCreator func(cfg config.TranscriptionConfig, logger *zap.Logger) (api.Transcriber, error)

// providerRegistry stores provider creation functions
var (
	providerRegistry = make(map[string]ProviderCreator)
	registryMutex    sync.RWMutex
)

// RegisterProvider registers a provider creator function
func RegisterProvider(providerType string, creator ProviderCreator) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	providerRegistry[providerType] = creator
}

// GetProviderCreator returns the creator function for a provider type
func GetProviderCreator(providerType string) (ProviderCreator, error) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	creator, ok := providerRegistry[providerType]
	if !ok {
		return nil, fmt.Errorf("provider type %s not registered", providerType)
	}
	return creator, nil
}

// ListRegisteredProviders returns all registered provider types, sorted.
func ListRegisteredProviders() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, providerType)
	}
	sort.Strings(providers)
	return providers
}

// NewTranscriber builds the transcriber selected by cfg.Provider.
func NewTranscriber(cfg config.TranscriptionConfig, logger *zap.Logger) (api.Transcriber, error) {
	creator, err := GetProviderCreator(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, ListRegisteredProviders())
	}
	t, err := creator(cfg, logger.With(zap.String("provider", cfg.Provider)))
	if err != nil {
		return nil, fmt.Errorf("create %s transcriber: %w", cfg.Provider, err)
	}
	return t, nil
}
