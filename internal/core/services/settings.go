package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkSize         = "ingest.chunk_size"
	keyStrategy          = "ingest.strategy"
	keyWorkers           = "ingest.workers"
	keyExtractionTimeout = "ingest.extraction_timeout_secs"
	keyOutput            = "ingest.output"
	keyWriteText         = "ingest.write_text"
	keySearchK           = "search.k"
	keyStoreTimeout      = "search.store_timeout_secs"
	keyStores            = "search.stores"
	keyRerank            = "search.rerank"
	keyRerankerProvider  = "reranker.provider"
	keyRerankerModel     = "reranker.model"
	keyRerankerBaseURL   = "reranker.base_url"
	keyRerankerAPIKey    = "reranker.api_key"
	keyRerankerRPS       = "reranker.requests_per_second"
	keyQueryPrefix       = "reranker.query_prefix"
)

// Environment variables that fill unset reranker fields.
const (
	envOpenAIKey  = "OPENAI_API_KEY"
	envOllamaHost = "OLLAMA_HOST"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
)

var settingKinds = map[string]valueKind{
	keyChunkSize:         kindInt,
	keyStrategy:          kindString,
	keyWorkers:           kindInt,
	keyExtractionTimeout: kindInt,
	keyOutput:            kindString,
	keyWriteText:         kindBool,
	keySearchK:           kindInt,
	keyStoreTimeout:      kindInt,
	keyStores:            kindList,
	keyRerank:            kindBool,
	keyRerankerProvider:  kindString,
	keyRerankerModel:     kindString,
	keyRerankerBaseURL:   kindString,
	keyRerankerAPIKey:    kindString,
	keyRerankerRPS:       kindFloat,
	keyQueryPrefix:       kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings. Unset keys take their
// defaults; unset reranker credentials come from the environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Ingest: domain.IngestSettings{
			ChunkSize:         s.getInt(keyChunkSize, defaults.Ingest.ChunkSize),
			Strategy:          domain.Strategy(s.getString(keyStrategy, defaults.Ingest.Strategy.String())),
			Workers:           s.getInt(keyWorkers, defaults.Ingest.Workers),
			ExtractionTimeout: s.getSeconds(keyExtractionTimeout, defaults.Ingest.ExtractionTimeout),
			Output:            s.getString(keyOutput, defaults.Ingest.Output),
			WriteText:         s.getBool(keyWriteText, defaults.Ingest.WriteText),
		},
		Search: domain.SearchSettings{
			K:            s.getInt(keySearchK, defaults.Search.K),
			StoreTimeout: s.getSeconds(keyStoreTimeout, defaults.Search.StoreTimeout),
			Stores:       s.configStore.GetStringSlice(keyStores),
			Rerank:       s.getBool(keyRerank, defaults.Search.Rerank),
		},
		Reranker: domain.RerankerSettings{
			Provider:          domain.AIProvider(s.configStore.GetString(keyRerankerProvider)),
			Model:             s.configStore.GetString(keyRerankerModel),
			BaseURL:           s.configStore.GetString(keyRerankerBaseURL),
			APIKey:            s.configStore.GetString(keyRerankerAPIKey),
			RequestsPerSecond: s.getFloat(keyRerankerRPS, defaults.Reranker.RequestsPerSecond),
			QueryPrefix:       s.configStore.GetString(keyQueryPrefix),
		},
	}

	s.applyEnv(&settings.Reranker)
	return settings, nil
}

func (s *SettingsService) applyEnv(r *domain.RerankerSettings) {
	if r.Provider == domain.AIProviderOpenAI && r.APIKey == "" {
		if v, ok := s.lookupEnv(envOpenAIKey); ok {
			r.APIKey = v
		}
	}
	if r.Provider == domain.AIProviderOllama && r.BaseURL == "" {
		if v, ok := s.lookupEnv(envOllamaHost); ok {
			r.BaseURL = v
		}
	}
}

// Set parses value for key, checks the resulting settings and persists
// the key.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseValue(kind, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	switch key {
	case keyStrategy:
		if !domain.Strategy(parsed.(string)).IsValid() {
			return fmt.Errorf("%w: unknown strategy %q", domain.ErrConfiguration, parsed)
		}
	case keyRerankerProvider:
		p := domain.AIProvider(parsed.(string))
		if p != domain.AIProviderNone && !p.IsValid() {
			return fmt.Errorf("%w: unknown reranker provider %q", domain.ErrConfiguration, parsed)
		}
	case keyChunkSize, keyWorkers, keySearchK:
		if parsed.(int) <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", domain.ErrConfiguration, key, parsed)
		}
	case keyExtractionTimeout, keyStoreTimeout:
		if parsed.(int) < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", domain.ErrConfiguration, key, parsed)
		}
	case keyRerankerRPS:
		if parsed.(float64) < 0 {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrConfiguration, key)
		}
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func parseValue(kind valueKind, value string) (any, error) {
	switch kind {
	case kindInt:
		return strconv.Atoi(value)
	case kindFloat:
		return strconv.ParseFloat(value, 64)
	case kindBool:
		return strconv.ParseBool(value)
	case kindList:
		items := []string{}
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil
	default:
		return value, nil
	}
}

// Keys returns every supported settings key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return time.Duration(s.configStore.GetInt(key)) * time.Second
}
