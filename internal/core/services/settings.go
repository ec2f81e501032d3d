package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
	"github.com/custodia-labs/paramframe/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyChunkSize         = "codec.chunk_size"
	keyMaxDepth          = "codec.max_depth"
	keyNameSeed          = "namegen.seed"
	keyConnectorType     = "connector.type"
	keyConnectorPath     = "connector.path"
	keyConnectorDatabase = "connector.database"
	keyConnectorRate     = "connector.rate_limit"
	keyConnectorBurst    = "connector.burst"
	keyStatePath         = "state.path"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validate    *validator.Validate
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Get retrieves current settings, falling back to defaults for unset keys.
func (s *SettingsService) Get() (*domain.Settings, error) {
	if s.configStore == nil {
		return nil, domain.ErrNotImplemented
	}
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Codec: domain.CodecSettings{
			ChunkSize: s.getInt(keyChunkSize, defaults.Codec.ChunkSize),
			MaxDepth:  s.getInt(keyMaxDepth, defaults.Codec.MaxDepth),
		},
		Names: domain.NameSettings{
			Seed: int64(s.getInt(keyNameSeed, int(defaults.Names.Seed))),
		},
		Connector: domain.ConnectorSettings{
			Type:      s.getConnectorType(defaults.Connector.Type),
			Path:      s.getString(keyConnectorPath, defaults.Connector.Path),
			Database:  s.getString(keyConnectorDatabase, defaults.Connector.Database),
			RateLimit: s.getFloat(keyConnectorRate, defaults.Connector.RateLimit),
			Burst:     s.getInt(keyConnectorBurst, defaults.Connector.Burst),
		},
		State: domain.StateSettings{
			Path: s.getString(keyStatePath, defaults.State.Path),
		},
	}

	return settings, nil
}

// Save persists settings after validating them.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if err := s.Validate(settings); err != nil {
		return err
	}
	values := []struct {
		key   string
		value any
	}{
		{keyChunkSize, settings.Codec.ChunkSize},
		{keyMaxDepth, settings.Codec.MaxDepth},
		{keyNameSeed, settings.Names.Seed},
		{keyConnectorType, settings.Connector.Type.String()},
		{keyConnectorPath, settings.Connector.Path},
		{keyConnectorDatabase, settings.Connector.Database},
		{keyConnectorRate, settings.Connector.RateLimit},
		{keyConnectorBurst, settings.Connector.Burst},
		{keyStatePath, settings.State.Path},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("saving %s: %w", v.key, err)
		}
	}
	return nil
}

// Validate checks settings for consistency.
func (s *SettingsService) Validate(settings *domain.Settings) error {
	if settings == nil {
		return fmt.Errorf("%w: nil settings", domain.ErrInvalidInput)
	}
	err := s.validate.Struct(settings)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, fmt.Errorf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(errs...))
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Helper methods for reading config values with defaults

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetInt(key)
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetFloat(key)
	}
	return defaultVal
}

func (s *SettingsService) getConnectorType(defaultVal domain.ConnectorType) domain.ConnectorType {
	val := s.configStore.GetString(keyConnectorType)
	if val == "" {
		return defaultVal
	}
	t := domain.ConnectorType(val)
	if !t.IsValid() {
		return defaultVal
	}
	return t
}
