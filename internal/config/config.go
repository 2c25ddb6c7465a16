package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Probe failure policies decide what a folder unit does when ffprobe fails.
const (
	// ProbePolicyEmbed treats a failed probe as "no embedded subtitles".
	ProbePolicyEmbed = "embed"
	// ProbePolicySkip never embeds when the probe failed.
	ProbePolicySkip = "skip"
)

// Supported title lookup providers.
const (
	ProviderTMDB = "tmdb"
	ProviderOMDB = "omdb"
)

// Config holds the persisted settings for movie-tidy.
type Config struct {
	Provider string `json:"provider"`

	TMDBAPIKey   string `json:"tmdb_api_key"`
	TMDBLanguage string `json:"tmdb_language"`
	OMDBAPIKey   string `json:"omdb_api_key"`

	FFprobePath         string `json:"ffprobe_path"`
	FFmpegPath          string `json:"ffmpeg_path"`
	ProbeTimeoutSeconds int    `json:"probe_timeout_seconds"`
	MuxTimeoutSeconds   int    `json:"mux_timeout_seconds"`
	ProbeFailurePolicy  string `json:"probe_failure_policy"`

	EnableLogging    bool `json:"enable_logging"`
	LogRetentionDays int  `json:"log_retention_days"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:            ProviderTMDB,
		TMDBLanguage:        "en-US",
		FFprobePath:         "ffprobe",
		FFmpegPath:          "ffmpeg",
		ProbeTimeoutSeconds: 30,
		MuxTimeoutSeconds:   2 * 60 * 60,
		ProbeFailurePolicy:  ProbePolicyEmbed,
		EnableLogging:       true,
		LogRetentionDays:    30,
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".movie-tidy", "config.json"), nil
}

// Load reads the configuration from the default location.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration at path. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Explicitly blank values fall back to defaults too
	defaults := DefaultConfig()
	if cfg.Provider == "" {
		cfg.Provider = defaults.Provider
	}
	if cfg.TMDBLanguage == "" {
		cfg.TMDBLanguage = defaults.TMDBLanguage
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = defaults.FFprobePath
	}
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = defaults.FFmpegPath
	}
	if cfg.ProbeTimeoutSeconds == 0 {
		cfg.ProbeTimeoutSeconds = defaults.ProbeTimeoutSeconds
	}
	if cfg.MuxTimeoutSeconds == 0 {
		cfg.MuxTimeoutSeconds = defaults.MuxTimeoutSeconds
	}
	if cfg.ProbeFailurePolicy == "" {
		cfg.ProbeFailurePolicy = defaults.ProbeFailurePolicy
	}
	if cfg.LogRetentionDays == 0 {
		cfg.LogRetentionDays = defaults.LogRetentionDays
	}

	return cfg, nil
}

// Save writes the configuration to the default location.
func (cfg *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return cfg.SaveTo(path)
}

// SaveTo writes the configuration to path, creating parent directories.
func (cfg *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file can hold API keys
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides API keys from TMDB_API_KEY and OMDB_API_KEY when set.
func (cfg *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv("TMDB_API_KEY")); v != "" {
		cfg.TMDBAPIKey = v
	}
	if v := strings.TrimSpace(getenv("OMDB_API_KEY")); v != "" {
		cfg.OMDBAPIKey = v
	}
}

// Validate reports every invalid setting at once.
func (cfg *Config) Validate() error {
	var errs []error

	switch cfg.Provider {
	case ProviderTMDB, ProviderOMDB:
	default:
		errs = append(errs, fmt.Errorf("provider %q must be %q or %q", cfg.Provider, ProviderTMDB, ProviderOMDB))
	}

	switch cfg.ProbeFailurePolicy {
	case ProbePolicyEmbed, ProbePolicySkip:
	default:
		errs = append(errs, fmt.Errorf("probe_failure_policy %q must be %q or %q", cfg.ProbeFailurePolicy, ProbePolicyEmbed, ProbePolicySkip))
	}

	if cfg.ProbeTimeoutSeconds < 0 {
		errs = append(errs, errors.New("probe_timeout_seconds must not be negative"))
	}
	if cfg.MuxTimeoutSeconds < 0 {
		errs = append(errs, errors.New("mux_timeout_seconds must not be negative"))
	}
	if cfg.LogRetentionDays < 0 {
		errs = append(errs, errors.New("log_retention_days must not be negative"))
	}

	return errors.Join(errs...)
}

// ProbeTimeout is the ffprobe time limit.
func (cfg *Config) ProbeTimeout() time.Duration {
	return time.Duration(cfg.ProbeTimeoutSeconds) * time.Second
}

// MuxTimeout is the ffmpeg time limit.
func (cfg *Config) MuxTimeout() time.Duration {
	return time.Duration(cfg.MuxTimeoutSeconds) * time.Second
}

// ProviderConfig returns the settings handed to the named provider's Configure.
func (cfg *Config) ProviderConfig(name string) map[string]interface{} {
	switch name {
	case ProviderTMDB:
		return map[string]interface{}{
			"api_key":  cfg.TMDBAPIKey,
			"language": cfg.TMDBLanguage,
		}
	case ProviderOMDB:
		return map[string]interface{}{
			"api_key": cfg.OMDBAPIKey,
		}
	default:
		return map[string]interface{}{}
	}
}

// APIKey returns the key configured for the named provider.
func (cfg *Config) APIKey(name string) string {
	switch name {
	case ProviderTMDB:
		return cfg.TMDBAPIKey
	case ProviderOMDB:
		return cfg.OMDBAPIKey
	default:
		return ""
	}
}
