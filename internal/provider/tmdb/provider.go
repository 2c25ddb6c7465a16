package tmdb

import (
	"fmt"
	"strings"
	"time"

	"github.com/Digital-Shane/movie-tidy/internal/provider"
	"github.com/patrickmn/go-cache"
	"github.com/ryanbradynd05/go-tmdb"
)

const (
	providerName = "tmdb"
)

// Provider implements the provider.Provider interface for TMDB
type Provider struct {
	client      TMDBClient
	cache       *cache.Cache
	language    string
	apiKey      string
	rateLimiter *rateLimiter
}

// TMDBClient interface for testing (matches *tmdb.TMDb)
type TMDBClient interface {
	SearchMovie(name string, options map[string]string) (*tmdb.MovieSearchResults, error)
}

// New creates a new TMDB provider instance
func New() *Provider {
	return &Provider{
		language: "en-US",
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return providerName
}

// Description returns the provider description
func (p *Provider) Description() string {
	return "The Movie Database (TMDB) movie search"
}

// Capabilities returns what this provider can do
func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		MediaTypes:   []provider.MediaType{provider.MediaTypeMovie},
		RequiresAuth: true,
		Priority:     100,
	}
}

// Configure applies configuration to the provider
func (p *Provider) Configure(config map[string]interface{}) error {
	apiKey, ok := config["api_key"].(string)
	if !ok || strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("api_key is required")
	}
	p.apiKey = strings.TrimSpace(apiKey)

	if language, ok := config["language"].(string); ok && language != "" {
		p.language = language
	} else {
		p.language = "en-US"
	}

	// Allow a client to be injected before configuration (useful for tests).
	if p.client == nil {
		p.client = tmdb.Init(tmdb.Config{
			APIKey:   p.apiKey,
			Proxies:  nil,
			UseProxy: false,
		})
	}

	// Results are memoized for the lifetime of this run only and never written to disk.
	p.cache = cache.New(cache.NoExpiration, 10*time.Minute)

	p.rateLimiter = newRateLimiter(38, 10*time.Second) // 38 requests per 10 seconds

	return nil
}

// Close drops the in-memory result cache and releases the client.
func (p *Provider) Close() error {
	if p.cache != nil {
		p.cache.Flush()
	}
	p.client = nil
	return nil
}

// mapError maps TMDB errors to provider errors
func (p *Provider) mapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "unauthorized") {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     "AUTH_FAILED",
			Message:  "TMDB authentication failed: " + err.Error(),
		}
	}
	if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     "RATE_LIMITED",
			Message:  "TMDB rate limit exceeded",
		}
	}
	if strings.Contains(errStr, "503") || strings.Contains(errStr, "unavailable") {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     "UNAVAILABLE",
			Message:  "TMDB service unavailable",
		}
	}

	return &provider.ProviderError{
		Provider: providerName,
		Code:     "UNKNOWN",
		Message:  "TMDB error: " + err.Error(),
	}
}
