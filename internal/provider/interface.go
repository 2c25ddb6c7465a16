package provider

import (
	"context"
	"errors"
)

// MediaType represents the type of media content
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
)

// Provider is the interface that all title lookup providers must implement
type Provider interface {
	Name() string
	// Description is a one line summary shown by "config show".
	Description() string
	Capabilities() ProviderCapabilities
	Configure(config map[string]interface{}) error
	Fetch(ctx context.Context, request FetchRequest) (*Metadata, error)
}

// ProviderCapabilities describes what a provider can do
type ProviderCapabilities struct {
	MediaTypes   []MediaType // What media types are supported
	RequiresAuth bool        // Whether authentication is required
	Priority     int         // Default priority for this provider (higher = preferred)
}

// FetchRequest is a title lookup query.
type FetchRequest struct {
	MediaType MediaType
	Name      string
	Language  string // Preferred language, empty for the provider default
}

// Metadata is the canonical title and release year of the best match.
type Metadata struct {
	Title string
	Year  string
}

// ProviderError represents an error from a provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a provider NOT_FOUND error.
func IsNotFound(err error) bool {
	var perr *ProviderError
	if !errors.As(err, &perr) {
		return false
	}
	return perr.Code == "NOT_FOUND"
}
