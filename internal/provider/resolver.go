package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Digital-Shane/movie-tidy/internal/media"
)

var (
	// ErrNoResults is returned when a lookup yields nothing usable.
	ErrNoResults = errors.New("no results")
	// ErrEmptyQuery is returned when there is nothing left to search for.
	ErrEmptyQuery = errors.New("empty query")
	// ErrInvalidYear is returned when the lookup result carries no usable year.
	ErrInvalidYear = errors.New("invalid release year")
)

// ResolutionError reports that a name could not be mapped to a movie identity,
// either because the lookup came back empty or the backend was unreachable.
type ResolutionError struct {
	Query    string
	Provider string
	Err      error
}

func (e *ResolutionError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("resolve %q: %v", e.Query, e.Err)
	}
	return fmt.Sprintf("resolve %q via %s: %v", e.Query, e.Provider, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Resolver maps a parsed name to a canonical movie identity through a single
// lookup provider. The first result returned by the provider is authoritative;
// there is no ranking or confidence threshold.
//
// A Resolver owns its provider session for the lifetime of a run; callers
// create one per batch and Close it when the batch ends.
type Resolver struct {
	provider Provider
	language string
}

// NewResolver binds a resolver to an already configured provider.
func NewResolver(p Provider, language string) *Resolver {
	return &Resolver{provider: p, language: language}
}

// Resolve looks up name and returns its identity.
func (r *Resolver) Resolve(ctx context.Context, name string) (media.Identity, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return media.Identity{}, &ResolutionError{Query: name, Provider: r.provider.Name(), Err: ErrEmptyQuery}
	}

	meta, err := r.provider.Fetch(ctx, FetchRequest{
		MediaType: MediaTypeMovie,
		Name:      query,
		Language:  r.language,
	})
	if err != nil {
		if IsNotFound(err) {
			err = fmt.Errorf("%w: %v", ErrNoResults, err)
		}
		return media.Identity{}, &ResolutionError{Query: query, Provider: r.provider.Name(), Err: err}
	}
	if meta == nil || strings.TrimSpace(meta.Title) == "" {
		return media.Identity{}, &ResolutionError{Query: query, Provider: r.provider.Name(), Err: ErrNoResults}
	}

	year, err := parseYear(meta.Year)
	if err != nil {
		return media.Identity{}, &ResolutionError{Query: query, Provider: r.provider.Name(), Err: err}
	}

	return media.Identity{Title: strings.TrimSpace(meta.Title), Year: year}, nil
}

// Close releases the provider session if the provider holds one.
func (r *Resolver) Close() error {
	if c, ok := r.provider.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func parseYear(value string) (int, error) {
	value = strings.TrimSpace(value)
	if len(value) != 4 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, value)
	}
	year, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, value)
	}
	return year, nil
}
