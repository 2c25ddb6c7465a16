package tmdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/Digital-Shane/movie-tidy/internal/provider"
	"github.com/patrickmn/go-cache"
	"github.com/ryanbradynd05/go-tmdb"
)

// Fetch searches TMDB for a movie and returns the first result.
func (p *Provider) Fetch(ctx context.Context, request provider.FetchRequest) (*provider.Metadata, error) {
	if p.client == nil {
		return nil, fmt.Errorf("provider not configured")
	}
	if request.MediaType != provider.MediaTypeMovie {
		return nil, fmt.Errorf("unsupported media type: %s", request.MediaType)
	}
	if strings.TrimSpace(request.Name) == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "INVALID_REQUEST",
			Message:  "movie search requires a title",
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cacheKey := p.buildCacheKey(request)
	if p.cache != nil {
		if cached, found := p.cache.Get(cacheKey); found {
			if meta, ok := cached.(*provider.Metadata); ok {
				return meta, nil
			}
		}
	}

	metadata, err := p.fetchMovie(ctx, request)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		p.cache.Set(cacheKey, metadata, cache.DefaultExpiration)
	}
	return metadata, nil
}

// fetchMovie runs the search and takes the first result as authoritative.
func (p *Provider) fetchMovie(ctx context.Context, request provider.FetchRequest) (*provider.Metadata, error) {
	options := map[string]string{
		"language": p.getLanguage(request),
	}

	if err := p.rateLimiter.wait(ctx); err != nil {
		return nil, err
	}

	results, err := p.client.SearchMovie(request.Name, options)
	if err != nil {
		return nil, p.mapError(err)
	}

	if results == nil || len(results.Results) == 0 {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "NOT_FOUND",
			Message:  fmt.Sprintf("no results found for movie: %s", request.Name),
		}
	}

	movie := results.Results[0]
	return movieSearchResultToMetadata(&movie), nil
}

func movieSearchResultToMetadata(movie *tmdb.MovieShort) *provider.Metadata {
	releaseYear := ""
	if len(movie.ReleaseDate) >= 4 {
		releaseYear = movie.ReleaseDate[:4]
	}
	return &provider.Metadata{Title: movie.Title, Year: releaseYear}
}

func (p *Provider) buildCacheKey(request provider.FetchRequest) string {
	parts := []string{
		string(request.MediaType),
		strings.ToLower(request.Name),
		p.getLanguage(request),
	}
	return strings.Join(parts, ":")
}

func (p *Provider) getLanguage(request provider.FetchRequest) string {
	if request.Language != "" {
		return request.Language
	}
	return p.language
}
