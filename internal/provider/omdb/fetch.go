package omdb

import (
	"context"
	"strings"

	"github.com/Digital-Shane/movie-tidy/internal/provider"
	"github.com/Digital-Shane/omdb"
)

// fetchMovie looks the title up as a movie and maps the single OMDb match.
func (p *Provider) fetchMovie(ctx context.Context, request provider.FetchRequest) (*provider.Metadata, error) {
	if strings.TrimSpace(request.Name) == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "INVALID_REQUEST",
			Message:  "movie lookup requires a title",
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result any
	result, err := p.client.SearchByTitle(omdb.QueryData{
		Title:      request.Name,
		SearchType: "movie",
	})
	if err != nil {
		return nil, p.mapError(err)
	}

	var movie omdb.MovieResult
	switch r := result.(type) {
	case omdb.MovieResult:
		movie = r
	case *omdb.MovieResult:
		movie = *r
	default:
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "NOT_FOUND",
			Message:  "movie not found",
		}
	}

	return &provider.Metadata{
		Title: movie.Title,
		Year:  omdb.FirstYear(movie.Year),
	}, nil
}
