package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/Digital-Shane/movie-tidy/internal/media"
	"github.com/google/go-cmp/cmp"
)

func TestResolver_Resolve(t *testing.T) {
	var gotReq FetchRequest
	mock := newMock("mock")
	mock.fetchFunc = func(ctx context.Context, req FetchRequest) (*Metadata, error) {
		gotReq = req
		return &Metadata{Title: "The Matrix", Year: "1999"}, nil
	}

	r := NewResolver(mock, "en-US")
	id, err := r.Resolve(context.Background(), "  The Matrix ")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if diff := cmp.Diff(media.Identity{Title: "The Matrix", Year: 1999}, id); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
	want := FetchRequest{MediaType: MediaTypeMovie, Name: "The Matrix", Language: "en-US"}
	if diff := cmp.Diff(want, gotReq); diff != "" {
		t.Errorf("FetchRequest mismatch (-want +got):\n%s", diff)
	}
}

func TestResolver_Errors(t *testing.T) {
	unreachable := errors.New("dial tcp: connection refused")

	tests := []struct {
		name    string
		query   string
		meta    *Metadata
		err     error
		wantErr error
	}{
		{
			name:    "EmptyQuery",
			query:   "   ",
			wantErr: ErrEmptyQuery,
		},
		{
			name:    "NotFound",
			query:   "Nothing",
			err:     &ProviderError{Provider: "mock", Code: "NOT_FOUND", Message: "no results"},
			wantErr: ErrNoResults,
		},
		{
			name:    "NilMetadata",
			query:   "Nothing",
			wantErr: ErrNoResults,
		},
		{
			name:    "Unreachable",
			query:   "Heat",
			err:     unreachable,
			wantErr: unreachable,
		},
		{
			name:    "MissingYear",
			query:   "Heat",
			meta:    &Metadata{Title: "Heat"},
			wantErr: ErrInvalidYear,
		},
		{
			name:    "BadYear",
			query:   "Heat",
			meta:    &Metadata{Title: "Heat", Year: "19x5"},
			wantErr: ErrInvalidYear,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock("mock")
			mock.fetchFunc = func(ctx context.Context, req FetchRequest) (*Metadata, error) {
				return tt.meta, tt.err
			}

			_, err := NewResolver(mock, "").Resolve(context.Background(), tt.query)
			var rerr *ResolutionError
			if !errors.As(err, &rerr) {
				t.Fatalf("Resolve() error = %v, want ResolutionError", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Resolve() error = %v, want wrapping %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolver_Close(t *testing.T) {
	mock := newMock("mock")
	if err := NewResolver(mock, "").Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !mock.closed {
		t.Error("Close() did not close the provider")
	}
}
