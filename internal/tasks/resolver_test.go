package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/desertthunder/lyrx/internal/services"
	"github.com/desertthunder/lyrx/internal/shared"
)

// mockCatalog implements [services.Catalog] from in-memory maps.
type mockCatalog struct {
	hits      map[string][]services.CatalogHit
	pages     map[string]string // api path -> page path
	documents map[string]string // page path -> html
	searchErr error
	pathErr   error
	docErr    error
	queries   []string
}

func (m *mockCatalog) Search(ctx context.Context, query string) ([]services.CatalogHit, error) {
	m.queries = append(m.queries, query)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.hits[query], nil
}

func (m *mockCatalog) PagePath(ctx context.Context, apiPath string) (string, error) {
	if m.pathErr != nil {
		return "", m.pathErr
	}
	path, ok := m.pages[apiPath]
	if !ok {
		return "", fmt.Errorf("%w: no page for %s", shared.ErrMalformedResponse, apiPath)
	}
	return path, nil
}

func (m *mockCatalog) Document(ctx context.Context, path string) (io.ReadCloser, error) {
	if m.docErr != nil {
		return nil, m.docErr
	}
	doc, ok := m.documents[path]
	if !ok {
		return nil, fmt.Errorf("%w: status 404 for %s", shared.ErrAPIRequest, path)
	}
	return io.NopCloser(strings.NewReader(doc)), nil
}

func hit(artist, apiPath string) services.CatalogHit {
	return services.CatalogHit{Title: "Song A", PrimaryArtistName: artist, APIPath: apiPath}
}

func TestTrackResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("Resolve", func(t *testing.T) {
		tests := []struct {
			name     string
			hits     []services.CatalogHit
			artist   string
			wantPath string
			wantErr  error
		}{
			{
				name:     "first match wins",
				hits:     []services.CatalogHit{hit("Band Y", "/songs/1"), hit("Band X", "/songs/2"), hit("Band X", "/songs/3")},
				artist:   "BAND X",
				wantPath: "/songs/2",
			},
			{
				name:     "credit with delimiter",
				hits:     []services.CatalogHit{hit("Artist X & Artist Y", "/songs/7")},
				artist:   "ARTIST X",
				wantPath: "/songs/7",
			},
			{
				name:     "credit is normalized",
				hits:     []services.CatalogHit{hit("  band x ", "/songs/4")},
				artist:   "BAND X",
				wantPath: "/songs/4",
			},
			{
				name:     "credit extends the artist",
				hits:     []services.CatalogHit{hit("Band X feat. Guest", "/songs/5")},
				artist:   "BAND X",
				wantPath: "/songs/5",
			},
			{
				name:    "second artist of a credit does not match",
				hits:    []services.CatalogHit{hit("Artist Y & Artist X", "/songs/8")},
				artist:  "ARTIST X",
				wantErr: shared.ErrResolutionNotFound,
			},
			{
				name:    "no matching artist",
				hits:    []services.CatalogHit{hit("Band Y", "/songs/1"), hit("Band Z", "/songs/2")},
				artist:  "BAND X",
				wantErr: shared.ErrResolutionNotFound,
			},
			{
				name:    "credit shorter than artist",
				hits:    []services.CatalogHit{hit("Band", "/songs/1")},
				artist:  "BAND X",
				wantErr: shared.ErrResolutionNotFound,
			},
			{
				name:    "zero hits",
				artist:  "BAND X",
				wantErr: shared.ErrResolutionNotFound,
			},
			{
				name:    "empty artist",
				hits:    []services.CatalogHit{hit("Band X", "/songs/1")},
				artist:  "",
				wantErr: shared.ErrResolutionNotFound,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				catalog := &mockCatalog{hits: map[string][]services.CatalogHit{"Song A": tt.hits}}
				got, err := NewTrackResolver(catalog).Resolve(ctx, "Song A", tt.artist)

				if tt.wantErr != nil {
					if !errors.Is(err, tt.wantErr) {
						t.Fatalf("expected %v, got %v", tt.wantErr, err)
					}
					if got != nil {
						t.Errorf("expected no hit, got %+v", got)
					}
					return
				}

				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if got.APIPath != tt.wantPath {
					t.Errorf("expected %s, got %s", tt.wantPath, got.APIPath)
				}
			})
		}
	})

	t.Run("Searches By Title", func(t *testing.T) {
		catalog := &mockCatalog{}
		_, _ = NewTrackResolver(catalog).Resolve(ctx, "Song A", "BAND X")

		if len(catalog.queries) != 1 || catalog.queries[0] != "Song A" {
			t.Errorf("expected a single search for the title, got %v", catalog.queries)
		}
	})

	t.Run("Search Error", func(t *testing.T) {
		catalog := &mockCatalog{searchErr: fmt.Errorf("%w: hit has no result", shared.ErrMalformedResponse)}
		_, err := NewTrackResolver(catalog).Resolve(ctx, "Song A", "BAND X")

		if !errors.Is(err, shared.ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})

	t.Run("Nil Searcher", func(t *testing.T) {
		_, err := NewTrackResolver(nil).Resolve(ctx, "Song A", "BAND X")
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestComparisonTarget(t *testing.T) {
	tests := []struct {
		name       string
		delimiters []string
		credit     string
		want       string
	}{
		{name: "no delimiter", credit: " Band X ", want: "BAND X"},
		{name: "default delimiter", credit: "Artist X & Artist Y", want: "ARTIST X"},
		{name: "leading delimiter", credit: "& Friends", want: ""},
		{name: "custom delimiters", delimiters: []string{"&", ","}, credit: "A, B & C", want: "A"},
		{name: "lowercase delimiter", delimiters: []string{" x "}, credit: "Band x Other", want: "BAND"},
		{name: "empty delimiters fall back", delimiters: []string{""}, credit: "A & B", want: "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTrackResolver(nil, tt.delimiters...)
			if got := r.comparisonTarget(tt.credit); got != tt.want {
				t.Errorf("comparisonTarget(%q) = %q, want %q", tt.credit, got, tt.want)
			}
		})
	}
}
