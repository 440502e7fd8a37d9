package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/lyrx/internal/index"
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/desertthunder/lyrx/internal/shared"
)

// DefaultArtistDelimiter separates co-credited artists in a catalog credit.
const DefaultArtistDelimiter = "&"

// TrackResolver picks the catalog hit that belongs to the playing artist.
type TrackResolver struct {
	searcher   services.CatalogSearcher
	delimiters []string
}

// NewTrackResolver creates a resolver over searcher. Empty delimiters are ignored;
// with none left the resolver splits credits on [DefaultArtistDelimiter].
func NewTrackResolver(searcher services.CatalogSearcher, delimiters ...string) *TrackResolver {
	ds := make([]string, 0, len(delimiters))
	for _, d := range delimiters {
		if d != "" {
			ds = append(ds, strings.ToUpper(d))
		}
	}
	if len(ds) == 0 {
		ds = []string{DefaultArtistDelimiter}
	}
	return &TrackResolver{searcher: searcher, delimiters: ds}
}

// Resolve searches the catalog for title and returns the first hit whose
// primary artist matches normalizedArtist.
//
// Hits are tried in catalog order and the first match wins, even when a
// later hit would match as well. Returns [shared.ErrResolutionNotFound] when
// nothing matches.
func (r *TrackResolver) Resolve(ctx context.Context, title, normalizedArtist string) (*services.CatalogHit, error) {
	if r.searcher == nil {
		return nil, fmt.Errorf("%w: catalog search not configured", shared.ErrServiceUnavailable)
	}

	if title == "" || normalizedArtist == "" {
		return nil, fmt.Errorf("%w: item has no title or artist", shared.ErrResolutionNotFound)
	}

	artists := index.New()
	artists.Insert(normalizedArtist)

	hits, err := r.searcher.Search(ctx, title)
	if err != nil {
		return nil, err
	}

	for i := range hits {
		if artists.Contains(r.comparisonTarget(hits[i].PrimaryArtistName)) {
			hit := hits[i]
			return &hit, nil
		}
	}

	return nil, fmt.Errorf("%w: %q by %s (%d hits)", shared.ErrResolutionNotFound, title, normalizedArtist, len(hits))
}

// comparisonTarget normalizes a credit and cuts it at the earliest delimiter.
func (r *TrackResolver) comparisonTarget(credit string) string {
	target := shared.NormalizeArtist(credit)

	cut := -1
	for _, d := range r.delimiters {
		if i := strings.Index(target, d); i >= 0 && (cut < 0 || i < cut) {
			cut = i
		}
	}
	if cut < 0 {
		return target
	}
	return strings.TrimSpace(target[:cut])
}
