// package services defines the collaborator interfaces used by the sync loop and implements them over HTTP APIs
//
// Spotify (playback), Genius (lyrics catalog)
package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// ItemTypeTrack is the playback type of a regular song.
const ItemTypeTrack = "track"

// PlaybackService reports what the user is currently playing.
type PlaybackService interface {
	// CurrentItem returns the item being played.
	// Fails with [shared.ErrNoActiveItem] when nothing is playing and
	// [shared.ErrTokenExpired] when the bearer token is rejected.
	CurrentItem(ctx context.Context) (*TrackDescriptor, error)
}

// CatalogSearcher queries the lyrics catalog's search endpoint.
type CatalogSearcher interface {
	// Search returns hits in the order supplied by the catalog.
	Search(ctx context.Context, query string) ([]CatalogHit, error)
}

// CatalogMetadata resolves catalog API paths to human-facing page paths.
type CatalogMetadata interface {
	PagePath(ctx context.Context, apiPath string) (string, error)
}

// PageStore retrieves rendered pages. The caller closes the returned document.
type PageStore interface {
	Document(ctx context.Context, path string) (io.ReadCloser, error)
}

// Catalog bundles the three lyrics catalog capabilities.
type Catalog interface {
	CatalogSearcher
	CatalogMetadata
	PageStore
}

// OAuthService is implemented by providers that support the authorization code flow.
type OAuthService interface {
	GetAuthURL(state string) string
	GetOAuthConfig() *oauth2.Config
}

// TrackDescriptor is the currently playing item as reported by the playback service.
type TrackDescriptor struct {
	Title            string
	NormalizedArtist string          // trimmed & upper-cased
	Type             string          // "track", "episode", "ad", "unknown"
	DurationMS       int64           // zero when the service reports none
	ProgressMS       int64
	Raw              json.RawMessage `json:"-"`
}

// IsTrack reports whether the item is a regular song.
func (t *TrackDescriptor) IsTrack() bool {
	return t != nil && t.Type == ItemTypeTrack
}

// CatalogHit is one candidate from the catalog's search response.
type CatalogHit struct {
	Title             string          `json:"title"`
	PrimaryArtistName string          `json:"primary_artist"`
	APIPath           string          `json:"api_path"`
	Raw               json.RawMessage `json:"-"`
}

// bearerClient returns an [http.Client] that attaches token as a static bearer credential.
//
// The token is never refreshed. An empty token yields a plain client.
func bearerClient(token string, timeout time.Duration, base http.RoundTripper) *http.Client {
	if token == "" {
		return &http.Client{Timeout: timeout, Transport: base}
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   base,
		},
	}
}
