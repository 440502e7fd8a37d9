// Genius implementation of [Catalog]
//
// Search and song metadata come from the authenticated API (api.genius.com);
// rendered song pages come from the public site (genius.com) without credentials.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/lyrx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	geniusAPIURL = "https://api.genius.com"
	geniusWebURL = "https://genius.com"
)

type geniusArtist struct {
	Name *string `json:"name"`
}

type geniusSong struct {
	Title         string        `json:"title"`
	APIPath       string        `json:"api_path"`
	Path          string        `json:"path"`
	PrimaryArtist *geniusArtist `json:"primary_artist"`
}

type geniusHit struct {
	Type   string      `json:"type"`
	Result *geniusSong `json:"result"`
}

type geniusSearchResponse struct {
	Response *struct {
		Hits *[]json.RawMessage `json:"hits"`
	} `json:"response"`
}

type geniusSongResponse struct {
	Response *struct {
		Song *geniusSong `json:"song"`
	} `json:"response"`
}

// GeniusOpts configures a [GeniusService].
type GeniusOpts struct {
	AccessToken string
	APIURL      string
	WebURL      string
	Timeout     time.Duration
	RateLimit   float64 // requests per second, <= 0 disables throttling
	UserAgent   string
	Transport   http.RoundTripper // nil uses [http.DefaultTransport]
}

// GeniusService implements [Catalog] against Genius.
type GeniusService struct {
	apiURL    string
	webURL    string
	userAgent string
	api       *http.Client
	web       *http.Client
	limiter   *rate.Limiter
}

// NewGeniusService creates a Genius client. The access token is required for search and metadata.
func NewGeniusService(opts GeniusOpts) (*GeniusService, error) {
	if opts.AccessToken == "" {
		return nil, fmt.Errorf("%w: genius access_token", shared.ErrMissingCredentials)
	}
	if opts.APIURL == "" {
		opts.APIURL = geniusAPIURL
	}
	if opts.WebURL == "" {
		opts.WebURL = geniusWebURL
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &GeniusService{
		apiURL:    strings.TrimRight(opts.APIURL, "/"),
		webURL:    strings.TrimRight(opts.WebURL, "/"),
		userAgent: opts.UserAgent,
		api:       bearerClient(opts.AccessToken, opts.Timeout, opts.Transport),
		web:       bearerClient("", opts.Timeout, opts.Transport),
		limiter:   limiter,
	}, nil
}

func (g *GeniusService) Name() string {
	return "Genius"
}

// get performs a throttled GET and returns the response when the status is 2xx.
func (g *GeniusService) get(ctx context.Context, client *http.Client, rawURL string) (*http.Response, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: genius returned status 401", shared.ErrAuthFailed)
		}
		return nil, fmt.Errorf("%w: genius error: status %d for %s", shared.ErrAPIRequest, resp.StatusCode, req.URL.Path)
	}

	return resp, nil
}

func (g *GeniusService) getJSON(ctx context.Context, rawURL string, result any) error {
	resp, err := g.get(ctx, g.api, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrMalformedResponse, err)
	}
	return nil
}

// Search queries GET /search?q= and returns hits in catalog order.
func (g *GeniusService) Search(ctx context.Context, query string) ([]CatalogHit, error) {
	var payload geniusSearchResponse
	if err := g.getJSON(ctx, g.apiURL+"/search?q="+url.QueryEscape(query), &payload); err != nil {
		return nil, err
	}

	if payload.Response == nil || payload.Response.Hits == nil {
		return nil, fmt.Errorf("%w: search payload has no response.hits", shared.ErrMalformedResponse)
	}

	raw := *payload.Response.Hits
	hits := make([]CatalogHit, 0, len(raw))
	for i, r := range raw {
		hit, err := parseHit(r)
		if err != nil {
			return nil, fmt.Errorf("hit %d: %w", i, err)
		}
		hits = append(hits, hit)
	}

	return hits, nil
}

func parseHit(raw json.RawMessage) (CatalogHit, error) {
	var h geniusHit
	if err := json.Unmarshal(raw, &h); err != nil {
		return CatalogHit{}, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}

	switch {
	case h.Result == nil:
		return CatalogHit{}, fmt.Errorf("%w: hit has no result", shared.ErrMalformedResponse)
	case h.Result.PrimaryArtist == nil || h.Result.PrimaryArtist.Name == nil:
		return CatalogHit{}, fmt.Errorf("%w: hit has no primary_artist.name", shared.ErrMalformedResponse)
	case h.Result.APIPath == "":
		return CatalogHit{}, fmt.Errorf("%w: hit has no api_path", shared.ErrMalformedResponse)
	}

	return CatalogHit{
		Title:             h.Result.Title,
		PrimaryArtistName: *h.Result.PrimaryArtist.Name,
		APIPath:           h.Result.APIPath,
		Raw:               raw,
	}, nil
}

// PagePath resolves an API path such as "/songs/378195" to the song's page path.
func (g *GeniusService) PagePath(ctx context.Context, apiPath string) (string, error) {
	if !strings.HasPrefix(apiPath, "/") {
		return "", fmt.Errorf("%w: api path %q must start with /", shared.ErrInvalidInput, apiPath)
	}

	var payload geniusSongResponse
	if err := g.getJSON(ctx, g.apiURL+apiPath, &payload); err != nil {
		return "", err
	}

	if payload.Response == nil || payload.Response.Song == nil || payload.Response.Song.Path == "" {
		return "", fmt.Errorf("%w: song payload has no response.song.path", shared.ErrMalformedResponse)
	}

	return payload.Response.Song.Path, nil
}

// Document fetches the rendered page at path from the public site.
func (g *GeniusService) Document(ctx context.Context, path string) (io.ReadCloser, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	resp, err := g.get(ctx, g.web, g.webURL+path)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
