// Spotify Web API implementation of [PlaybackService]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/get-the-users-currently-playing-track
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/desertthunder/lyrx/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	defaultRedirectURI = "http://127.0.0.1:3000/callback"
)

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
}

type spotifyShow struct {
	Name      string `json:"name"`
	Publisher string `json:"publisher"`
}

// SpotifyItem is the playing item: a track, or an episode when Show is set.
type SpotifyItem struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      *SpotifyAlbum   `json:"album"`
	Show       *spotifyShow    `json:"show"`
	DurationMS *int64          `json:"duration_ms"`
}

// SpotifyCurrentlyPlaying is the payload of GET /me/player/currently-playing.
type SpotifyCurrentlyPlaying struct {
	Timestamp  int64        `json:"timestamp"`
	ProgressMS *int64       `json:"progress_ms"`
	IsPlaying  bool         `json:"is_playing"`
	Type       string       `json:"currently_playing_type"`
	Item       *SpotifyItem `json:"item"`
}

// SpotifyOpts configures a [SpotifyService].
type SpotifyOpts struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	BaseURL      string
	Timeout      time.Duration
	UserAgent    string
	Transport    http.RoundTripper // nil uses [http.DefaultTransport]
}

// SpotifyService implements [PlaybackService] and [OAuthService] for the Spotify Web API.
//
// Requests carry a caller-supplied bearer token; expired tokens are reported, never refreshed.
type SpotifyService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	baseURL    string
	timeout    time.Duration
	userAgent  string
	transport  http.RoundTripper
	httpClient *http.Client
}

// NewSpotifyService creates a new Spotify service. Call [SpotifyService.Authenticate] before requesting playback state.
func NewSpotifyService(opts SpotifyOpts) *SpotifyService {
	if opts.RedirectURI == "" {
		opts.RedirectURI = defaultRedirectURI
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}

	config := &oauth2.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		RedirectURL:  opts.RedirectURI,
		Scopes:       []string{"user-read-currently-playing"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:    config,
		baseURL:   opts.BaseURL,
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		transport: opts.Transport,
	}
}

// Authenticate installs a bearer token. Expects either an "access_token" or an "auth_code" to exchange.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken := credentials["access_token"]; accessToken != "" {
		s.setToken(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
		return nil
	}

	if authCode := credentials["auth_code"]; authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
		}
		s.setToken(token)
		return nil
	}

	return fmt.Errorf("%w: missing access_token or auth_code", shared.ErrMissingCredentials)
}

func (s *SpotifyService) setToken(token *oauth2.Token) {
	s.token = token
	s.httpClient = bearerClient(token.AccessToken, s.timeout, s.transport)
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// GetOAuthConfig exposes the OAuth2 configuration for the callback handler.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// doRequest performs an authenticated GET against the Spotify API and returns the status code and body.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string) (int, []byte, error) {
	if s.token == nil {
		return 0, nil, fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return resp.StatusCode, nil, fmt.Errorf("%w: spotify returned status 401", shared.ErrTokenExpired)
	case resp.StatusCode == http.StatusForbidden:
		return resp.StatusCode, nil, fmt.Errorf("%w: spotify returned status 403", shared.ErrAuthFailed)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return resp.StatusCode, nil, fmt.Errorf("%w: spotify API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	return resp.StatusCode, body, nil
}

// CurrentItem retrieves the user's currently playing item.
func (s *SpotifyService) CurrentItem(ctx context.Context) (*TrackDescriptor, error) {
	status, body, err := s.doRequest(ctx, "/me/player/currently-playing")
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent || len(body) == 0 {
		return nil, shared.ErrNoActiveItem
	}

	return ParseCurrentlyPlaying(body)
}

// ParseCurrentlyPlaying converts a currently-playing payload into a [TrackDescriptor].
//
// Tracks must carry a name, an artist, a duration and a progress; anything less is [shared.ErrMalformedResponse].
// Other item types are returned with whatever they carry.
func ParseCurrentlyPlaying(body []byte) (*TrackDescriptor, error) {
	var payload SpotifyCurrentlyPlaying
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}

	desc := &TrackDescriptor{Type: payload.Type, Raw: json.RawMessage(body)}
	if desc.Type == "" {
		desc.Type = "unknown"
	}
	if payload.ProgressMS != nil {
		desc.ProgressMS = *payload.ProgressMS
	}

	item := payload.Item
	if item != nil {
		desc.Title = item.Name
		if item.DurationMS != nil {
			desc.DurationMS = *item.DurationMS
		}
	}

	if !desc.IsTrack() {
		if item != nil && item.Show != nil {
			desc.NormalizedArtist = shared.NormalizeArtist(item.Show.Publisher)
		}
		return desc, nil
	}

	switch {
	case item == nil:
		return nil, fmt.Errorf("%w: track payload has no item", shared.ErrMalformedResponse)
	case item.Name == "":
		return nil, fmt.Errorf("%w: track has no name", shared.ErrMalformedResponse)
	case item.DurationMS == nil:
		return nil, fmt.Errorf("%w: track has no duration_ms", shared.ErrMalformedResponse)
	case payload.ProgressMS == nil:
		return nil, fmt.Errorf("%w: payload has no progress_ms", shared.ErrMalformedResponse)
	}

	artist := primaryArtist(item)
	if artist == "" {
		return nil, fmt.Errorf("%w: track %q has no artist", shared.ErrMalformedResponse, item.Name)
	}
	desc.NormalizedArtist = shared.NormalizeArtist(artist)

	return desc, nil
}

// primaryArtist prefers the album's first credited artist, falling back to the track's.
func primaryArtist(item *SpotifyItem) string {
	if item.Album != nil && len(item.Album.Artists) > 0 && item.Album.Artists[0].Name != "" {
		return item.Album.Artists[0].Name
	}
	if len(item.Artists) > 0 {
		return item.Artists[0].Name
	}
	return ""
}
