package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/andybalholm/cascadia"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override credentials from the config file.
const (
	EnvSpotifyToken = "LYRX_SPOTIFY_TOKEN"
	EnvGeniusToken  = "LYRX_GENIUS_TOKEN"
)

// Policies for the sync loop.
const (
	OnNotFoundStop = "stop"
	OnNotFoundSkip = "skip"

	NonTrackWait    = "wait"
	NonTrackResolve = "resolve"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Playback    PlaybackConfig    `toml:"playback"`
	HTTP        HTTPConfig        `toml:"http"`
	Database    DatabaseConfig    `toml:"database"`
	History     HistoryConfig     `toml:"history"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	Genius  GeniusConfig  `toml:"genius"`
}

// SpotifyConfig contains Spotify API credentials.
//
// ClientID and ClientSecret are only needed by `lyrx auth spotify`; the sync loop uses AccessToken.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	AccessToken  string `toml:"access_token"`
}

// GeniusConfig contains the Genius API client access token.
type GeniusConfig struct {
	AccessToken string `toml:"access_token"`
}

// CatalogConfig describes the lyrics catalog endpoints and the page marker used for scraping.
type CatalogConfig struct {
	APIURL           string   `toml:"api_url"`
	WebURL           string   `toml:"web_url"`
	LyricsSelector   string   `toml:"lyrics_selector"`
	ArtistDelimiters []string `toml:"artist_delimiters"`
	RateLimit        float64  `toml:"rate_limit"`
}

// PlaybackConfig contains playback service settings and sync loop policies.
type PlaybackConfig struct {
	APIURL          string `toml:"api_url"`
	OnNotFound      string `toml:"on_not_found"`
	NonTrack        string `toml:"non_track"`
	IdlePollSeconds int    `toml:"idle_poll_seconds"`
	ShowHeader      bool   `toml:"show_header"`
}

// HTTPConfig contains transport settings shared by all outbound clients.
type HTTPConfig struct {
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// HistoryConfig toggles recording of play outcomes.
type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

// ServerConfig contains settings for the local OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Map returns the credentials in the form accepted by the Spotify service constructor.
func (s SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  s.RedirectURI,
		"access_token":  s.AccessToken,
	}
}

// Token returns the stored access token as an [oauth2.Token].
func (s SpotifyConfig) Token() *oauth2.Token {
	return &oauth2.Token{AccessToken: s.AccessToken, TokenType: "Bearer"}
}

// Update stores a freshly acquired token.
func (s *SpotifyConfig) Update(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidCredentials)
	}
	s.AccessToken = token.AccessToken
	return nil
}

// Timeout returns the per-request timeout as a [time.Duration].
func (h HTTPConfig) Timeout() time.Duration {
	if h.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// IdlePoll returns the wait used for items that carry no duration.
func (p PlaybackConfig) IdlePoll() time.Duration {
	if p.IdlePollSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(p.IdlePollSeconds) * time.Second
}

// ApplyEnv overrides access tokens with values from the environment when present.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvSpotifyToken); v != "" {
		c.Credentials.Spotify.AccessToken = v
	}
	if v := os.Getenv(EnvGeniusToken); v != "" {
		c.Credentials.Genius.AccessToken = v
	}
}

// Validate checks policy values and required endpoints.
func (c *Config) Validate() error {
	switch c.Playback.OnNotFound {
	case OnNotFoundStop, OnNotFoundSkip:
	default:
		return fmt.Errorf("%w: playback.on_not_found must be %q or %q, got %q",
			ErrInvalidConfig, OnNotFoundStop, OnNotFoundSkip, c.Playback.OnNotFound)
	}

	switch c.Playback.NonTrack {
	case NonTrackWait, NonTrackResolve:
	default:
		return fmt.Errorf("%w: playback.non_track must be %q or %q, got %q",
			ErrInvalidConfig, NonTrackWait, NonTrackResolve, c.Playback.NonTrack)
	}

	if c.Catalog.LyricsSelector == "" {
		return fmt.Errorf("%w: catalog.lyrics_selector is empty", ErrInvalidConfig)
	}
	if _, err := cascadia.Compile(c.Catalog.LyricsSelector); err != nil {
		return fmt.Errorf("%w: catalog.lyrics_selector: %v", ErrInvalidConfig, err)
	}
	if c.Catalog.APIURL == "" || c.Catalog.WebURL == "" || c.Playback.APIURL == "" {
		return fmt.Errorf("%w: service URLs must be set", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig encodes the configuration as TOML and writes it to path.
func SaveConfig(path string, config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
