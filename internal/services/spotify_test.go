package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/lyrx/internal/shared"
)

const trackPayload = `{
	"timestamp": 1700000000000,
	"progress_ms": 50000,
	"is_playing": true,
	"currently_playing_type": "track",
	"item": {
		"id": "abc",
		"name": "Song A",
		"type": "track",
		"duration_ms": 200000,
		"artists": [{"id": "t1", "name": "Band X feat. Guest"}],
		"album": {"id": "al1", "name": "Album", "artists": [{"id": "a1", "name": "  Band X "}]}
	}
}`

func newSpotifyTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/player/currently-playing" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test_access_token" {
			t.Errorf("expected bearer token header, got %q", got)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func authenticated(t *testing.T, baseURL string) *SpotifyService {
	t.Helper()
	srv := NewSpotifyService(SpotifyOpts{BaseURL: baseURL})
	if err := srv.Authenticate(context.Background(), map[string]string{"access_token": "test_access_token"}); err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	return srv
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("Defaults", func(t *testing.T) {
			srv := NewSpotifyService(SpotifyOpts{ClientID: "test_client_id"})

			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
			if srv.baseURL != spotifyBaseURL {
				t.Errorf("expected default base URL, got %s", srv.baseURL)
			}
			if srv.config.RedirectURL != defaultRedirectURI {
				t.Errorf("expected default redirect URI, got %s", srv.config.RedirectURL)
			}
		})

		t.Run("Get AuthURL", func(t *testing.T) {
			srv := NewSpotifyService(SpotifyOpts{ClientID: "test_client_id", ClientSecret: "secret"})

			authURL := srv.GetAuthURL("test_state")
			for _, want := range []string{"accounts.spotify.com", "test_client_id", "test_state", "user-read-currently-playing"} {
				if !strings.Contains(authURL, want) {
					t.Errorf("auth URL %q should contain %q", authURL, want)
				}
			}
			if srv.GetOAuthConfig() == nil {
				t.Error("expected oauth config")
			}

			var _ OAuthService = srv
			var _ PlaybackService = srv
		})
	})

	t.Run("Authenticate", func(t *testing.T) {
		srv := NewSpotifyService(SpotifyOpts{})

		t.Run("WithAccessToken", func(t *testing.T) {
			if err := srv.Authenticate(context.Background(), map[string]string{"access_token": "tok"}); err != nil {
				t.Fatalf("expected no error with access token, got %v", err)
			}
			if srv.token == nil || srv.token.AccessToken != "tok" {
				t.Errorf("expected token to be set, got %+v", srv.token)
			}
		})

		t.Run("Missing Credentials", func(t *testing.T) {
			err := srv.Authenticate(context.Background(), map[string]string{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})
	})

	t.Run("CurrentItem", func(t *testing.T) {
		t.Run("Not Authenticated", func(t *testing.T) {
			srv := NewSpotifyService(SpotifyOpts{BaseURL: "http://127.0.0.1:0"})
			_, err := srv.CurrentItem(context.Background())
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("Track", func(t *testing.T) {
			server := newSpotifyTestServer(t, http.StatusOK, trackPayload)
			defer server.Close()

			desc, err := authenticated(t, server.URL).CurrentItem(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if desc.Title != "Song A" {
				t.Errorf("expected title Song A, got %q", desc.Title)
			}
			if desc.NormalizedArtist != "BAND X" {
				t.Errorf("expected album artist BAND X, got %q", desc.NormalizedArtist)
			}
			if !desc.IsTrack() {
				t.Errorf("expected track type, got %q", desc.Type)
			}
			if desc.DurationMS != 200000 || desc.ProgressMS != 50000 {
				t.Errorf("unexpected timing %d/%d", desc.ProgressMS, desc.DurationMS)
			}
			if len(desc.Raw) == 0 {
				t.Error("expected raw payload to be kept")
			}
		})

		t.Run("Nothing Playing", func(t *testing.T) {
			server := newSpotifyTestServer(t, http.StatusNoContent, "")
			defer server.Close()

			_, err := authenticated(t, server.URL).CurrentItem(context.Background())
			if !errors.Is(err, shared.ErrNoActiveItem) {
				t.Errorf("expected ErrNoActiveItem, got %v", err)
			}
		})

		t.Run("Expired Token", func(t *testing.T) {
			server := newSpotifyTestServer(t, http.StatusUnauthorized, `{"error":{"status":401}}`)
			defer server.Close()

			_, err := authenticated(t, server.URL).CurrentItem(context.Background())
			if !errors.Is(err, shared.ErrTokenExpired) {
				t.Errorf("expected ErrTokenExpired, got %v", err)
			}
		})

		t.Run("Server Error", func(t *testing.T) {
			server := newSpotifyTestServer(t, http.StatusBadGateway, "")
			defer server.Close()

			_, err := authenticated(t, server.URL).CurrentItem(context.Background())
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})
}

func TestParseCurrentlyPlaying(t *testing.T) {
	tt := []struct {
		name       string
		body       string
		wantErr    error
		wantType   string
		wantArtist string
	}{
		{
			name:       "falls back to track artist",
			body:       `{"progress_ms":1,"currently_playing_type":"track","item":{"name":"S","duration_ms":2,"artists":[{"name":"solo"}]}}`,
			wantType:   "track",
			wantArtist: "SOLO",
		},
		{
			name:       "episode without album",
			body:       `{"progress_ms":1,"currently_playing_type":"episode","item":{"name":"Ep 1","duration_ms":60000,"show":{"publisher":"Pod Co"}}}`,
			wantType:   "episode",
			wantArtist: "POD CO",
		},
		{
			name:     "ad with null item",
			body:     `{"progress_ms":1000,"currently_playing_type":"ad","item":null}`,
			wantType: "ad",
		},
		{
			name:    "track without item",
			body:    `{"progress_ms":1,"currently_playing_type":"track","item":null}`,
			wantErr: shared.ErrMalformedResponse,
		},
		{
			name:    "track without artists",
			body:    `{"progress_ms":1,"currently_playing_type":"track","item":{"name":"S","duration_ms":2,"artists":[]}}`,
			wantErr: shared.ErrMalformedResponse,
		},
		{
			name:    "track without duration",
			body:    `{"progress_ms":1,"currently_playing_type":"track","item":{"name":"S","artists":[{"name":"a"}]}}`,
			wantErr: shared.ErrMalformedResponse,
		},
		{
			name:    "track without progress",
			body:    `{"currently_playing_type":"track","item":{"name":"S","duration_ms":2,"artists":[{"name":"a"}]}}`,
			wantErr: shared.ErrMalformedResponse,
		},
		{
			name:    "not json",
			body:    `<html>`,
			wantErr: shared.ErrMalformedResponse,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			desc, err := ParseCurrentlyPlaying([]byte(tc.body))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if desc.Type != tc.wantType {
				t.Errorf("type = %q, want %q", desc.Type, tc.wantType)
			}
			if desc.NormalizedArtist != tc.wantArtist {
				t.Errorf("artist = %q, want %q", desc.NormalizedArtist, tc.wantArtist)
			}
		})
	}
}
