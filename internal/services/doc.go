// Package services defines the collaborators consumed by the sync loop and implements them for Spotify and Genius.
//
// # Collaborator Interfaces
//
//   - [PlaybackService] : what is playing right now ([TrackDescriptor])
//   - [CatalogSearcher] : ordered search hits ([CatalogHit])
//   - [CatalogMetadata] : API path → page path
//   - [PageStore] : rendered page documents
//
// [Catalog] bundles the last three.
//
// # Spotify Implementation
//
// [SpotifyService] reads GET /me/player/currently-playing with a bearer token
// installed through [SpotifyService.Authenticate]. The token is attached by an
// [oauth2.Transport] over a static token source; it is never refreshed, and a
// 401 surfaces as [shared.ErrTokenExpired]. It also implements [OAuthService]
// so the CLI can acquire a token with the authorization code flow.
//
// # Genius Implementation
//
// [GeniusService] searches and resolves song metadata against api.genius.com
// with a client access token, and downloads song pages from genius.com without
// credentials. All requests share one [rate.Limiter].
//
// # Error Handling
//
//   - [shared.ErrNoActiveItem] : nothing is playing (204)
//   - [shared.ErrTokenExpired] / [shared.ErrAuthFailed] : credential rejected
//   - [shared.ErrMalformedResponse] : an expected field is absent
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//
// Per-request timeouts are set on the underlying [http.Client].
package services
