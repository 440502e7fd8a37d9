// Package server provides the local HTTP endpoint used by `lyrx auth spotify`.
//
// # Router Infrastructure
//
// [BasicRouter] implements [Router] on top of [http.ServeMux] with method
// filtering. [Middleware] is applied in reverse order (last added executes
// first); [Logging] reports each request through charmbracelet/log.
//
// # OAuth Callback Handler
//
// [OAuthHandler] completes the authorization code flow: it checks the state
// parameter, exchanges the code for a token and publishes exactly one
// [OAuthResult]. Later callbacks are rejected.
//
// # Lifecycle
//
// [Listen] starts a [CallbackServer] on the configured host and port (default
// 127.0.0.1:3000). The CLI waits on [OAuthHandler.Wait], stores the token in
// the config file and calls [CallbackServer.Shutdown].
package server
