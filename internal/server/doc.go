// Package server provides the loopback HTTP plumbing for browser-based sign-in.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first).
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the authorization code callback: it validates the state parameter
// (CSRF protection), exchanges the code for a token and sends exactly one result through a
// channel. Later hits on the callback are rejected.
//
// # Callback Server
//
// When the user signs in with Google, [CallbackServer] listens on the configured host and port
// (127.0.0.1:3000 by default) until the callback arrives, then is shut down.
package server
