// Package server provides HTTP routing, middleware, and the widget's JSON API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally and
// dispatches per method so GET and PUT can share a path (the volume route).
//
// # Widget Routes
//
// [WidgetHandler] exposes the browser-facing API:
//
//	GET  /api/spotify          → now-playing payload (always 200)
//	GET  /api/spotify/volume   → current volume or provider-derived error
//	PUT  /api/spotify/volume   → set volume (400/401/404/5xx taxonomy)
//	GET  /api/spotify/login    → redirect to the provider consent screen
//	GET  /api/spotify/callback → code exchange, sets credential cookies
//	POST /api/spotify/logout   → clears credential cookies
//	GET  /api/spotify/logout   → clears cookies and redirects home
//	GET  /healthz              → liveness + configured flag
//
// Credentials live in HttpOnly cookies managed by [CookieStore]; handlers
// construct a store per exchange and hand it to the session orchestrator.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback for CLI
// flows: a temporary localhost server handles exactly one callback, sends
// the result through a channel, and the command persists the tokens locally.
package server
