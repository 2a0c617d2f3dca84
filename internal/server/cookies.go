package server

import (
	"net/http"

	"github.com/hexthorne/airwave/internal/session"
)

// Cookie names for the persisted credential entries and the OAuth state.
const (
	accessTokenCookie  = "spotify_access_token"
	refreshTokenCookie = "spotify_refresh_token"
	authStateCookie    = "spotify_auth_state"
)

// authStateTTLSeconds bounds how long a login redirect may take.
const authStateTTLSeconds = 600

// CookieStore implements [session.CredentialStore] over HTTP cookies for a
// single request/response exchange. Entries are HttpOnly (not script
// readable), SameSite=Lax, and Secure when the server runs behind TLS.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
}

// NewCookieStore creates a store bound to one request/response pair.
func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{w: w, r: r, secure: secure}
}

// Get reads both credential entries from the request. The browser drops
// expired cookies itself, so a missing cookie is the only absence signal.
func (c *CookieStore) Get() session.CredentialPair {
	var pair session.CredentialPair

	if cookie, err := c.r.Cookie(accessTokenCookie); err == nil {
		pair.AccessToken = cookie.Value
	}
	if cookie, err := c.r.Cookie(refreshTokenCookie); err == nil {
		pair.RefreshToken = cookie.Value
	}

	return pair
}

// Set persists both entries with their standard validity windows.
func (c *CookieStore) Set(pair session.CredentialPair) {
	c.write(accessTokenCookie, pair.AccessToken, int(session.AccessTokenTTL.Seconds()))
	c.write(refreshTokenCookie, pair.RefreshToken, int(session.RefreshTokenTTL.Seconds()))
}

// SetAccess persists a new access credential, leaving the refresh entry untouched.
func (c *CookieStore) SetAccess(token string) {
	c.write(accessTokenCookie, token, int(session.AccessTokenTTL.Seconds()))
}

// Clear writes both entries with zero validity so they read as absent.
func (c *CookieStore) Clear() {
	c.write(accessTokenCookie, "", -1)
	c.write(refreshTokenCookie, "", -1)
}

// SetAuthState writes the short-lived OAuth state cookie.
func (c *CookieStore) SetAuthState(state string) {
	c.write(authStateCookie, state, authStateTTLSeconds)
}

// AuthState reads and clears the OAuth state cookie.
func (c *CookieStore) AuthState() string {
	cookie, err := c.r.Cookie(authStateCookie)
	if err != nil {
		return ""
	}
	c.write(authStateCookie, "", -1)
	return cookie.Value
}

func (c *CookieStore) write(name, value string, maxAge int) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
