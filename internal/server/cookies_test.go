package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hexthorne/airwave/internal/session"
)

func TestCookieStore(t *testing.T) {
	t.Run("Get Reads Request Cookies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: "acc"})
		req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "ref"})

		store := NewCookieStore(httptest.NewRecorder(), req, false)

		pair := store.Get()
		if pair.AccessToken != "acc" || pair.RefreshToken != "ref" {
			t.Errorf("unexpected pair %+v", pair)
		}
	})

	t.Run("Get With No Cookies Is Absent", func(t *testing.T) {
		store := NewCookieStore(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), false)

		pair := store.Get()
		if pair.HasAccess() || pair.HasRefresh() {
			t.Errorf("expected empty pair, got %+v", pair)
		}
	})

	t.Run("Set Writes Both With Standard TTLs", func(t *testing.T) {
		rec := httptest.NewRecorder()
		store := NewCookieStore(rec, httptest.NewRequest(http.MethodGet, "/", nil), false)

		store.Set(session.CredentialPair{AccessToken: "acc", RefreshToken: "ref"})

		access := findCookie(t, rec, accessTokenCookie)
		if access == nil || access.MaxAge != int(session.AccessTokenTTL.Seconds()) {
			t.Errorf("unexpected access cookie %+v", access)
		}

		refresh := findCookie(t, rec, refreshTokenCookie)
		if refresh == nil || refresh.MaxAge != int(session.RefreshTokenTTL.Seconds()) {
			t.Errorf("unexpected refresh cookie %+v", refresh)
		}
	})

	t.Run("Secure Flag Follows Server Mode", func(t *testing.T) {
		for _, secure := range []bool{true, false} {
			rec := httptest.NewRecorder()
			store := NewCookieStore(rec, httptest.NewRequest(http.MethodGet, "/", nil), secure)

			store.SetAccess("acc")

			cookie := findCookie(t, rec, accessTokenCookie)
			if cookie == nil {
				t.Fatal("expected access cookie")
			}
			if cookie.Secure != secure {
				t.Errorf("secure=%v: cookie flag %v", secure, cookie.Secure)
			}
			if !cookie.HttpOnly {
				t.Error("cookie must be HttpOnly")
			}
		}
	})

	t.Run("Clear Expires Both", func(t *testing.T) {
		rec := httptest.NewRecorder()
		store := NewCookieStore(rec, httptest.NewRequest(http.MethodGet, "/", nil), false)

		store.Clear()

		for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
			cookie := findCookie(t, rec, name)
			if cookie == nil {
				t.Fatalf("expected %s to be written", name)
			}
			if cookie.Value != "" || cookie.MaxAge >= 0 {
				t.Errorf("expected %s expired, got %+v", name, cookie)
			}
		}
	})

	t.Run("Auth State Reads Once", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: authStateCookie, Value: "st"})

		store := NewCookieStore(rec, req, false)

		if got := store.AuthState(); got != "st" {
			t.Errorf("expected 'st', got %q", got)
		}

		// reading clears the cookie on the response
		cookie := findCookie(t, rec, authStateCookie)
		if cookie == nil || cookie.MaxAge >= 0 {
			t.Errorf("expected state cookie expired, got %+v", cookie)
		}
	})
}
