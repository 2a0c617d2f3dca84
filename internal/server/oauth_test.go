package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestOAuthHandler(t *testing.T) {
	exchange := func(ctx context.Context, code string) (*oauth2.Token, error) {
		if code == "good" {
			return &oauth2.Token{AccessToken: "acc", RefreshToken: "ref"}, nil
		}
		return nil, errors.New("bad code")
	}

	t.Run("Successful Callback", func(t *testing.T) {
		handler := NewOAuthHandler(exchange, "state123", "")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/spotify/callback?code=good&state=state123", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Authorization Successful") {
			t.Error("expected success page")
		}

		select {
		case result := <-handler.Result():
			if result.Error() != nil {
				t.Errorf("unexpected error: %v", result.Error())
			}
			if result.Token == nil || result.Token.AccessToken != "acc" {
				t.Errorf("unexpected token %+v", result.Token)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for result")
		}
	})

	t.Run("State Mismatch", func(t *testing.T) {
		handler := NewOAuthHandler(exchange, "state123", "")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/spotify/callback?code=good&state=wrong", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected an error result")
		}
	})

	t.Run("Denied Authorization", func(t *testing.T) {
		handler := NewOAuthHandler(exchange, "state123", "")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/spotify/callback?error=access_denied&state=state123", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected denial error, got %v", result.Error())
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		handler := NewOAuthHandler(exchange, "state123", "")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/spotify/callback?code=bad&state=state123", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected an error result")
		}
	})

	t.Run("Second Callback Is Rejected", func(t *testing.T) {
		handler := NewOAuthHandler(exchange, "state123", "")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/spotify/callback?code=good&state=state123", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("first callback failed with %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/spotify/callback?code=good&state=state123", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 on replay, got %d", rec.Code)
		}
	})

	t.Run("Default Path", func(t *testing.T) {
		handler := NewOAuthHandler(exchange, "state123", "")

		routes := handler.Routes()
		if len(routes) != 1 || routes[0] != "/api/spotify/callback" {
			t.Errorf("unexpected routes %v", routes)
		}
	})
}
