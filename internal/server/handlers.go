package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/hexthorne/airwave/internal/services"
	"github.com/hexthorne/airwave/internal/session"
	"github.com/hexthorne/airwave/internal/shared"
)

// WidgetHandler serves the widget's JSON API: the now-playing read, volume
// read/write, and the login/callback/logout auth routes.
type WidgetHandler struct {
	orch     *session.Orchestrator
	provider services.Provider
	baseURL  string
	secure   bool
	logger   *log.Logger
}

// NewWidgetHandler creates the handler set for the widget routes.
// baseURL is where auth redirects land (the site hosting the widget).
func NewWidgetHandler(orch *session.Orchestrator, provider services.Provider, baseURL string, secure bool, logger *log.Logger) *WidgetHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	return &WidgetHandler{
		orch:     orch,
		provider: provider,
		baseURL:  baseURL,
		secure:   secure,
		logger:   logger,
	}
}

// volumeResponse is the volume-read payload.
type volumeResponse struct {
	Volume         int    `json:"volume"`
	DeviceName     string `json:"deviceName,omitempty"`
	DeviceType     string `json:"deviceType,omitempty"`
	NoActiveDevice bool   `json:"noActiveDevice,omitempty"`
}

// volumeSetRequest is the volume-write payload. A pointer distinguishes a
// missing field from an explicit zero.
type volumeSetRequest struct {
	Volume *float64 `json:"volume"`
}

type volumeSetResponse struct {
	Success bool `json:"success"`
	Volume  int  `json:"volume"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NowPlaying handles GET /api/spotify. Always answers 200: logged-out,
// expired-session, and provider failures are all structured payload shapes,
// because this route is passively polled and must degrade quietly.
func (h *WidgetHandler) NowPlaying(w http.ResponseWriter, r *http.Request) {
	store := NewCookieStore(w, r, h.secure)
	h.writeJSON(w, http.StatusOK, h.orch.NowPlaying(r.Context(), store))
}

// VolumeRead handles GET /api/spotify/volume.
func (h *WidgetHandler) VolumeRead(w http.ResponseWriter, r *http.Request) {
	store := NewCookieStore(w, r, h.secure)

	state, err := h.orch.Volume(r.Context(), store)
	if err != nil {
		h.writeVolumeError(w, err, "Failed to get volume")
		return
	}

	h.writeJSON(w, http.StatusOK, volumeResponse{
		Volume:         state.Percent,
		DeviceName:     state.DeviceName,
		DeviceType:     state.DeviceType,
		NoActiveDevice: !state.HasActiveDevice,
	})
}

// VolumeSet handles PUT /api/spotify/volume. Malformed or out-of-range input
// is rejected before any provider call.
func (h *WidgetHandler) VolumeSet(w http.ResponseWriter, r *http.Request) {
	store := NewCookieStore(w, r, h.secure)

	var req volumeSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Volume == nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Volume must be 0-100"})
		return
	}

	percent, err := h.orch.SetVolume(r.Context(), store, *req.Volume)
	if err != nil {
		h.writeVolumeError(w, err, "Failed to set volume")
		return
	}

	h.writeJSON(w, http.StatusOK, volumeSetResponse{Success: true, Volume: percent})
}

// writeVolumeError maps orchestrator errors onto the volume routes' status
// taxonomy. Volume mutation is an explicit user action, so unlike the
// now-playing read these fail loudly.
func (h *WidgetHandler) writeVolumeError(w http.ResponseWriter, err error, fallback string) {
	var pe *services.ProviderError

	switch {
	case errors.Is(err, shared.ErrInvalidVolume):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Volume must be 0-100"})
	case errors.Is(err, shared.ErrNotLoggedIn):
		h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Not logged in"})
	case errors.Is(err, shared.ErrRefreshFailed):
		h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Failed to refresh token"})
	case errors.Is(err, shared.ErrNoActiveDevice):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "No active device found"})
	case errors.As(err, &pe):
		h.writeJSON(w, pe.Status, errorResponse{Error: pe.Message})
	default:
		h.logger.Error("volume operation failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: fallback})
	}
}

// Login handles GET /api/spotify/login: generates a CSRF state, stashes it
// in a short-lived cookie, and redirects to the provider's consent screen.
func (h *WidgetHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.provider.Configured() {
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Spotify not configured"})
		return
	}

	state := shared.GenerateState()
	NewCookieStore(w, r, h.secure).SetAuthState(state)

	http.Redirect(w, r, h.provider.AuthURL(state), http.StatusFound)
}

// Callback handles GET /api/spotify/callback: validates state, exchanges the
// authorization code, persists the credential pair, and redirects back to
// the site. Every failure redirects with a spotify_error query parameter.
func (h *WidgetHandler) Callback(w http.ResponseWriter, r *http.Request) {
	store := NewCookieStore(w, r, h.secure)
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		h.redirectError(w, r, errParam)
		return
	}

	code := query.Get("code")
	if code == "" {
		h.redirectError(w, r, "no_code")
		return
	}

	if !h.provider.Configured() {
		h.redirectError(w, r, "not_configured")
		return
	}

	if state := query.Get("state"); state == "" || state != store.AuthState() {
		h.redirectError(w, r, "state_mismatch")
		return
	}

	token, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("token exchange failed", "error", err)
		h.redirectError(w, r, "token_error")
		return
	}

	store.Set(session.CredentialPair{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	})

	http.Redirect(w, r, h.baseURL+"/?spotify_connected=true", http.StatusFound)
}

// LogoutPost handles POST /api/spotify/logout: clears both credential cookies.
func (h *WidgetHandler) LogoutPost(w http.ResponseWriter, r *http.Request) {
	NewCookieStore(w, r, h.secure).Clear()
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// LogoutGet handles GET /api/spotify/logout: clears cookies and redirects home.
func (h *WidgetHandler) LogoutGet(w http.ResponseWriter, r *http.Request) {
	NewCookieStore(w, r, h.secure).Clear()
	http.Redirect(w, r, h.baseURL+"/", http.StatusFound)
}

// Health handles GET /healthz.
func (h *WidgetHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"configured": h.provider.Configured(),
	})
}

func (h *WidgetHandler) redirectError(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, h.baseURL+"/?spotify_error="+reason, http.StatusFound)
}

func (h *WidgetHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
