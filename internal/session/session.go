// Package session sequences credential handling around provider operations.
//
// Each inbound request walks a small state machine: no refresh credential
// means [NoSession]; a refresh credential without an access credential means
// [NeedsRefresh] and triggers exactly one refresh attempt; a present access
// credential is trusted as-is ([Authorized]) with no expiry bookkeeping —
// the provider rejects stale credentials itself and the next request with an
// absent access credential refreshes reactively. A failed refresh terminates
// in [SessionExpired] without touching the stored refresh credential.
package session

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hexthorne/airwave/internal/services"
	"github.com/hexthorne/airwave/internal/shared"
)

// Validity windows for the two credential entries. The access window matches
// the provider's fixed expires_in; the refresh credential is effectively
// permanent and capped at a year.
const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 365 * 24 * time.Hour
)

// CredentialPair holds the two opaque bearer secrets for a browser session.
// Either or both may be absent; absence is a common, valid state.
type CredentialPair struct {
	AccessToken  string
	RefreshToken string
}

// HasAccess reports whether an access credential is present.
func (p CredentialPair) HasAccess() bool { return p.AccessToken != "" }

// HasRefresh reports whether a refresh credential is present.
func (p CredentialPair) HasRefresh() bool { return p.RefreshToken != "" }

// CredentialStore abstracts per-session credential persistence. The HTTP
// server implements it over cookies; the CLI implements it over SQLite.
// Writes never fail across this boundary: implementations log and degrade
// to absence.
type CredentialStore interface {
	// Get returns the current pair, treating expired entries as absent.
	Get() CredentialPair

	// Set persists both entries with their standard validity windows.
	Set(pair CredentialPair)

	// SetAccess persists a new access credential with [AccessTokenTTL],
	// leaving the refresh credential untouched.
	SetAccess(token string)

	// Clear writes both entries with zero validity so they read as absent.
	Clear()
}

// State identifies the terminal or intermediate session state for a request.
type State int

const (
	// NoSession means no refresh credential is present (logged out).
	NoSession State = iota
	// NeedsRefresh means a refresh credential is present but no access credential.
	NeedsRefresh
	// Authorized means a usable access credential is in hand.
	Authorized
	// SessionExpired means a refresh was attempted and failed.
	SessionExpired
)

func (s State) String() string {
	switch s {
	case NoSession:
		return "no_session"
	case NeedsRefresh:
		return "needs_refresh"
	case Authorized:
		return "authorized"
	case SessionExpired:
		return "session_expired"
	default:
		return "unknown"
	}
}

// NowPlayingResponse is the unified payload for the now-playing read.
// Always delivered with a success status; failures degrade into the
// logged-out or nothing-playing shapes.
type NowPlayingResponse struct {
	IsPlaying  bool   `json:"isPlaying"`
	Configured bool   `json:"configured"`
	LoggedIn   bool   `json:"loggedIn"`
	Title      string `json:"title,omitempty"`
	Artist     string `json:"artist,omitempty"`
	Album      string `json:"album,omitempty"`
	AlbumArt   string `json:"albumArt,omitempty"`
	SongURL    string `json:"songUrl,omitempty"`
	Progress   *int   `json:"progress,omitempty"`
	Duration   *int   `json:"duration,omitempty"`
	Error      string `json:"error,omitempty"`
}

// SessionExpiredMessage is the human-readable re-authentication prompt.
const SessionExpiredMessage = "Session expired, please login again"

// Orchestrator sequences credential resolution, refresh, and provider calls,
// and shapes unified response payloads.
type Orchestrator struct {
	provider services.Provider
	logger   *log.Logger
}

// NewOrchestrator creates an orchestrator for the given provider.
func NewOrchestrator(provider services.Provider, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Orchestrator{provider: provider, logger: logger}
}

// authorize walks the session state machine and returns a usable access
// credential when the terminal state is [Authorized]. A successful refresh
// persists the new access credential before returning.
func (o *Orchestrator) authorize(ctx context.Context, store CredentialStore) (string, State) {
	pair := store.Get()

	if !pair.HasRefresh() {
		return "", NoSession
	}

	if pair.HasAccess() {
		return pair.AccessToken, Authorized
	}

	token, ok := o.provider.Refresh(ctx, pair.RefreshToken)
	if !ok {
		o.logger.Debug("token refresh failed", "state", SessionExpired)
		return "", SessionExpired
	}

	store.SetAccess(token)
	return token, Authorized
}

// NowPlaying resolves the session and queries current playback. Never
// returns an error: every failure path degrades to a structured response.
func (o *Orchestrator) NowPlaying(ctx context.Context, store CredentialStore) NowPlayingResponse {
	token, state := o.authorize(ctx, store)

	switch state {
	case NoSession:
		return NowPlayingResponse{Configured: o.provider.Configured()}
	case SessionExpired:
		return NowPlayingResponse{Configured: true, Error: SessionExpiredMessage}
	}

	snapshot := o.provider.NowPlaying(ctx, token)
	if snapshot == nil || snapshot.Track == nil {
		return NowPlayingResponse{Configured: true, LoggedIn: true}
	}

	track := snapshot.Track
	progress := snapshot.ProgressMS
	duration := track.DurationMS

	return NowPlayingResponse{
		IsPlaying:  snapshot.IsPlaying,
		Configured: true,
		LoggedIn:   true,
		Title:      track.Title,
		Artist:     strings.Join(track.ArtistNames, ", "),
		Album:      track.AlbumName,
		AlbumArt:   track.AlbumArtURL,
		SongURL:    track.ExternalURL,
		Progress:   &progress,
		Duration:   &duration,
	}
}

// Volume resolves the session and reads the current volume.
//
// Errors: [shared.ErrNotLoggedIn], [shared.ErrRefreshFailed], or a
// [*services.ProviderError] carrying the provider's status.
func (o *Orchestrator) Volume(ctx context.Context, store CredentialStore) (*services.VolumeState, error) {
	token, state := o.authorize(ctx, store)

	switch state {
	case NoSession:
		return nil, shared.ErrNotLoggedIn
	case SessionExpired:
		return nil, shared.ErrRefreshFailed
	}

	return o.provider.Volume(ctx, token)
}

// SetVolume validates and rounds the target volume, resolves the session,
// and mutates the active device. Returns the rounded percent that was (or
// would have been) transmitted.
//
// Out-of-range input is rejected with [shared.ErrInvalidVolume] before any
// network call. Other errors: [shared.ErrNotLoggedIn],
// [shared.ErrRefreshFailed], [shared.ErrNoActiveDevice], or a
// [*services.ProviderError].
func (o *Orchestrator) SetVolume(ctx context.Context, store CredentialStore, volume float64) (int, error) {
	if volume < 0 || volume > 100 || math.IsNaN(volume) {
		return 0, shared.ErrInvalidVolume
	}
	percent := int(math.Round(volume))

	token, state := o.authorize(ctx, store)

	switch state {
	case NoSession:
		return percent, shared.ErrNotLoggedIn
	case SessionExpired:
		return percent, shared.ErrRefreshFailed
	}

	if err := o.provider.SetVolume(ctx, token, percent); err != nil {
		return percent, err
	}

	return percent, nil
}

// Configured reports whether the underlying provider has credentials.
func (o *Orchestrator) Configured() bool {
	return o.provider.Configured()
}
