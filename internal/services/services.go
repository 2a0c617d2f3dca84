package services

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// Provider defines the interface for a streaming provider supplying playback
// state and accepting playback-control commands.
type Provider interface {
	// Name returns the provider's display name (e.g., "Spotify").
	Name() string

	// Configured reports whether API credentials are present. When false the
	// widget reports itself as unconfigured instead of erroring.
	Configured() bool

	// AuthURL returns the authorization URL for the user-facing login redirect.
	AuthURL(state string) string

	// Exchange trades an authorization code for a token pair.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// Refresh exchanges a refresh credential for a new access credential.
	// On any failure (network error, non-success status, malformed response,
	// missing configuration) it returns ok=false, never an error: callers
	// treat refresh failure as "session invalid, user must re-authenticate".
	Refresh(ctx context.Context, refreshToken string) (accessToken string, ok bool)

	// NowPlaying queries current playback. A nil snapshot means "nothing to
	// report" and covers no-content, provider errors, and network failures
	// alike. Pure read, no side effects.
	NowPlaying(ctx context.Context, accessToken string) *PlaybackSnapshot

	// Volume reads the current volume from the active output device. A
	// no-content response yields a default of 50 with HasActiveDevice=false.
	// Other non-success statuses return a [*ProviderError].
	Volume(ctx context.Context, accessToken string) (*VolumeState, error)

	// SetVolume sets the volume on the active output device. A provider
	// not-found status maps to [shared.ErrNoActiveDevice]; other failures
	// return a [*ProviderError].
	SetVolume(ctx context.Context, accessToken string, percent int) error
}

// PlaybackSnapshot is a point-in-time read of playback state. Derived on
// every query, never cached between requests.
type PlaybackSnapshot struct {
	IsPlaying  bool
	Track      *TrackInfo
	ProgressMS int
}

// TrackInfo is an immutable snapshot of provider track data.
type TrackInfo struct {
	Title       string
	ArtistNames []string
	AlbumName   string
	AlbumArtURL string
	ExternalURL string
	DurationMS  int
}

// VolumeState is a point-in-time read of the active device's volume.
type VolumeState struct {
	Percent         int
	DeviceName      string
	DeviceType      string
	HasActiveDevice bool
}

// ProviderError carries a provider-derived HTTP status and message for
// failures that must be surfaced to the caller.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider error: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("provider error: status %d", e.Status)
}
