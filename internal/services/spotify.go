// Spotify implementation of [Provider]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hexthorne/airwave/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// spotifyScopes are the playback scopes the widget needs: passive reads of
// the current track and player state, plus volume mutation.
var spotifyScopes = []string{
	"user-read-currently-playing",
	"user-read-playback-state",
	"user-modify-playback-state",
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	Name string `json:"name"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	ExternalURLs externalURLs    `json:"external_urls"`
	DurationMS   int             `json:"duration_ms"`
}

// SpotifyNowPlaying represents the currently-playing response payload.
type SpotifyNowPlaying struct {
	IsPlaying  bool          `json:"is_playing"`
	Item       *SpotifyTrack `json:"item"`
	ProgressMS int           `json:"progress_ms"`
}

// SpotifyDevice represents the active playback device in a player-state response.
type SpotifyDevice struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	VolumePercent *int   `json:"volume_percent"`
}

// SpotifyPlayerState represents the player-state response payload.
type SpotifyPlayerState struct {
	Device *SpotifyDevice `json:"device"`
}

type spotifyTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

type spotifyErrorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyProvider implements [Provider] against the Spotify Web API.
type SpotifyProvider struct {
	conf       shared.SpotifyConfig
	oauth      *oauth2.Config
	httpClient *http.Client
	tokenURL   string
	baseURL    string
	logger     *log.Logger
}

// NewSpotifyProvider creates a Spotify provider from the given credentials.
// An unconfigured credential set is valid; [SpotifyProvider.Configured]
// reports false and every session resolves as unconfigured.
func NewSpotifyProvider(conf shared.SpotifyConfig, logger *log.Logger) *SpotifyProvider {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &SpotifyProvider{
		conf: conf,
		oauth: &oauth2.Config{
			ClientID:     conf.ClientID,
			ClientSecret: conf.ClientSecret,
			RedirectURL:  conf.RedirectURI,
			Scopes:       spotifyScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyAuthURL,
				TokenURL: spotifyTokenURL,
			},
		},
		httpClient: http.DefaultClient,
		tokenURL:   spotifyTokenURL,
		baseURL:    spotifyBaseURL,
		logger:     logger,
	}
}

func (s *SpotifyProvider) Name() string { return "Spotify" }

// Configured reports whether both client credentials are present.
func (s *SpotifyProvider) Configured() bool {
	return s.conf.Configured()
}

// AuthURL returns the authorization URL for user login.
// show_dialog forces the consent screen so the account can be switched.
func (s *SpotifyProvider) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
}

// Exchange trades an authorization code for a token pair.
func (s *SpotifyProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if !s.Configured() {
		return nil, shared.ErrNotConfigured
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}

	return token, nil
}

// Refresh performs a single refresh_token grant. The grant in use never
// rotates the refresh credential, so only the access credential is returned.
func (s *SpotifyProvider) Refresh(ctx context.Context, refreshToken string) (string, bool) {
	if !s.Configured() {
		return "", false
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", false
	}

	req.SetBasicAuth(s.conf.ClientID, s.conf.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Debugf("token refresh request failed: %v", err)
		return "", false
	}
	defer resp.Body.Close()

	var tr spotifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		s.logger.Debugf("token refresh decode failed: %v", err)
		return "", false
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || tr.AccessToken == "" {
		s.logger.Debugf("token refresh rejected: status %d", resp.StatusCode)
		return "", false
	}

	return tr.AccessToken, true
}

// NowPlaying queries the currently-playing endpoint. No-content, provider
// errors, and network failures all yield a nil snapshot.
func (s *SpotifyProvider) NowPlaying(ctx context.Context, accessToken string) *PlaybackSnapshot {
	resp, err := s.get(ctx, "/me/player/currently-playing", accessToken)
	if err != nil {
		s.logger.Debugf("now-playing request failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent || resp.StatusCode >= 400 {
		return nil
	}

	var payload SpotifyNowPlaying
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		s.logger.Debugf("now-playing decode failed: %v", err)
		return nil
	}

	snapshot := &PlaybackSnapshot{
		IsPlaying:  payload.IsPlaying,
		ProgressMS: payload.ProgressMS,
	}

	if payload.Item != nil {
		track := &TrackInfo{
			Title:       payload.Item.Name,
			AlbumName:   payload.Item.Album.Name,
			ExternalURL: payload.Item.ExternalURLs.Spotify,
			DurationMS:  payload.Item.DurationMS,
		}

		for _, artist := range payload.Item.Artists {
			track.ArtistNames = append(track.ArtistNames, artist.Name)
		}

		// First image is the largest resolution Spotify offers.
		if len(payload.Item.Album.Images) > 0 {
			track.AlbumArtURL = payload.Item.Album.Images[0].URL
		}

		snapshot.Track = track
	}

	return snapshot
}

// Volume reads the active device's volume from the player-state endpoint.
func (s *SpotifyProvider) Volume(ctx context.Context, accessToken string) (*VolumeState, error) {
	resp, err := s.get(ctx, "/me/player", accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	// No active playback device; the UI still needs a sane value.
	if resp.StatusCode == http.StatusNoContent {
		return &VolumeState{Percent: 50, HasActiveDevice: false}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{Status: resp.StatusCode, Message: "Failed to get player state"}
	}

	var state SpotifyPlayerState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	volume := &VolumeState{Percent: 50, HasActiveDevice: true}
	if state.Device != nil {
		volume.DeviceName = state.Device.Name
		volume.DeviceType = state.Device.Type
		if state.Device.VolumePercent != nil {
			volume.Percent = *state.Device.VolumePercent
		}
	}

	return volume, nil
}

// SetVolume sets the volume on the active output device.
func (s *SpotifyProvider) SetVolume(ctx context.Context, accessToken string, percent int) error {
	endpoint := fmt.Sprintf("%s/me/player/volume?volume_percent=%d", s.baseURL, percent)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		// The single most common and actionable failure: the user has no
		// device currently playing.
		return shared.ErrNoActiveDevice
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	}

	message := "Failed to set volume"
	var body spotifyErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error.Message != "" {
		message = body.Error.Message
	}

	return &ProviderError{Status: resp.StatusCode, Message: message}
}

// get performs an authenticated GET against the Spotify API.
func (s *SpotifyProvider) get(ctx context.Context, endpoint, accessToken string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}
