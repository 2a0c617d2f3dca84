// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"

	"github.com/hexthorne/airwave/internal/services"
	"github.com/hexthorne/airwave/internal/session"
	"golang.org/x/oauth2"
)

// MockProvider is a configurable test double for [services.Provider].
// Unset function fields fall back to inert defaults, and call counters
// record how often each operation was reached.
type MockProvider struct {
	ConfiguredValue bool

	AuthURLFunc   func(state string) string
	ExchangeFunc  func(ctx context.Context, code string) (*oauth2.Token, error)
	RefreshFunc   func(ctx context.Context, refreshToken string) (string, bool)
	NowPlayingFn  func(ctx context.Context, accessToken string) *services.PlaybackSnapshot
	VolumeFunc    func(ctx context.Context, accessToken string) (*services.VolumeState, error)
	SetVolumeFunc func(ctx context.Context, accessToken string, percent int) error

	RefreshCalls    int
	NowPlayingCalls int
	VolumeCalls     int
	SetVolumeCalls  int

	LastAccessToken string
	LastPercent     int
}

func (m *MockProvider) Name() string     { return "mock" }
func (m *MockProvider) Configured() bool { return m.ConfiguredValue }

func (m *MockProvider) AuthURL(state string) string {
	if m.AuthURLFunc != nil {
		return m.AuthURLFunc(state)
	}
	return "https://accounts.example.com/authorize?state=" + state
}

func (m *MockProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	return nil, errors.New("exchange not configured")
}

func (m *MockProvider) Refresh(ctx context.Context, refreshToken string) (string, bool) {
	m.RefreshCalls++
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return "", false
}

func (m *MockProvider) NowPlaying(ctx context.Context, accessToken string) *services.PlaybackSnapshot {
	m.NowPlayingCalls++
	m.LastAccessToken = accessToken
	if m.NowPlayingFn != nil {
		return m.NowPlayingFn(ctx, accessToken)
	}
	return nil
}

func (m *MockProvider) Volume(ctx context.Context, accessToken string) (*services.VolumeState, error) {
	m.VolumeCalls++
	m.LastAccessToken = accessToken
	if m.VolumeFunc != nil {
		return m.VolumeFunc(ctx, accessToken)
	}
	return &services.VolumeState{Percent: 50, HasActiveDevice: true}, nil
}

func (m *MockProvider) SetVolume(ctx context.Context, accessToken string, percent int) error {
	m.SetVolumeCalls++
	m.LastAccessToken = accessToken
	m.LastPercent = percent
	if m.SetVolumeFunc != nil {
		return m.SetVolumeFunc(ctx, accessToken, percent)
	}
	return nil
}

// MemoryStore is an in-memory [session.CredentialStore] with write counters.
type MemoryStore struct {
	Pair           session.CredentialPair
	SetCalls       int
	SetAccessCalls int
	ClearCalls     int
}

func (s *MemoryStore) Get() session.CredentialPair { return s.Pair }

func (s *MemoryStore) Set(pair session.CredentialPair) {
	s.SetCalls++
	s.Pair = pair
}

func (s *MemoryStore) SetAccess(token string) {
	s.SetAccessCalls++
	s.Pair.AccessToken = token
}

func (s *MemoryStore) Clear() {
	s.ClearCalls++
	s.Pair = session.CredentialPair{}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}
