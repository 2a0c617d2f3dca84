package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrNotConfigured      = fmt.Errorf("spotify credentials not configured")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Session errors
	ErrNotLoggedIn    = fmt.Errorf("not logged in")
	ErrSessionExpired = fmt.Errorf("session expired")
	ErrRefreshFailed  = fmt.Errorf("token refresh failed")
	ErrAuthFailed     = fmt.Errorf("authentication failed")
	ErrTimeout        = fmt.Errorf("operation timed out")

	// Playback errors
	ErrNoActiveDevice = fmt.Errorf("no active device found")
	ErrInvalidVolume  = fmt.Errorf("volume must be 0-100")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
