// Package services implements clients for external streaming providers.
//
// The [Provider] interface abstracts the playback APIs the widget depends on:
// OAuth token exchange and refresh, the current-playback read, and volume
// read/write on the active output device.
//
// # Error contract
//
// The contract is deliberately asymmetric. [Provider.Refresh] and
// [Provider.NowPlaying] never return errors across their boundary: refresh
// failure means "session invalid" and every now-playing failure (including
// provider 4xx/5xx and network faults) is folded into an absent snapshot so
// the polling widget degrades quietly. Volume operations surface provider
// statuses because they back explicit user actions that must fail loudly.
//
// [SpotifyProvider] is the production implementation, backed by the Spotify
// Web API: https://developer.spotify.com/documentation/web-api/reference/
package services
