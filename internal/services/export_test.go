package services

import "net/http"

// Test-only accessors for redirecting the provider at httptest servers.

func SetTokenURL(p *SpotifyProvider, u string) { p.tokenURL = u }

func SetBaseURL(p *SpotifyProvider, u string) { p.baseURL = u }

func SetHTTPClient(p *SpotifyProvider, c *http.Client) { p.httpClient = c }
