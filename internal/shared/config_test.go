package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("Valid File", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := `
[credentials.spotify]
client_id = "id"
client_secret = "secret"
redirect_uri = "http://localhost:9000/api/spotify/callback"

[database]
path = "test.db"

[server]
host = "0.0.0.0"
port = 9000
base_url = "https://example.com"
secure = true
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			spotify := config.Credentials.Spotify
			if spotify.ClientID != "id" || spotify.ClientSecret != "secret" {
				t.Errorf("unexpected credentials %+v", spotify)
			}
			if !spotify.Configured() {
				t.Error("expected configured credentials")
			}
			if config.Database.Path != "test.db" {
				t.Errorf("unexpected database path %q", config.Database.Path)
			}
			if config.Server.Addr() != "0.0.0.0:9000" {
				t.Errorf("unexpected addr %q", config.Server.Addr())
			}
			if !config.Server.Secure {
				t.Error("expected secure server config")
			}
		})

		t.Run("Missing File", func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
				t.Error("expected error for missing file")
			}
		})

		t.Run("Malformed File", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			if err := os.WriteFile(path, []byte("[[[not toml"), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error for malformed file")
			}
		})

		t.Run("Environment Overrides", func(t *testing.T) {
			t.Setenv("SPOTIFY_CLIENT_ID", "env_id")
			t.Setenv("SPOTIFY_CLIENT_SECRET", "env_secret")
			t.Setenv("AIRWAVE_BASE_URL", "https://env.example.com")

			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(`[credentials.spotify]`+"\n"+`client_id = "file_id"`), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Credentials.Spotify.ClientID != "env_id" {
				t.Errorf("expected env to win, got %q", config.Credentials.Spotify.ClientID)
			}
			if config.Server.BaseURL != "https://env.example.com" {
				t.Errorf("unexpected base URL %q", config.Server.BaseURL)
			}
		})
	})

	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Port != 3000 {
			t.Errorf("unexpected default port %d", config.Server.Port)
		}
		if config.Database.Path != "airwave.db" {
			t.Errorf("unexpected default database path %q", config.Database.Path)
		}
		if config.Credentials.Spotify.Configured() {
			if os.Getenv("SPOTIFY_CLIENT_ID") == "" {
				t.Error("defaults should not carry credentials")
			}
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("created file should parse: %v", err)
		}
		if config.Credentials.Spotify.RedirectURI == "" {
			t.Error("expected example redirect URI")
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when file already exists")
		}
	})
}
