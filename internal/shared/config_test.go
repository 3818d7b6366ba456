package shared

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig parses the embedded template", func(t *testing.T) {
		config := DefaultConfig()

		if config.Credentials.Spotify.RedirectURI == "" {
			t.Error("expected default redirect URI")
		}
		if len(config.Credentials.Spotify.Scopes) == 0 {
			t.Error("expected default scopes")
		}
		if config.Server.Port == 0 {
			t.Error("expected default server port")
		}
		if config.Database.Path == "" {
			t.Error("expected default database path")
		}
	})

	t.Run("Scope joins with spaces", func(t *testing.T) {
		cfg := SpotifyConfig{Scopes: []string{"user-library-read", "playlist-modify-private"}}
		want := "user-library-read playlist-modify-private"
		if got := cfg.Scope(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("SaveConfig and LoadConfig round-trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "test_client"
		config.HTTP.RequestsPerSecond = 5

		if err := SaveConfig(path, config); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if loaded.Credentials.Spotify.ClientID != "test_client" {
			t.Errorf("expected client id to survive round-trip, got %q", loaded.Credentials.Spotify.ClientID)
		}
		if loaded.HTTP.RequestsPerSecond != 5 {
			t.Errorf("expected rate setting to survive round-trip, got %v", loaded.HTTP.RequestsPerSecond)
		}
	})

	t.Run("LoadConfig fails on missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("CreateConfigFile refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		err := CreateConfigFile(path)
		if err == nil {
			t.Fatal("expected error for existing file")
		}
		if !strings.Contains(err.Error(), "already exists") {
			t.Errorf("expected already-exists error, got %v", err)
		}
	})
}
