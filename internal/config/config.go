// file: internal/config/config.go
// version: 2.0.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	InputFile    string
	OutputPrefix string
	DatabasePath string
	Platform     string // "apple" (default) or "spotify"
	Rows         int
	Cols         int
	Mirror       bool // mirror metadata columns on the back page
	Contact      string
	APIKeys      struct {
		SpotifyClientID     string
		SpotifyClientSecret string
	}
	// Minimum pause between calls to the same remote host. MusicBrainz asks
	// anonymous clients to stay around one request per second.
	RequestInterval time.Duration
}

var AppConfig Config

// InitConfig initializes the application configuration
func InitConfig() {
	// Set defaults
	viper.SetDefault("output_prefix", "music_cards")
	viper.SetDefault("platform", "apple")
	viper.SetDefault("rows", 4)
	viper.SetDefault("cols", 3)
	viper.SetDefault("mirror", true)
	viper.SetDefault("request_interval", "1200ms")
	viper.SetDefault("contact", "contact@example.com")

	AppConfig = Config{
		InputFile:    viper.GetString("input_file"),
		OutputPrefix: viper.GetString("output_prefix"),
		DatabasePath: viper.GetString("database_path"),
		Platform:     viper.GetString("platform"),
		Rows:         viper.GetInt("rows"),
		Cols:         viper.GetInt("cols"),
		Mirror:       viper.GetBool("mirror"),
		Contact:      viper.GetString("contact"),
	}

	// API Keys
	AppConfig.APIKeys.SpotifyClientID = viper.GetString("api_keys.spotify_client_id")
	AppConfig.APIKeys.SpotifyClientSecret = viper.GetString("api_keys.spotify_client_secret")

	AppConfig.RequestInterval = viper.GetDuration("request_interval")
	if AppConfig.RequestInterval <= 0 {
		AppConfig.RequestInterval = 1200 * time.Millisecond
	}

	// Normalize platform
	if AppConfig.Platform != "spotify" {
		AppConfig.Platform = "apple"
	}
	if AppConfig.Rows < 1 {
		AppConfig.Rows = 4
	}
	if AppConfig.Cols < 1 {
		AppConfig.Cols = 3
	}
}
