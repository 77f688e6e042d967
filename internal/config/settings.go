package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/modhoard/nexus-downloader/internal/model"
)

const configName = "nexus-dl"

// Settings holds all runtime configuration. It is built once in main
// and passed explicitly into the components that need it; nothing reads
// configuration ambiently.
type Settings struct {
	// KeyPath is the path to the Nexus Mods API key file.
	KeyPath string `mapstructure:"KEY_PATH"`

	// DownloadDir is where archives are written, relative to the
	// working directory unless absolute.
	DownloadDir string `mapstructure:"DOWNLOAD_DIR"`

	// APIBaseURL is the Nexus Mods API root.
	APIBaseURL string `mapstructure:"API_BASE_URL"`

	// HTTPTimeoutSeconds bounds every API call and file transfer.
	HTTPTimeoutSeconds int `mapstructure:"HTTP_TIMEOUT_SECONDS"`

	// Retry policy for transport-level failures.
	MaxRetries    int     `mapstructure:"MAX_RETRIES"`
	RetryCooldown float64 `mapstructure:"RETRY_COOLDOWN"`
	RetryExponent float64 `mapstructure:"RETRY_EXPONENT"`
}

// HTTPTimeout returns the transfer timeout as a duration.
func (s *Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

// Load builds Settings from defaults, an optional nexus-dl.env file in
// the working directory, and the environment. CLI flags override the
// result in main.
func Load() (*Settings, error) {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.SetDefault("KEY_PATH", "key.txt")
	v.SetDefault("DOWNLOAD_DIR", "downloads")
	v.SetDefault("API_BASE_URL", "https://api.nexusmods.com")
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 60)
	v.SetDefault("MAX_RETRIES", 3)
	v.SetDefault("RETRY_COOLDOWN", 0.5)
	v.SetDefault("RETRY_EXPONENT", 2.0)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("%w: reading config: %v", model.ErrConfig, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConfig, err)
	}

	return &settings, nil
}
