package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/modhoard/nexus-downloader/internal/model"
)

// LoadAPIKey reads the Nexus Mods API key from path. The key is a
// single whitespace-trimmed token, loaded once at startup and never
// mutated. A missing or empty file is a configuration error.
func LoadAPIKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: API key file %q: %v", model.ErrConfig, path, err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("%w: API key file %q is empty", model.ErrConfig, path)
	}

	return key, nil
}
