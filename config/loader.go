package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromFile reads a YAML settings file on top of DefaultSettings.
// ${VAR} references in the file are expanded from the environment before parsing,
// so credentials such as storage.minio.secret_key need not be written to disk.
// A partitions list in the file replaces the default list entirely.
func LoadFromFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML settings on top of DefaultSettings and applies defaults.
func Parse(data []byte) (*Settings, error) {
	settings := DefaultSettings()

	expanded := expandEnv(string(data))
	decoder := yaml.NewDecoder(strings.NewReader(expanded))
	decoder.KnownFields(true)
	if err := decoder.Decode(settings); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	settings.ApplyDefaults()
	return settings, nil
}

var envReference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} with the value of VAR. Any other "$" is left as written.
func expandEnv(s string) string {
	return envReference.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}

// Load returns DefaultSettings when path is empty, otherwise the settings read from path.
// The result is validated; every problem found is reported in the returned error.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings from %s: %w", path, err)
		}
		settings = loaded
	}

	if problems := settings.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
	}
	return settings, nil
}
