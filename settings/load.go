package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ParseError is returned when a settings file cannot be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("settings: parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Environment variables that override file values.
const (
	EnvSDKKey         = "MAXGRADLE_SDK_KEY"
	EnvQualityService = "MAXGRADLE_QUALITY_SERVICE"
	EnvLayout         = "MAXGRADLE_LAYOUT"
	EnvLogLevel       = "MAXGRADLE_LOG_LEVEL"
	EnvEndpoint       = "MAXGRADLE_ENDPOINT"
)

// Load reads settings from path on top of Default and then applies
// environment overrides. A missing file is not an error. Files ending in
// .toml are TOML, anything else is YAML.
func Load(path string) (Settings, error) {
	s := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return s, fmt.Errorf("reading settings %s: %w", path, err)
		default:
			if err := decode(path, data, &s); err != nil {
				return s, err
			}
		}
	}
	if err := applyEnv(&s); err != nil {
		return s, err
	}
	return s, nil
}

func decode(path string, data []byte, s *Settings) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(s); err != nil {
			return &ParseError{Path: path, Err: err}
		}
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

func applyEnv(s *Settings) error {
	if v, ok := os.LookupEnv(EnvSDKKey); ok {
		s.SDKKey = v
	}
	if v, ok := os.LookupEnv(EnvQualityService); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvQualityService, v, err)
		}
		s.QualityServiceEnabled = b
	}
	if v, ok := os.LookupEnv(EnvLayout); ok {
		s.Layout = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		s.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvEndpoint); ok {
		s.CredentialEndpoint = v
	}
	return nil
}
