// Package settings holds the explicit configuration for patching a Unity
// project: the SDK key, whether the Quality Service is enabled, and where the
// Gradle files live.
package settings

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/maxsdk/gradlepatch"
	"github.com/maxsdk/gradlepatch/credential"
)

// DefaultModuleGradle is the custom main Gradle template of a Unity project.
const DefaultModuleGradle = "Assets/Plugins/Android/mainTemplate.gradle"

var ErrInvalid = errors.New("settings: invalid")

// Settings is passed explicitly to every operation that needs it.
type Settings struct {
	SDKKey                string `yaml:"sdk_key" toml:"sdk_key" json:"sdk_key"`
	QualityServiceEnabled bool   `yaml:"quality_service_enabled" toml:"quality_service_enabled" json:"quality_service_enabled"`
	ProjectDir            string `yaml:"project_dir" toml:"project_dir" json:"project_dir"`
	ModuleGradle          string `yaml:"module_gradle" toml:"module_gradle" json:"module_gradle"`
	RootGradle            string `yaml:"root_gradle" toml:"root_gradle" json:"root_gradle"`
	Layout                string `yaml:"layout" toml:"layout" json:"layout"`
	CredentialEndpoint    string `yaml:"credential_endpoint" toml:"credential_endpoint" json:"credential_endpoint"`
	Manifest              string `yaml:"manifest" toml:"manifest" json:"manifest"`
	LogLevel              string `yaml:"log_level" toml:"log_level" json:"log_level"`
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		QualityServiceEnabled: true,
		ProjectDir:            ".",
		ModuleGradle:          DefaultModuleGradle,
		Layout:                gradlepatch.ModuleBuildFile.String(),
		CredentialEndpoint:    credential.DefaultEndpoint,
		LogLevel:              "info",
	}
}

// GradleLayout parses Layout.
func (s Settings) GradleLayout() (gradlepatch.Layout, error) {
	return gradlepatch.ParseLayout(s.Layout)
}

// ModuleGradlePath resolves ModuleGradle against ProjectDir.
func (s Settings) ModuleGradlePath() string { return s.resolve(s.ModuleGradle) }

// RootGradlePath resolves RootGradle against ProjectDir.
func (s Settings) RootGradlePath() string { return s.resolve(s.RootGradle) }

func (s Settings) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.ProjectDir, filepath.FromSlash(p))
}

// Validate checks that the settings can drive a patch.
func (s Settings) Validate() error {
	layout, err := s.GradleLayout()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if s.QualityServiceEnabled && s.ModuleGradle == "" {
		return fmt.Errorf("%w: module_gradle is required when the quality service is enabled", ErrInvalid)
	}
	if s.QualityServiceEnabled && layout == gradlepatch.RootBuildFile && s.RootGradle == "" {
		return fmt.Errorf("%w: root_gradle is required for the root layout", ErrInvalid)
	}
	return nil
}
