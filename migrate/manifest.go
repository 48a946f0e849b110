package migrate

import (
	"bytes"
	"fmt"
	"os"

	gyaml "github.com/goccy/go-yaml"
)

// Manifest lists the mediation networks the sweep knows about.
type Manifest struct {
	Networks         []string `yaml:"networks"`
	ObsoleteNetworks []string `yaml:"obsolete_networks"`
}

// DefaultManifest returns the networks shipped with the plugin.
func DefaultManifest() Manifest {
	return Manifest{
		Networks: []string{
			"AdColony",
			"Amazon",
			"ByteDance",
			"Chartboost",
			"Facebook",
			"Fyber",
			"Google",
			"InMobi",
			"IronSource",
			"Maio",
			"Mintegral",
			"MyTarget",
			"MoPub",
			"Nend",
			"Ogury",
			"Smaato",
			"Tapjoy",
			"TencentGDT",
			"UnityAds",
			"VerizonAds",
			"Vungle",
			"Yandex",
		},
		ObsoleteNetworks: []string{"VoodooAds"},
	}
}

// LoadManifest reads a manifest override. Lists that are absent from the
// file keep their defaults.
func LoadManifest(path string) (Manifest, error) {
	m := DefaultManifest()
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return m, nil
	}

	var override struct {
		Networks         *[]string `yaml:"networks"`
		ObsoleteNetworks *[]string `yaml:"obsolete_networks"`
	}
	if err := gyaml.UnmarshalWithOptions(data, &override, gyaml.Strict()); err != nil {
		return m, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if override.Networks != nil {
		m.Networks = *override.Networks
	}
	if override.ObsoleteNetworks != nil {
		m.ObsoleteNetworks = *override.ObsoleteNetworks
	}
	return m, nil
}
