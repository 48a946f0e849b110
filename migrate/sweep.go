// Package migrate brings an installed MAX adapter folder layout up to date.
package migrate

import (
	"errors"
	"fmt"
	"path"

	"github.com/rs/zerolog"
)

const (
	mediationDir     = "Assets/MaxSdk/Mediation"
	androidChangelog = "ANDROID_CHANGELOG.md"
	iosChangelog     = "IOS_CHANGELOG.md"
)

// Report lists what a sweep removed.
type Report struct {
	Removed   []string
	Refreshed bool
}

// Changed reports whether the sweep touched the project.
func (r Report) Changed() bool { return len(r.Removed) > 0 }

// Plan returns the paths Sweep would delete, in deletion order.
func Plan(fs FileSystem, m Manifest) []string {
	var out []string
	for _, network := range m.Networks {
		dir := path.Join(mediationDir, network)
		if !fs.Exists(dir) {
			continue
		}
		for _, name := range []string{androidChangelog, iosChangelog} {
			if f := path.Join(dir, name); fs.Exists(f) {
				out = append(out, f)
			}
		}
	}
	for _, network := range m.ObsoleteNetworks {
		if dir := path.Join(mediationDir, network); fs.Exists(dir) {
			out = append(out, dir)
		}
	}
	return out
}

// Sweep deletes legacy per-adapter changelogs and obsolete network folders.
// A failed deletion does not stop the sweep; all failures are returned joined.
func Sweep(fs FileSystem, m Manifest, logger zerolog.Logger) (Report, error) {
	var (
		rep  Report
		errs []error
	)
	for _, p := range Plan(fs, m) {
		logger.Debug().Str("path", p).Msg("deleting")
		if err := fs.Remove(p); err != nil {
			logger.Error().Err(err).Str("path", p).Msg("failed to delete")
			errs = append(errs, fmt.Errorf("removing %s: %w", p, err))
			continue
		}
		rep.Removed = append(rep.Removed, p)
	}

	if rep.Changed() {
		if err := fs.Refresh(); err != nil {
			errs = append(errs, fmt.Errorf("refreshing assets: %w", err))
		} else {
			rep.Refreshed = true
		}
		logger.Info().Int("removed", len(rep.Removed)).Msg("AppLovin MAX Migration completed")
	}
	return rep, errors.Join(errs...)
}
