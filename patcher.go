package gradlepatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// KeySource exchanges the SDK key for the derived Quality Service key.
// It returns "" when no key is available.
type KeySource interface {
	Fetch(ctx context.Context, sdkKey string) string
}

// Patcher applies the line-level edits to Gradle files on disk. Files are read
// whole and replaced whole; a failed pass leaves the file untouched.
type Patcher struct {
	Keys   KeySource
	Logger zerolog.Logger
	// DryRun computes the edit and its diff without writing.
	DryRun bool
}

// InstallOptions configures Install.
type InstallOptions struct {
	SDKKey              string
	Layout              Layout
	AddBuildScriptLines bool
}

// Outcome describes what a Patcher call did to a file.
type Outcome struct {
	Path     string
	Decision Decision
	Changed  bool
	Written  bool
	Diff     string
}

// Install adds or updates the Quality Service plugin in the gradle file at
// path. The legacy SafeDK plugin is stripped first.
func (p *Patcher) Install(ctx context.Context, path string, opts InstallOptions) (Outcome, error) {
	if opts.SDKKey == "" {
		p.Logger.Error().Str("path", path).Msg("Failed to install AppLovin Quality Service plugin. SDK Key is empty. Please enter the AppLovin SDK Key.")
		return Outcome{Path: path}, ErrEmptySDKKey
	}

	var apiKey string
	if p.Keys != nil {
		apiKey = p.Keys.Fetch(ctx, opts.SDKKey)
	}
	if apiKey == "" {
		p.Logger.Warn().Str("path", path).Msg("AppLovin Quality Service API Key is empty, skipping plugin insertion")
	}

	return p.edit(path, func(lines []string) ([]string, Decision, error) {
		lines = RemoveLegacySafeDK(lines)
		if opts.AddBuildScriptLines && !HasPlugin(lines) {
			lines = stripBuildScriptLines(lines)
		}
		res, err := Upsert(lines, Options{
			APIKey:              apiKey,
			AddBuildScriptLines: opts.AddBuildScriptLines,
			Layout:              opts.Layout,
		})
		return res.Lines, res.Decision, err
	})
}

// AddBuildScriptLines adds the maven repository and classpath lines to the
// root build.gradle of a Unity 2019.3+ export.
func (p *Patcher) AddBuildScriptLines(path string, layout Layout) (Outcome, error) {
	return p.edit(path, func(lines []string) ([]string, Decision, error) {
		res, err := Upsert(stripBuildScriptLines(lines), Options{AddBuildScriptLines: true, Layout: layout})
		return res.Lines, res.Decision, err
	})
}

// RemovePlugins strips both the legacy SafeDK plugin and the Quality Service
// plugin from the gradle file at path.
func (p *Patcher) RemovePlugins(path string) (Outcome, error) {
	return p.edit(path, func(lines []string) ([]string, Decision, error) {
		return RemoveAll(lines), NoOp, nil
	})
}

// stripBuildScriptLines drops the maven repository and classpath lines of an
// earlier pass so that the next Upsert puts them back exactly once.
func stripBuildScriptLines(lines []string) []string {
	return Remove(lines, Plugin{
		Name:      QualityService.Name,
		MavenRepo: QualityService.MavenRepo,
		Classpath: QualityService.Classpath,
	})
}

func (p *Patcher) edit(path string, fn func([]string) ([]string, Decision, error)) (Outcome, error) {
	out := Outcome{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		p.Logger.Error().Err(err).Str("path", path).Msg("Failed to read gradle file")
		return out, fmt.Errorf("reading %s: %w", path, err)
	}
	before := SplitLines(data)

	after, decision, err := fn(before)
	out.Decision = decision
	if err != nil {
		var inc *IncompleteError
		if errors.As(err, &inc) {
			p.Logger.Error().
				Str("path", path).
				Bool("plugin_added", inc.PluginAdded).
				Bool("repo_added", inc.RepoAdded).
				Bool("dependency_added", inc.DependencyAdded).
				Msg("Failed to add AppLovin Quality Service plugin")
		}
		return out, err
	}

	out.Changed = !equalLines(before, after)
	if !out.Changed {
		out.Decision = NoOp
	}
	if out.Diff, err = Diff(filepath.Base(path), before, after); err != nil {
		return out, fmt.Errorf("diffing %s: %w", path, err)
	}
	if !out.Changed {
		p.Logger.Debug().Str("path", path).Msg("gradle file already up to date")
		return out, nil
	}
	if p.DryRun {
		p.Logger.Info().Str("path", path).Str("decision", decision.String()).Msg("dry run, not writing")
		return out, nil
	}

	if err := writeFileAtomic(path, JoinLines(after)); err != nil {
		p.Logger.Error().Err(err).Str("path", path).Msg("Failed to update gradle file. Gradle file write failed.")
		return out, fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, err)
	}
	out.Written = true
	p.Logger.Info().Str("path", path).Str("decision", decision.String()).Msg("gradle file updated")
	return out, nil
}

// writeFileAtomic replaces path through a temp file in the same directory so
// readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, mode); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
