package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/maxsdk/gradlepatch"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install or update the Quality Service plugin",
	Long: `Install the AppLovin Quality Service plugin into the module Gradle file,
or update its API key when it is already installed. The legacy SafeDK plugin
is removed on the way.

With layout "root" (Unity 2019.3+) the buildscript repository and classpath
lines go into the root build.gradle instead of the module file.

When the Quality Service is disabled in the settings, the plugin is removed.

Examples:
  maxgradle install
  maxgradle install --set layout=root --set root_gradle=Temp/gradleOut/build.gradle
  maxgradle install --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		return env.apply(cmd.Context(), cmd.OutOrStdout())
	},
}

// apply brings the Gradle files in line with the settings.
func (e *environment) apply(ctx context.Context, w io.Writer) error {
	s := e.settings
	module := s.ModuleGradlePath()

	if !s.QualityServiceEnabled {
		e.logger.Info().Msg("Quality Service disabled, removing plugin")
		out, err := e.patcher.RemovePlugins(module)
		printDiff(w, out)
		return err
	}

	if s.SDKKey == "" {
		e.logger.Error().Msg("Failed to install AppLovin Quality Service plugin. SDK Key is empty. Please enter the AppLovin SDK Key.")
		return gradlepatch.ErrEmptySDKKey
	}

	layout, err := s.GradleLayout()
	if err != nil {
		return err
	}

	if layout == gradlepatch.RootBuildFile {
		out, err := e.patcher.AddBuildScriptLines(s.RootGradlePath(), layout)
		printDiff(w, out)
		if err != nil {
			return err
		}
	}

	out, err := e.patcher.Install(ctx, module, gradlepatch.InstallOptions{
		SDKKey:              s.SDKKey,
		Layout:              layout,
		AddBuildScriptLines: layout == gradlepatch.ModuleBuildFile,
	})
	printDiff(w, out)
	return err
}
