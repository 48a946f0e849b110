package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/maxsdk/gradlepatch/watch"
)

var debounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-apply the plugin whenever the settings or Gradle files change",
	Long: `Apply the settings once, then keep watching the settings file and the
Gradle files. Each change reloads the settings and applies them again, so a
regenerated Gradle export picks the plugin back up.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		if err := env.apply(cmd.Context(), cmd.OutOrStdout()); err != nil {
			env.logger.Error().Err(err).Msg("initial apply failed")
		}

		w := &watch.Watcher{
			Files:    []string{configPath, env.settings.ModuleGradlePath(), env.settings.RootGradlePath()},
			Debounce: debounce,
			Logger:   env.logger.With().Str("component", "watch").Logger(),
		}
		return w.Run(cmd.Context(), func(changed []string) error {
			next, err := setup(cmd)
			if err != nil {
				return err
			}
			return next.apply(cmd.Context(), cmd.OutOrStdout())
		})
	},
}

func init() {
	watchCmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-applying")
}
