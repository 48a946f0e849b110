package main

import (
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [gradle-file...]",
	Short: "Remove the Quality Service and legacy SafeDK plugins",
	Long: `Remove the AppLovin Quality Service plugin and the legacy SafeDK plugin
from the given Gradle files, or from the module Gradle file in the settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			args = []string{env.settings.ModuleGradlePath()}
		}
		for _, path := range args {
			out, err := env.patcher.RemovePlugins(path)
			printDiff(cmd.OutOrStdout(), out)
			if err != nil {
				env.logger.Error().Str("path", path).Msg("Failed to remove AppLovin Quality Service Plugin. Please remove the Quality Service plugin manually.")
				return err
			}
		}
		return nil
	},
}
