package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxsdk/gradlepatch/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Clean up the installed mediation adapter layout",
	Long: `Delete legacy per-adapter changelogs and obsolete network folders under
Assets/MaxSdk/Mediation. The network lists can be overridden with the
"manifest" setting.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}

		m := migrate.DefaultManifest()
		if env.settings.Manifest != "" {
			if m, err = migrate.LoadManifest(env.settings.Manifest); err != nil {
				return err
			}
		}

		fs := migrate.OSFileSystem{Root: env.settings.ProjectDir}
		if dryRun {
			for _, p := range migrate.Plan(fs, m) {
				fmt.Fprintln(cmd.OutOrStdout(), "would remove", p)
			}
			return nil
		}

		rep, err := migrate.Sweep(fs, m, env.logger)
		for _, p := range rep.Removed {
			fmt.Fprintln(cmd.OutOrStdout(), "removed", p)
		}
		return err
	},
}
