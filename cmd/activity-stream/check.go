package main

import (
	"github.com/spf13/cobra"

	"github.com/Hwangyonghwan/activity-stream/pkg/prefs"
	"github.com/Hwangyonghwan/activity-stream/pkg/sections"
)

func checkCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration",
		Long: `Load activitystream.json, validate it, and report which sections
the configured preferences would produce.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			if cfg.Path() != "" {
				success("loaded %s", cfg.Path())
			} else {
				warn("no activitystream.json found, using defaults")
			}
			info("listen address: %s", cfg.Address())

			// Dry-run the registry against the configured prefs.
			store := prefs.NewStore(cfg.Prefs, nil)
			manager := sections.NewManager(nil)
			manager.Init(store)

			for _, s := range manager.Snapshot() {
				opts := "no options"
				if len(s.Options) > 0 {
					opts = "options configured"
				}
				info("section %-12s feed=%s (%s)", s.ID, s.Pref.Feed, opts)
			}
			success("%d sections", manager.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to activitystream.json")

	return cmd
}
