package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spritelab/emojibundle/pkg/bundle"
)

func newVerifyCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "verify [bundle-dir]",
		Short: "Check a bundle directory against its manifest",
		Long: `Check every file recorded in a bundle's manifest for presence, size,
and link target. With no argument, the currently published bundle
(resolved through the config's publish path) is checked.

The completion marker alone gates cache reuse; verify exists to detect
corruption or external modification of an already-marked directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) == 1 {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("resolve path: %w", err)
				}
				dir = abs
			} else {
				cfg, err := bundle.LoadConfig(configPath)
				if err != nil {
					return err
				}
				dir, err = bundle.Published(cfg.PublishPath)
				if err != nil {
					return err
				}
			}

			if err := bundle.VerifyManifest(dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bundle %s verified\n", dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "build.toml", "build configuration file")
	return cmd
}
