package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spritelab/emojibundle/pkg/bundle"
)

func newCleanCmd() *cobra.Command {
	var (
		configPath string
		cacheRoot  string
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Prune cached bundles other than the currently published one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bundle.LoadConfig(configPath)
			if err != nil {
				return err
			}
			root, err := bundle.ResolveCacheRoot(cacheRoot, cfg)
			if err != nil {
				return err
			}
			gate := &bundle.Gate{Root: root}

			// Keep whatever the publish link points at; if nothing is
			// published yet, everything is fair game.
			var keep bundle.Key
			if dir, err := bundle.Published(cfg.PublishPath); err == nil {
				if k, ok := gate.KeyOf(dir); ok {
					keep = k
				}
			}

			pruned, err := gate.Clean(keep)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if pruned == 0 {
				fmt.Fprintln(out, "nothing to prune")
				return nil
			}
			fmt.Fprintf(out, "pruned %d bundle(s)\n", pruned)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "build.toml", "build configuration file")
	cmd.Flags().StringVar(&cacheRoot, "cache-root", "", "override the cache root directory")
	return cmd
}
