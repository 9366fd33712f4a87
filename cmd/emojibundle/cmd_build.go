package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/spritelab/emojibundle/pkg/bundle"
)

func newBuildCmd() *cobra.Command {
	var (
		configPath string
		cacheRoot  string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the bundle pipeline and publish the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(cmd.ErrOrStderr())
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}

			cfg, err := bundle.LoadConfig(configPath)
			if err != nil {
				return err
			}
			root, err := bundle.ResolveCacheRoot(cacheRoot, cfg)
			if err != nil {
				return err
			}

			res, err := bundle.Build(bundle.FromConfig(cfg, root, logger))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Reused {
				fmt.Fprintf(out, "reused bundle %s\n", res.Key)
			} else {
				fmt.Fprintf(out, "built bundle %s\n", res.Key)
			}
			fmt.Fprintf(out, "published %s -> %s\n", cfg.PublishPath, res.Dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "build.toml", "build configuration file")
	cmd.Flags().StringVar(&cacheRoot, "cache-root", "", "override the cache root directory")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}
