package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/placesearch/internal/config"
	"github.com/kailas-cloud/placesearch/internal/version"
)

type rootOptions struct {
	env     string
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "placesearch",
		Short: "Filter and rank places by category, region and proximity",
		Long: `
placesearch loads a table of venues from a spreadsheet, file or database and
answers "which places match this category and region" and "which places are
closest to this suburb" queries, over HTTP or from the command line.
`,
		Version:       fmt.Sprintf("%s (%s, %s)", version.Version, version.Commit, version.Date),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load %s: %w", opts.envFile, err)
			}
			if opts.env == "" {
				opts.env = config.GetEnv()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.env, "env", "", "config environment (config/<env>.yaml); defaults to $ENV or local")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the config")

	cmd.AddCommand(
		newServeCmd(opts),
		newQueryCmd(opts),
		newCategoriesCmd(opts),
		newRegionsCmd(opts),
	)
	return cmd
}
