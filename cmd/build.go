package cmd

import (
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the static site",
	Long: `Renders the posts in the content directory, the home page and the blog
listing into the output directory, replacing whatever was there.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := newBuilder(appConfig, newStatsService(appConfig, log), log)
		if err != nil {
			return err
		}
		_, err = b.Build(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
