package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alyraffauf/alycodes/internal/blog"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Writes index.json for the content directory",
	Long: `Lists every markdown post in the content directory, newest modification
first, and writes the result to index.json next to the posts. When present,
the index decides which files the build picks up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := blog.WriteIndex(appConfig.ContentDir, appConfig.Content.Exclude)
		if err != nil {
			return err
		}
		log.Info("index written",
			"path", filepath.Join(appConfig.ContentDir, blog.IndexFile),
			"posts", len(entries))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
