package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alyraffauf/alycodes/internal/frontmatter"
)

var showMeta bool

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Renders one markdown file to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		p, err := newPipeline(appConfig, log)
		if err != nil {
			return err
		}

		doc := p.parser.Parse(string(raw))
		out := cmd.OutOrStdout()
		if showMeta {
			fmt.Fprint(out, frontmatter.Document{Frontmatter: doc.Frontmatter}.Marshal())
			return nil
		}
		fmt.Fprintln(out, p.engine.Render(doc.Body))
		return nil
	},
}

func init() {
	renderCmd.Flags().BoolVar(&showMeta, "meta", false, "print the parsed metadata block instead of HTML")
	rootCmd.AddCommand(renderCmd)
}
