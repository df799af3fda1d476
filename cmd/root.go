package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alyraffauf/alycodes/internal/config"
	"github.com/alyraffauf/alycodes/internal/logger"
)

var (
	cfgFile   string
	verbose   bool
	appConfig config.Config
	log       = logger.Default(false)
)

var rootCmd = &cobra.Command{
	Use:   "alycodes",
	Short: "alycodes - a terminal-flavored personal site and blog",
	Long: `alycodes turns a directory of markdown posts into a static personal site:
a home page with profile terminals, a blog listing, and one page per post,
with code blocks highlighted at build time.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initializeConfig(_ *cobra.Command) error {
	log = logger.Default(verbose)

	cfg, used, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if used == "" {
		log.Info("no config file found, using defaults and environment")
	} else {
		log.Info("using config file", "path", used)
	}

	appConfig = cfg
	return nil
}
