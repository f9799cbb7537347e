// Package main generates the Tecniquim 0x00 poster edition.
// It creates one PDF with two pages per poster:
//   - the front, carrying a horoscope caption wrapped to a fixed width
//   - the back, carrying a vector poster
//
// A second command overlays two PDF files page by page, cycling the overlay
// when it is shorter than the base.
//
// Usage: tecniquim generate | preview | overlay <base> <overlay> [<output>]
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// Constants
// ---------------------------------------------------------------------------

const version = "0.1.0"

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

// options holds the global flags.
type options struct {
	configFile string
	verbose    bool
	noColor    bool

	log *zap.SugaredLogger
}

// config loads the configuration file. Without an explicit --config, a
// missing default file means defaults.
func (o *options) config(cmd *cobra.Command) (*Config, error) {
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(o.configFile); os.IsNotExist(err) {
			o.log.Debugw("no config file, using defaults", "path", o.configFile)
			return defaultConfig(), nil
		}
	}
	return loadConfig(o.configFile)
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "tecniquim",
		Short:         "Tecniquim 0x00 poster generator",
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				color.NoColor = true
			}
			log, err := newLogger(opts.verbose)
			if err != nil {
				return err
			}
			opts.log = log
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", defaultConfigFile, "config file")
	root.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "enable debug output")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newPreviewCmd(opts))
	root.AddCommand(newOverlayCmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tecniquim v%s\n", version)
		},
	}
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	opts := &options{}
	root := newRootCmd(opts)
	err := root.Execute()
	if opts.log != nil {
		_ = opts.log.Sync()
	}
	if err == nil {
		return
	}

	red := color.New(color.FgRed).SprintFunc()
	if opts.verbose {
		// %+v prints the stack recorded by pkg/errors
		fmt.Fprintf(os.Stderr, "%s %+v\n", red("Error:"), err)
	} else {
		fmt.Fprintf(os.Stderr, "%s %s\n", red("Error:"), err)
	}
	os.Exit(1)
}
