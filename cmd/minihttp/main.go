// Command minihttp sends raw HTTP/1.1 requests to devices and
// web servers and prints what they answer.
package main

import (
	"io"
	"os"

	"github.com/apex/log"
	"github.com/iotnet/minihttp/config"
	"github.com/spf13/cobra"
)

// Options contains the global options you can set from the CLI.
type Options struct {
	ConfigFile string
	Verbose    bool
}

// main is the main function of minihttp.
func main() {
	rootCmd := newRootCommand(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand creates the root command writing results to stdout
// and logs to stderr.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var globalOptions Options
	stderr = &lockedWriter{w: stderr}
	rootCmd := &cobra.Command{
		Use:           "minihttp",
		Short:         "minihttp is a minimal blocking HTTP/1.1 client",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetHandler(newLogHandler(stderr))
			log.SetLevel(log.InfoLevel)
			if globalOptions.Verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	flags := rootCmd.PersistentFlags()

	flags.StringVar(
		&globalOptions.ConfigFile,
		"config",
		"",
		"read settings from the given JSON (with comments) file",
	)

	flags.BoolVarP(
		&globalOptions.Verbose,
		"verbose",
		"v",
		false,
		"emit debug messages",
	)

	rootCmd.AddCommand(newFetchCommand(&globalOptions, stdout))
	rootCmd.AddCommand(newProbeCommand(&globalOptions, stdout, stderr))
	return rootCmd
}

// loadConfig returns the configuration named by the options or
// the default configuration when there is none.
func loadConfig(options *Options) (*config.Config, error) {
	if options.ConfigFile == "" {
		return config.New(), nil
	}
	return config.ReadConfig(options.ConfigFile)
}
