package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omniscale/osmrender/config"
	"github.com/omniscale/osmrender/logging"
)

var log = logging.NewLogger("")

var (
	configFile string
	logLevel   string
	quiet      bool
)

var RootCmd = &cobra.Command{
	Use:           "osmrender",
	Short:         "Render OSM extracts to SVG",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if quiet {
			logging.SetQuiet(true)
		} else if logLevel != "" {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q", logLevel)
			}
			logging.SetLevel(level)
		}
		return nil
	},
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "config file (YAML)")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error), overrides log_level")
	flags.BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
}

// loadConfig reads the config file, if set, and applies the log level of
// the config unless it was set with a flag or --quiet. Without a config file, all
// options have their default values.
func loadConfig() (*config.Config, error) {
	var conf *config.Config
	var err error
	if configFile != "" {
		conf, err = config.FromFile(configFile)
	} else {
		conf, err = config.New(nil)
	}
	if err != nil {
		return nil, err
	}
	if logLevel == "" && !quiet {
		if level, err := logging.ParseLevel(conf.LogLevel); err == nil {
			logging.SetLevel(level)
		}
	}
	return conf, nil
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
