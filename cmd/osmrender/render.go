package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/omniscale/osmrender/config"
	"github.com/omniscale/osmrender/render"
)

var renderOpts struct {
	data       string
	dest       string
	projection string
	minify     bool
	progress   bool
	noCache    bool
	interval   time.Duration
}

func init() {
	RootCmd.AddCommand(renderCmd)

	flags := renderCmd.Flags()
	flags.StringVar(&renderOpts.data, "data", "", "OSM input file, overrides data_path")
	flags.StringVarP(&renderOpts.dest, "output", "o", "", "SVG output file, overrides dest_path")
	flags.StringVar(&renderOpts.projection, "projection", "", "flat or mercator, overrides projection")
	flags.BoolVar(&renderOpts.minify, "minify", false, "minify the SVG output")
	flags.BoolVarP(&renderOpts.progress, "progress", "p", false, "show a progress bar while reading")
	flags.BoolVar(&renderOpts.noCache, "no-cache", false, "do not use the query cache")
	flags.DurationVar(&renderOpts.interval, "stats-interval", 10*time.Second, "interval of progress messages, 0 disables them")
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the configured OSM file to SVG",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig()
		if err != nil {
			return err
		}
		if renderOpts.data != "" {
			conf.DataPath = renderOpts.data
		}
		if renderOpts.dest != "" {
			conf.DestPath = renderOpts.dest
		}
		if renderOpts.projection != "" {
			conf.Projection = renderOpts.projection
		}
		if cmd.Flags().Changed("minify") {
			conf.Minify = renderOpts.minify
		}
		if errs := conf.Check(); len(errs) != 0 {
			config.ReportErrors(errs)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		_, err = render.Render(ctx, conf, render.Options{
			Progress:      renderOpts.progress,
			StatsInterval: renderOpts.interval,
			NoCache:       renderOpts.noCache,
		})
		return err
	},
}
