package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/omniscale/osmrender/parser"
	"github.com/omniscale/osmrender/reader"
	"github.com/omniscale/osmrender/stats"
)

var infoOpts struct {
	json     bool
	progress bool
}

func init() {
	RootCmd.AddCommand(infoCmd)

	flags := infoCmd.Flags()
	flags.BoolVarP(&infoOpts.json, "json", "j", false, "format information in JSON")
	flags.BoolVarP(&infoOpts.progress, "progress", "p", false, "show a progress bar while reading")
}

var infoCmd = &cobra.Command{
	Use:   "info <OSM file>",
	Short: "Print the number of features per kind and category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		counts, err := runInfo(ctx, args[0], infoOpts.progress)
		if err != nil {
			return err
		}
		if infoOpts.json {
			return renderInfoJSON(counts)
		}
		renderInfoTxt(counts)
		return nil
	},
}

func runInfo(ctx context.Context, filename string, progress bool) (stats.Counts, error) {
	tokens, err := reader.File(filename, progress)(ctx)
	if err != nil {
		return stats.Counts{}, err
	}
	d := parser.NewDecoder(tokens, parser.WithoutRingAssembly())
	defer d.Close()

	reporter := stats.StatsReporter(0)
	for {
		f, err := d.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			reporter.Stop()
			return stats.Counts{}, errors.Wrapf(err, "decoding %s", filename)
		}
		reporter.Add(f)
	}
	return reporter.Stop(), nil
}

func renderInfoJSON(c stats.Counts) error {
	cats := make(map[string]int64, len(c.Categories))
	for cat, n := range c.Categories {
		cats[cat.String()] = n
	}
	return json.NewEncoder(out).Encode(struct {
		Points     int64            `json:"points"`
		Lines      int64            `json:"lines"`
		Composites int64            `json:"composites"`
		Categories map[string]int64 `json:"categories"`
	}{c.Points, c.Lines, c.Composites, cats})
}

func renderInfoTxt(c stats.Counts) {
	fmt.Fprintln(out, c.String())
	if cats := c.CategoryString(); cats != "" {
		fmt.Fprintln(out, cats)
	}
}
