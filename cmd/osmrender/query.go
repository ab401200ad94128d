package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/omniscale/osmrender/cache"
	"github.com/omniscale/osmrender/element"
	"github.com/omniscale/osmrender/parser"
	"github.com/omniscale/osmrender/query"
	"github.com/omniscale/osmrender/reader"
)

var out io.Writer = os.Stdout

var queryOpts struct {
	data       string
	points     []int64
	lines      []int64
	composites []int64
	noCache    bool
	json       bool
}

func init() {
	RootCmd.AddCommand(queryCmd)

	flags := queryCmd.Flags()
	flags.StringVar(&queryOpts.data, "data", "", "OSM input file, overrides data_path")
	flags.Int64SliceVar(&queryOpts.points, "point", nil, "select point IDs")
	flags.Int64SliceVar(&queryOpts.lines, "line", nil, "select line IDs")
	flags.Int64SliceVar(&queryOpts.composites, "composite", nil, "select composite IDs")
	flags.BoolVar(&queryOpts.noCache, "no-cache", false, "do not use the query cache")
	flags.BoolVarP(&queryOpts.json, "json", "j", false, "print the result as JSON")
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Decode selected elements with all their dependencies",
	Long: `Decode selected elements with all their dependencies.

Selected composites include their lines, selected lines include their
points. IDs from the command line replace the select option of the config.
Results are cached in cache_dir.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig()
		if err != nil {
			return err
		}
		if queryOpts.data != "" {
			conf.DataPath = queryOpts.data
		}
		if conf.DataPath == "" {
			return errors.New("missing input, set data_path or --data")
		}

		sel := conf.Selection()
		if len(queryOpts.points)+len(queryOpts.lines)+len(queryOpts.composites) > 0 {
			sel = parser.Selection{
				Points:     parser.NewIDSet(queryOpts.points...),
				Lines:      parser.NewIDSet(queryOpts.lines...),
				Composites: parser.NewIDSet(queryOpts.composites...),
			}
		}
		if sel.IsAll() {
			return errors.New("no elements selected, use --point, --line or --composite")
		}

		var store query.Store
		if !queryOpts.noCache {
			c, err := cache.Open(conf.CacheDir)
			if err != nil {
				return err
			}
			defer c.Close()
			store = c
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		src := query.Source{Name: conf.DataPath, Open: reader.File(conf.DataPath, false)}
		coll, err := query.Run(ctx, src, sel, store, conf.Concurrency)
		if err != nil {
			return err
		}

		summary := summarize(coll)
		if queryOpts.json {
			return json.NewEncoder(out).Encode(summary)
		}
		printSummary(summary)
		return nil
	},
}

type compositeSummary struct {
	ID          int64  `json:"id"`
	Category    string `json:"category"`
	Members     int    `json:"members"`
	Rings       int    `json:"rings"`
	ClosedRings int    `json:"closed_rings"`
}

type lineSummary struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Coords   int    `json:"coords"`
	Closed   bool   `json:"closed"`
}

type summary struct {
	Points     int64              `json:"points"`
	Lines      []lineSummary      `json:"lines"`
	Composites []compositeSummary `json:"composites"`
}

func summarize(coll *element.Collection) summary {
	s := summary{Points: int64(len(coll.Points))}
	for _, l := range coll.Lines {
		s.Lines = append(s.Lines, lineSummary{
			ID:       l.ID,
			Category: l.Category.String(),
			Coords:   len(l.Coords),
			Closed:   l.IsClosed(),
		})
	}
	for _, c := range coll.Composites {
		cs := compositeSummary{
			ID:       c.ID,
			Category: c.Category.String(),
			Members:  len(c.Members),
			Rings:    len(c.Rings),
		}
		for i := range c.Rings {
			if c.Rings[i].IsClosed() {
				cs.ClosedRings++
			}
		}
		s.Composites = append(s.Composites, cs)
	}
	return s
}

func printSummary(s summary) {
	fmt.Fprintf(out, "Points: %s\n", humanize.Comma(s.Points))
	fmt.Fprintf(out, "Lines: %s\n", humanize.Comma(int64(len(s.Lines))))
	for _, l := range s.Lines {
		fmt.Fprintf(out, "\t%d %s coords: %d closed: %t\n", l.ID, l.Category, l.Coords, l.Closed)
	}
	fmt.Fprintf(out, "Composites: %s\n", humanize.Comma(int64(len(s.Composites))))
	for _, c := range s.Composites {
		fmt.Fprintf(out, "\t%d %s members: %d rings: %d closed: %d\n",
			c.ID, c.Category, c.Members, c.Rings, c.ClosedRings)
	}
}
