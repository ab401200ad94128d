/*
Package render runs the decoder on the configured input and writes the
features into an SVG file.
*/
package render

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/omniscale/osmrender/cache"
	"github.com/omniscale/osmrender/config"
	"github.com/omniscale/osmrender/element"
	"github.com/omniscale/osmrender/logging"
	"github.com/omniscale/osmrender/parser"
	"github.com/omniscale/osmrender/proj"
	"github.com/omniscale/osmrender/query"
	"github.com/omniscale/osmrender/reader"
	"github.com/omniscale/osmrender/stats"
	"github.com/omniscale/osmrender/writer"
)

var log = logging.NewLogger("")

type Options struct {
	// Progress prints a progress bar while reading the input.
	Progress bool
	// StatsInterval is the interval of progress log messages. Zero
	// disables them.
	StatsInterval time.Duration
	// NoCache disables the query cache for selections.
	NoCache bool
}

// Render renders conf.DataPath to conf.DestPath. The whole input is
// streamed through the decoder if conf selects all elements. Otherwise the
// expanded selection is queried first, using the cache in conf.CacheDir.
func Render(ctx context.Context, conf *config.Config, opts Options) (stats.Counts, error) {
	if conf.DestPath == "" {
		return stats.Counts{}, errors.New("missing dest_path")
	}
	p, err := proj.FromConfig(conf)
	if err != nil {
		return stats.Counts{}, err
	}
	svg := writer.NewSVG(p)
	reporter := stats.StatsReporter(opts.StatsInterval)

	draw := func(f element.Feature) {
		reporter.Add(f)
		if !svg.Draw(f) {
			reporter.AddSkipped(1)
		}
	}

	step := log.StartStep("Rendering " + conf.DataPath)
	src := query.Source{Name: conf.DataPath, Open: reader.File(conf.DataPath, opts.Progress)}
	sel := conf.Selection()
	if sel.IsAll() {
		err = stream(ctx, src, draw)
	} else {
		err = selected(ctx, conf, src, sel, opts, draw)
	}
	counts := reporter.Stop()
	if err != nil {
		return counts, err
	}
	log.StopStep(step)

	step = log.StartStep("Writing " + conf.DestPath)
	if err := svg.WriteFile(conf.DestPath, conf.Minify); err != nil {
		return counts, errors.Wrapf(err, "writing %s", conf.DestPath)
	}
	log.StopStep(step)

	log.Printf("%s", counts.String())
	if cats := counts.CategoryString(); cats != "" {
		log.Printf("%s", cats)
	}
	return counts, nil
}

// stream decodes and draws the input feature by feature.
func stream(ctx context.Context, src query.Source, draw func(element.Feature)) error {
	tokens, err := src.Open(ctx)
	if err != nil {
		return err
	}
	d := parser.NewDecoder(tokens)
	defer d.Close()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := d.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "decoding %s", src.Name)
		}
		draw(f)
	}
}

// selected queries the expanded selection and draws the result.
func selected(ctx context.Context, conf *config.Config, src query.Source, sel parser.Selection, opts Options, draw func(element.Feature)) error {
	var store query.Store
	if !opts.NoCache {
		c, err := cache.Open(conf.CacheDir)
		if err != nil {
			log.Warnf("running without cache: %s", err)
		} else {
			defer c.Close()
			store = c
		}
	}
	coll, err := query.Run(ctx, src, sel, store, conf.Concurrency)
	if err != nil {
		return err
	}
	for _, f := range coll.Features() {
		draw(f)
	}
	return nil
}
