package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/omniscale/osmrender/element"
	"github.com/omniscale/osmrender/logging"
)

var log = logging.NewLogger("stats")

// Counts are the number of decoded features.
type Counts struct {
	Points     int64
	Lines      int64
	Composites int64
	// Skipped counts features that were decoded but not rendered.
	Skipped    int64
	Categories map[element.Category]int64
}

func (c *Counts) Total() int64 {
	return c.Points + c.Lines + c.Composites
}

func (c *Counts) add(f element.Feature) {
	switch f := f.(type) {
	case *element.PointFeature:
		c.Points++
	case *element.LineFeature:
		c.Lines++
		c.Categories[f.Category]++
	case *element.CompositeFeature:
		c.Composites++
		c.Categories[f.Category]++
	}
}

func (c *Counts) String() string {
	return fmt.Sprintf("points: %s lines: %s composites: %s skipped: %s",
		humanize.Comma(c.Points),
		humanize.Comma(c.Lines),
		humanize.Comma(c.Composites),
		humanize.Comma(c.Skipped),
	)
}

// CategoryString lists the number of lines and composites per category.
func (c *Counts) CategoryString() string {
	cats := make([]element.Category, 0, len(c.Categories))
	for cat := range c.Categories {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	parts := make([]string, len(cats))
	for i, cat := range cats {
		parts[i] = fmt.Sprintf("%s: %s", cat, humanize.Comma(c.Categories[cat]))
	}
	return strings.Join(parts, " ")
}

// Statistics counts features from multiple goroutines and reports the
// progress periodically.
type Statistics struct {
	features chan element.Feature
	skipped  chan int
	stop     chan chan Counts
}

func (s *Statistics) Add(f element.Feature) { s.features <- f }
func (s *Statistics) AddSkipped(n int)      { s.skipped <- n }

// Stop stops the reporter and returns the final counts.
func (s *Statistics) Stop() Counts {
	done := make(chan Counts)
	s.stop <- done
	return <-done
}

// StatsReporter starts a new reporter. The counts are logged every interval,
// if interval is > 0.
func StatsReporter(interval time.Duration) *Statistics {
	s := &Statistics{
		features: make(chan element.Feature),
		skipped:  make(chan int),
		stop:     make(chan chan Counts),
	}

	go func() {
		c := Counts{Categories: make(map[element.Category]int64)}
		var tick <-chan time.Time
		if interval > 0 {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			tick = ticker.C
		}
		lastReport := time.Now()
		var lastTotal int64
		for {
			select {
			case f := <-s.features:
				c.add(f)
			case n := <-s.skipped:
				c.Skipped += int64(n)
			case <-tick:
				total := c.Total()
				perSec := float64(total-lastTotal) / time.Since(lastReport).Seconds()
				log.Printf("%s (%s/s)", c.String(), humanize.Comma(int64(perSec)))
				lastReport = time.Now()
				lastTotal = total
			case done := <-s.stop:
				done <- c
				return
			}
		}
	}()
	return s
}
