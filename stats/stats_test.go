package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/omniscale/osmrender/element"
)

func TestStatistics(t *testing.T) {
	s := StatsReporter(time.Millisecond)

	wg := sync.WaitGroup{}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 250; j++ {
				s.Add(&element.PointFeature{})
				s.Add(&element.LineFeature{Polyline: &element.Polyline{}, Category: element.Highway})
			}
			s.Add(&element.CompositeFeature{Composite: &element.Composite{}, Category: element.Park})
			s.AddSkipped(2)
		}()
	}
	wg.Wait()

	c := s.Stop()
	assert.Equal(t, int64(1000), c.Points)
	assert.Equal(t, int64(1000), c.Lines)
	assert.Equal(t, int64(4), c.Composites)
	assert.Equal(t, int64(8), c.Skipped)
	assert.Equal(t, int64(2004), c.Total())
	assert.Equal(t, map[element.Category]int64{element.Highway: 1000, element.Park: 4}, c.Categories)

	assert.Equal(t, "points: 1,000 lines: 1,000 composites: 4 skipped: 8", c.String())
	assert.Equal(t, "highway: 1,000 park: 4", c.CategoryString())
}

func TestStatisticsWithoutReports(t *testing.T) {
	s := StatsReporter(0)
	c := s.Stop()
	assert.Equal(t, int64(0), c.Total())
	assert.Equal(t, "", c.CategoryString())
}
