package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniscale/osmrender"
	"github.com/omniscale/osmrender/element"
	"github.com/omniscale/osmrender/stats"
)

const doc = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6">
 <node id="1" lat="51.5" lon="-0.1"/>
 <node id="2" lat="51.6" lon="-0.1"/>
 <node id="3" lat="51.6" lon="0.0"/>
 <way id="10">
  <nd ref="1"/>
  <nd ref="2"/>
  <nd ref="3"/>
  <nd ref="1"/>
  <tag k="building" v="yes"/>
 </way>
 <way id="11">
  <nd ref="1"/>
  <nd ref="3"/>
  <tag k="highway" v="primary"/>
 </way>
 <relation id="20">
  <member type="way" ref="10" role="outer"/>
  <tag k="water" v="lake"/>
 </relation>
</osm>
`

func testFile(t *testing.T) string {
	dir, err := ioutil.TempDir("", "osmrender_cmd_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	filename := filepath.Join(dir, "test.osm")
	require.NoError(t, ioutil.WriteFile(filename, []byte(doc), 0644))
	return filename
}

// captureOut collects everything written to out during fn.
func captureOut(fn func()) string {
	buf := &bytes.Buffer{}
	saved := out
	out = buf
	defer func() { out = saved }()
	fn()
	return buf.String()
}

func TestRunInfo(t *testing.T) {
	counts, err := runInfo(context.Background(), testFile(t), false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.Points)
	assert.Equal(t, int64(2), counts.Lines)
	assert.Equal(t, int64(1), counts.Composites)
	assert.Equal(t, int64(1), counts.Categories[element.Building])
	assert.Equal(t, int64(1), counts.Categories[element.Highway])
	assert.Equal(t, int64(1), counts.Categories[element.WaterBody])
}

func TestRenderInfo(t *testing.T) {
	c := stats.Counts{Points: 1200, Lines: 2, Composites: 1,
		Categories: map[element.Category]int64{element.Highway: 2, element.WaterBody: 1}}

	txt := captureOut(func() { renderInfoTxt(c) })
	assert.Equal(t, "points: 1,200 lines: 2 composites: 1 skipped: 0\nhighway: 2 water_body: 1\n", txt)

	js := captureOut(func() { require.NoError(t, renderInfoJSON(c)) })
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(js), &v))
	assert.Equal(t, 1200.0, v["points"])
	assert.Equal(t, map[string]interface{}{"highway": 2.0, "water_body": 1.0}, v["categories"])
}

func TestQueryCommand(t *testing.T) {
	filename := testFile(t)
	output := captureOut(func() {
		RootCmd.SetArgs([]string{"query", "--data", filename, "--composite", "20", "--no-cache", "--json", "-q"})
		require.NoError(t, RootCmd.Execute())
	})

	var s summary
	require.NoError(t, json.Unmarshal([]byte(output), &s))
	assert.Equal(t, int64(3), s.Points)
	require.Len(t, s.Lines, 1)
	assert.Equal(t, lineSummary{ID: 10, Category: "building", Coords: 4, Closed: true}, s.Lines[0])
	require.Len(t, s.Composites, 1)
	assert.Equal(t, compositeSummary{ID: 20, Category: "water_body", Members: 1, Rings: 1, ClosedRings: 1}, s.Composites[0])
}

func TestVersionCommand(t *testing.T) {
	output := captureOut(func() {
		RootCmd.SetArgs([]string{"version"})
		require.NoError(t, RootCmd.Execute())
	})
	assert.Equal(t, osmrender.Version+"\n", output)
}
