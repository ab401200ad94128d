package render

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniscale/osmrender/config"
)

const doc = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6">
 <node id="1" lat="51.5" lon="-0.1">
  <tag k="railway" v="stop"/>
  <tag k="subway" v="yes"/>
  <tag k="public_transport" v="stop_position"/>
 </node>
 <node id="2" lat="51.6" lon="-0.1"/>
 <node id="3" lat="51.6" lon="0.0"/>
 <node id="4" lat="51.5" lon="0.0"/>
 <way id="10">
  <nd ref="1"/>
  <nd ref="2"/>
  <nd ref="3"/>
  <tag k="highway" v="primary"/>
 </way>
 <way id="11">
  <nd ref="3"/>
  <nd ref="4"/>
  <nd ref="1"/>
 </way>
 <relation id="20">
  <member type="way" ref="10" role="outer"/>
  <member type="way" ref="11" role="outer"/>
  <tag k="leisure" v="park"/>
 </relation>
</osm>
`

func setup(t *testing.T, extra string) (*config.Config, string) {
	dir, err := ioutil.TempDir("", "osmrender_render_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	data := filepath.Join(dir, "test.osm")
	require.NoError(t, ioutil.WriteFile(data, []byte(doc), 0644))

	conf, err := config.New([]byte(fmt.Sprintf(`
data_path: %s
dest_path: %s
cache_dir: %s
top_left_lon: -0.2
top_left_lat: 51.7
px_per_deg: 1000
width_px: 1000
height_px: 1000
%s`, data, filepath.Join(dir, "out.svg"), filepath.Join(dir, "cache"), extra)))
	require.NoError(t, err)
	require.Empty(t, conf.Check())
	return conf, dir
}

func assertRendered(t *testing.T, filename string) {
	b, err := ioutil.ReadFile(filename)
	require.NoError(t, err)
	svg := string(b)
	assert.Contains(t, svg, "<svg")
	assert.Contains(t, svg, `stroke="black"`)
	assert.Contains(t, svg, `fill="lightgreen"`)
	assert.Contains(t, svg, "<circle")
}

func TestRenderAll(t *testing.T) {
	conf, _ := setup(t, "")
	counts, err := Render(context.Background(), conf, Options{})
	require.NoError(t, err)

	assert.Equal(t, int64(4), counts.Points)
	assert.Equal(t, int64(2), counts.Lines)
	assert.Equal(t, int64(1), counts.Composites)
	// three plain points and the untagged line
	assert.Equal(t, int64(4), counts.Skipped)
	assertRendered(t, conf.DestPath)
}

func TestRenderSelection(t *testing.T) {
	conf, dir := setup(t, "select:\n  composites: [20]\n")

	for i := 0; i < 2; i++ {
		counts, err := Render(context.Background(), conf, Options{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), counts.Points)
		assert.Equal(t, int64(2), counts.Lines)
		assert.Equal(t, int64(1), counts.Composites)
		assertRendered(t, conf.DestPath)
	}

	_, err := os.Stat(filepath.Join(dir, "cache"))
	assert.NoError(t, err)
}

func TestRenderMissingInput(t *testing.T) {
	conf, _ := setup(t, "")
	conf.DataPath = conf.DataPath + ".missing.osm"
	_, err := Render(context.Background(), conf, Options{})
	assert.Error(t, err)
}

func TestRenderMissingDest(t *testing.T) {
	conf, _ := setup(t, "")
	conf.DestPath = ""
	_, err := Render(context.Background(), conf, Options{})
	assert.Error(t, err)
}
