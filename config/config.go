package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"runtime"

	"gopkg.in/yaml.v2"

	"github.com/omniscale/osmrender/logging"
	"github.com/omniscale/osmrender/parser"
)

const (
	ProjectionFlat     = "flat"
	ProjectionMercator = "mercator"
)

const defaultCacheDir = ".cache"
const defaultProjection = ProjectionFlat
const defaultLogLevel = "info"

type Config struct {
	DataPath    string  `yaml:"data_path"`
	DestPath    string  `yaml:"dest_path"`
	TopLeftLon  float64 `yaml:"top_left_lon"`
	TopLeftLat  float64 `yaml:"top_left_lat"`
	PxPerDeg    float64 `yaml:"px_per_deg"`
	WidthPx     int     `yaml:"width_px"`
	HeightPx    int     `yaml:"height_px"`
	Projection  string  `yaml:"projection"`
	CacheDir    string  `yaml:"cache_dir"`
	Minify      bool    `yaml:"minify"`
	Concurrency int     `yaml:"concurrency"`
	LogLevel    string  `yaml:"log_level"`
	Select      Select  `yaml:"select"`
}

// Select lists the IDs of the elements to render. Without any IDs the whole
// input is rendered. Otherwise only the listed elements and the lines and
// points they reference are rendered. Empty lists then select nothing
// beyond those references.
type Select struct {
	Points     []int64 `yaml:"points"`
	Lines      []int64 `yaml:"lines"`
	Composites []int64 `yaml:"composites"`
}

func FromFile(filename string) (*Config, error) {
	b, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return New(b)
}

// New parses a YAML config and sets defaults for all missing options.
// Unknown options are an error.
func New(b []byte) (*Config, error) {
	conf := Config{}
	if err := yaml.UnmarshalStrict(b, &conf); err != nil {
		return nil, err
	}
	conf.setDefaults()
	return &conf, nil
}

func (c *Config) setDefaults() {
	if c.Projection == "" {
		c.Projection = defaultProjection
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir
	}
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// Check returns all errors of the config.
func (c *Config) Check() []error {
	errs := []error{}
	if c.DataPath == "" {
		errs = append(errs, errors.New("missing data_path"))
	}
	if c.PxPerDeg <= 0 {
		errs = append(errs, fmt.Errorf("px_per_deg needs to be positive, got %v", c.PxPerDeg))
	}
	if c.WidthPx <= 0 || c.HeightPx <= 0 {
		errs = append(errs, fmt.Errorf("invalid image size %dx%d", c.WidthPx, c.HeightPx))
	}
	if c.Projection != ProjectionFlat && c.Projection != ProjectionMercator {
		errs = append(errs, fmt.Errorf("unknown projection %q, only %s or %s are supported",
			c.Projection, ProjectionFlat, ProjectionMercator))
	}
	if c.TopLeftLat < -85.0511 || c.TopLeftLat > 85.0511 {
		errs = append(errs, fmt.Errorf("top_left_lat %v out of range", c.TopLeftLat))
	}
	if c.TopLeftLon < -180 || c.TopLeftLon > 180 {
		errs = append(errs, fmt.Errorf("top_left_lon %v out of range", c.TopLeftLon))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log_level %q", c.LogLevel))
	}
	return errs
}

// Selection returns the decoder selection for the select option.
func (c *Config) Selection() parser.Selection {
	sel := parser.Selection{}
	if len(c.Select.Points) > 0 {
		sel.Points = parser.NewIDSet(c.Select.Points...)
	}
	if len(c.Select.Lines) > 0 {
		sel.Lines = parser.NewIDSet(c.Select.Lines...)
	}
	if len(c.Select.Composites) > 0 {
		sel.Composites = parser.NewIDSet(c.Select.Composites...)
	}
	return sel
}

// ReportErrors prints all errors and exits.
func ReportErrors(errs []error) {
	fmt.Fprintln(os.Stderr, "errors in config/options:")
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "\t%s\n", err)
	}
	os.Exit(1)
}
