package application

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Config drives one extension run.
type Config struct {
	// Stations maps reference station codes to display names. Every input
	// file is extended once per reference station.
	Stations map[int]string `yaml:"stations"`

	// MaxAboveMax and MaxBelowMin bound how many stations may violate their
	// historical amplitude envelope before an analog candidate is rejected.
	MaxAboveMax int `yaml:"max_above_max"`
	MaxBelowMin int `yaml:"max_below_min"`

	// Horizon overrides the forecast length in months. Zero extends to the
	// end of the analog start period's calendar year.
	Horizon int `yaml:"horizon"`

	// Workers sets the batch worker count. One worker reproduces the
	// strictly sequential used-year accumulation of a single-threaded run.
	Workers int `yaml:"workers"`

	// OutputDir names the subdirectory of the input folder that receives
	// the extended files.
	OutputDir string `yaml:"output_dir"`

	// ReportFile names the run report written into the input folder.
	ReportFile string `yaml:"report_file"`
}

// DefaultConfig returns the production defaults: the four reference stations
// of the interconnected system and an amplitude tolerance of 80 stations.
func DefaultConfig() *Config {
	return &Config{
		Stations: map[int]string{
			6:   "FURNAS",
			74:  "GBM",
			169: "SOBRADINHO",
			275: "TUCURUI",
		},
		MaxAboveMax: 80,
		MaxBelowMin: 80,
		Workers:     1,
		OutputDir:   "saida_vaz20",
		ReportFile:  "vaz20.log",
	}
}

// LoadConfig reads a yaml config, filling unset fields from the defaults.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := DefaultConfig()
	// yaml merges into a non-nil map, which would mix configured stations
	// with the defaults; a config that names stations replaces them instead.
	c.Stations = nil
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if c.Stations == nil {
		c.Stations = DefaultConfig().Stations
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Validate checks the config for values the run cannot proceed with.
func (c *Config) Validate() error {
	if len(c.Stations) == 0 {
		return fmt.Errorf("no reference stations configured")
	}
	if c.MaxAboveMax < 0 || c.MaxBelowMin < 0 {
		return fmt.Errorf("amplitude limits must be non-negative (got %d/%d)", c.MaxAboveMax, c.MaxBelowMin)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (got %d)", c.Workers)
	}
	if c.OutputDir == "" || c.ReportFile == "" {
		return fmt.Errorf("output_dir and report_file must be set")
	}
	return nil
}

// StationOrder returns the reference station codes in ascending order so a
// run visits them deterministically.
func (c *Config) StationOrder() []int {
	codes := make([]int, 0, len(c.Stations))
	for code := range c.Stations {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}
