// Package config reads the optional tabrhythm.yaml file.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`
	Quantize struct {
		BeatDuration    int     `yaml:"beatDuration"`
		MeasureDuration float64 `yaml:"measureDuration"`
	} `yaml:"quantize"`
	Convert struct {
		Difficulty int     `yaml:"difficulty"`
		MidiTempo  float64 `yaml:"midiTempo"` // 0 uses the arrangement's average tempo
	} `yaml:"convert"`
	Watch struct {
		Interval time.Duration `yaml:"interval"`
		Debounce time.Duration `yaml:"debounce"`
	} `yaml:"watch"`
}

func Default() *Config {
	var c Config
	c.Server.Addr = ":8080"
	c.Server.AllowedOrigins = []string{"*"}
	c.Quantize.BeatDuration = 48
	c.Quantize.MeasureDuration = 192
	c.Convert.Difficulty = 100
	c.Watch.Interval = 500 * time.Millisecond
	c.Watch.Debounce = time.Second
	return &c
}

// Load returns the defaults when path does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %v", path)
	}
	c, err := Parse(data)
	return c, errors.Wrapf(err, "parsing config %v", path)
}

// Parse overlays data onto the defaults.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}
