package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/calc/keypad"
)

// config is the configuration that may come from a file.
type config struct {
	// Precision is the number of bits for precise evaluation, or 0 to
	// evaluate in float64.
	Precision     uint   `yaml:"precision"`
	Locale        string `yaml:"locale"`
	RightAssocPow bool   `yaml:"right-assoc-pow"`
	HistoryFile   string `yaml:"history-file"`
	HistoryLimit  int    `yaml:"history-limit"`
	Debug         bool   `yaml:"debug"`
}

func defaultConfig() config {
	return config{HistoryLimit: keypad.DefaultLimit}
}

// parse reads the configuration file. Settings absent from the file keep
// their current values.
func (c *config) parse(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := yaml.Unmarshal(buf, c); err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}
	return nil
}

// config file name kingpin.Value
// parses configuration on value set
type configValue struct {
	c *config // configuration to fill
	v string  // configuration path
}

func (f *configValue) Set(s string) error {
	f.v = s
	return f.c.parse(f.v)
}

func (f *configValue) String() string {
	return f.v
}
