package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is a specification of barcode -> output files
type Config struct {
	Inputs       []string          `json:"inputs"`       // A list of file strings
	Destinations map[string]string `json:"destinations"` // Map of barcode sequences to output filenames
	Mismatches   int               `json:"mismatches"`
	Threads      int               `json:"threads"`
	HasQuality   *bool             `json:"has_quality"` // Defaults to true
	Phred64      bool              `json:"phred64"`
}

func readConfigFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return configFromJSON(data)
}

// hasQuality is true unless the config turns it off.
func (c *Config) hasQuality() bool {
	return c.HasQuality == nil || *c.HasQuality
}

func (c *Config) applyMismatches() (conflicts []string) {
	if c.Mismatches == 0 {
		return
	}
	newDests := make(map[string]string)

	for bc, dest := range c.Destinations {
		newBarcodes := mismatches(bc, c.Mismatches)
		for _, newbc := range newBarcodes {
			if prev, conflict := newDests[newbc]; conflict && prev != dest {
				conflicts = append(conflicts, newbc)
			}
			newDests[newbc] = dest
		}
	}
	for _, conflict := range conflicts {
		delete(newDests, conflict)
	}
	c.Destinations = newDests
	c.Mismatches = 0
	return conflicts
}

func configFromJSON(data []byte) (*Config, error) {
	c := Config{}
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if len(c.Inputs) == 0 {
		return nil, fmt.Errorf("config has no inputs")
	}
	if c.Mismatches < 0 {
		return nil, fmt.Errorf("mismatches must not be negative, got %d", c.Mismatches)
	}
	return &c, nil
}
