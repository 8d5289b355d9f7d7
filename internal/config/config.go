// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the YAML settings shared by the commands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cacheeval/simfig/derive"
	"github.com/cacheeval/simfig/simlog"
)

// Config holds the settings of all phases. Keys absent from the file
// keep their Default values.
type Config struct {
	Manifest  string `yaml:"manifest"`
	OutputDir string `yaml:"output_dir"`
	Parse     Parse  `yaml:"parse"`
	Derive    Derive `yaml:"derive"`
}

// Parse configures log parsing.
type Parse struct {
	CacheSize     float64 `yaml:"cache_size"`
	IgnoreObjSize int64   `yaml:"ignore_obj_size"`
}

// Derive configures metric derivation.
type Derive struct {
	RoundPlaces      int   `yaml:"round_places"`
	IgnoreObjSize    int64 `yaml:"ignore_obj_size"`
	MinRealCacheSize int64 `yaml:"min_real_cache_size"`
	MinRequests      int64 `yaml:"min_requests"`
}

// Default returns the built-in configuration.
func Default() Config {
	p := simlog.DefaultParser()
	d := derive.DefaultOptions()
	return Config{
		Manifest:  "datasets.txt",
		OutputDir: "data",
		Parse: Parse{
			CacheSize:     p.CacheSize,
			IgnoreObjSize: p.IgnoreObjSize,
		},
		Derive: Derive{
			RoundPlaces:      d.RoundPlaces,
			IgnoreObjSize:    d.IgnoreObjSize,
			MinRealCacheSize: d.MinRealCacheSize,
			MinRequests:      d.MinRequests,
		},
	}
}

// Load reads the configuration file at path over Default. Unknown keys
// are an error. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports settings no run could use.
func (c Config) Validate() error {
	switch {
	case c.Parse.CacheSize <= 0:
		return fmt.Errorf("parse.cache_size must be positive, got %g", c.Parse.CacheSize)
	case c.Derive.RoundPlaces < 0:
		return fmt.Errorf("derive.round_places must not be negative, got %d", c.Derive.RoundPlaces)
	}
	return nil
}

// Parser returns the simlog.Parser for c.
func (c Config) Parser() simlog.Parser {
	return simlog.Parser{
		CacheSize:     c.Parse.CacheSize,
		IgnoreObjSize: c.Parse.IgnoreObjSize,
	}
}

// Options returns the derive.Options for c.
func (c Config) Options() derive.Options {
	return derive.Options{
		RoundPlaces:      c.Derive.RoundPlaces,
		IgnoreObjSize:    c.Derive.IgnoreObjSize,
		MinRealCacheSize: c.Derive.MinRealCacheSize,
		MinRequests:      c.Derive.MinRequests,
	}
}
