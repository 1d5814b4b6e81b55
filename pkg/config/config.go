// Copyright 2026 Repochunk Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package config provides configuration management for repochunk.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Config file: --config, or the first repochunk.toml / repochunk.yaml
//    found walking up from the first input directory
// 3. Environment Variables: REPOCHUNK_*
// 4. Command-line flags (applied by the CLI)
package config

import (
	"github.com/repochunk/repochunk/pkg/chunk"
	"github.com/repochunk/repochunk/pkg/priority"
)

// Config represents the complete application configuration.
type Config struct {
	// InputDirs are the directories to serialize. Set by the CLI.
	InputDirs []string `yaml:"-" toml:"-"`

	IgnorePatterns   []string        `yaml:"ignore_patterns" toml:"ignore_patterns"`
	PriorityRules    []priority.Rule `yaml:"priority_rules" toml:"priority_rules"`
	BinaryExtensions []string        `yaml:"binary_extensions" toml:"binary_extensions"`

	// MaxSize is the chunk capacity, e.g. "10MB" or "128K" in token mode.
	MaxSize   string `yaml:"max_size" toml:"max_size"`
	TokenMode bool   `yaml:"token_mode" toml:"token_mode"`

	// OutputDir receives chunk files when not streaming.
	OutputDir string `yaml:"output_dir" toml:"output_dir"`
	Stream    bool   `yaml:"stream" toml:"stream"`

	// GitBoostMax is the recency boost of the most recently changed file.
	GitBoostMax int  `yaml:"git_boost_max" toml:"git_boost_max"`
	Debug       bool `yaml:"debug" toml:"debug"`
}

// Mode returns the chunk measurement mode selected by TokenMode.
func (c *Config) Mode() chunk.Mode {
	if c.TokenMode {
		return chunk.ModeTokens
	}
	return chunk.ModeBytes
}

// EffectiveSize returns the size string Capacity parses. In token mode the
// untouched byte default is replaced by DefaultTokenSize.
func (c *Config) EffectiveSize() string {
	if c.TokenMode && c.MaxSize == DefaultMaxSize {
		return DefaultTokenSize
	}
	return c.MaxSize
}

// Capacity parses the effective size under the active mode. An empty
// MaxSize yields chunk.DefaultCapacity.
func (c *Config) Capacity() (int, error) {
	size := c.EffectiveSize()
	if size == "" {
		return chunk.DefaultCapacity, nil
	}
	return ParseSize(size, c.TokenMode)
}

// LogLevel returns the logger level for the Debug flag.
func (c *Config) LogLevel() string {
	if c.Debug {
		return "debug"
	}
	return "info"
}
