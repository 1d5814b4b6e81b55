// Copyright 2026 Repochunk Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/repochunk/repochunk/pkg/errors"
)

const (
	// EnvPrefix is the prefix for all environment variables.
	EnvPrefix = "REPOCHUNK"
)

// ConfigFileNames are searched for, in order, in each directory.
var ConfigFileNames = []string{
	"repochunk.toml",
	"repochunk.yaml",
	"repochunk.yml",
	".repochunk.yaml",
}

// Loader loads configuration from files and environment.
type Loader struct {
	configFile string
	startDir   string
	skipEnv    bool
}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{}
}

// WithConfigFile sets an explicit config file, disabling discovery.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// WithStartDir sets the directory where config discovery begins.
func (l *Loader) WithStartDir(dir string) *Loader {
	l.startDir = dir
	return l
}

// SkipEnv skips environment overrides.
func (l *Loader) SkipEnv() *Loader {
	l.skipEnv = true
	return l
}

// Load loads configuration with full precedence order:
// 1. Defaults
// 2. Config file (explicit, or discovered from the start directory upward)
// 3. Environment Variables (REPOCHUNK_*)
//
// It returns the path of the file used, or "" when only defaults apply.
// A missing explicit file is an error; a missing discovered file is not.
func (l *Loader) Load() (*Config, string, error) {
	path := l.configFile
	if path == "" {
		start := l.startDir
		if start == "" {
			start = "."
		}
		if found, ok := FindConfigFile(start); ok {
			path = found
		}
	}

	cfg := DefaultConfig()
	if path != "" {
		loaded, err := l.LoadFromPath(path)
		if err != nil {
			return nil, path, err
		}
		cfg = loaded
	}

	if !l.skipEnv {
		if err := l.applyEnvOverrides(cfg); err != nil {
			return nil, path, err
		}
	}
	return cfg, path, nil
}

// LoadFromPath loads configuration from a specific path on top of the
// defaults. The format is chosen by extension: .toml, or YAML otherwise.
func (l *Loader) LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to read config file: %s", path), err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to parse config file: %s", path), err)
	}

	return cfg, nil
}

// applyEnvOverrides applies REPOCHUNK_* environment variables.
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for _, key := range []string{"max_size", "output_dir", "stream", "debug", "git_boost_max", "ignore_patterns"} {
		if err := v.BindEnv(key); err != nil {
			return errors.ConfigError("bind environment variable", err).WithContext("key", key)
		}
	}
	if err := v.BindEnv("token_mode", EnvPrefix+"_TOKENS", EnvPrefix+"_TOKEN_MODE"); err != nil {
		return errors.ConfigError("bind environment variable", err).WithContext("key", "token_mode")
	}

	if v.IsSet("max_size") {
		cfg.MaxSize = v.GetString("max_size")
	}
	if v.IsSet("output_dir") {
		cfg.OutputDir = v.GetString("output_dir")
	}
	if v.IsSet("stream") {
		cfg.Stream = v.GetBool("stream")
	}
	if v.IsSet("token_mode") {
		cfg.TokenMode = v.GetBool("token_mode")
	}
	if v.IsSet("debug") {
		cfg.Debug = v.GetBool("debug")
	}
	if v.IsSet("git_boost_max") {
		cfg.GitBoostMax = v.GetInt("git_boost_max")
	}
	if v.IsSet("ignore_patterns") {
		cfg.IgnorePatterns = append(cfg.IgnorePatterns, v.GetStringSlice("ignore_patterns")...)
	}
	return nil
}

// FindConfigFile searches start and its parent directories for one of
// ConfigFileNames.
func FindConfigFile(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return "", false
		}
		dir = parent
	}
}
