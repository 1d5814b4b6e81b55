// Copyright 2026 Repochunk Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"os"
	"path/filepath"

	"github.com/repochunk/repochunk/pkg/priority"
)

// DefaultMaxSize is the default chunk capacity in byte mode.
const DefaultMaxSize = "10MB"

// DefaultTokenSize is the capacity used in token mode when max_size was
// left at DefaultMaxSize.
const DefaultTokenSize = "128K"

// DefaultConfig returns the default configuration.
// These values are used when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		InputDirs:   []string{"."},
		MaxSize:     DefaultMaxSize,
		GitBoostMax: priority.DefaultMaxBoost,
	}
}

// DefaultOutputDir returns the directory used for chunk files when none is
// configured.
func DefaultOutputDir() string {
	return filepath.Join(os.TempDir(), "repochunk-output")
}
