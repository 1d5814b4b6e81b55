// Copyright 2026 Repochunk Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"fmt"
	"os"
)

const (
	// MinRuleScore and MaxRuleScore bound a single priority rule's score.
	MinRuleScore = 0
	MaxRuleScore = 1000
)

// Validator validates configuration.
// Problems are collected, never fatal: callers report them and proceed.
type Validator struct {
	createOutputDir bool
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{createOutputDir: true}
}

// DryRun disables creating the output directory while validating it.
func (v *Validator) DryRun() *Validator {
	v.createOutputDir = false
	return v
}

// Validate returns every problem found in cfg.
func (v *Validator) Validate(cfg *Config) []ValidationError {
	var errs []ValidationError
	errs = append(errs, v.ValidateRules(cfg)...)
	errs = append(errs, v.ValidateSize(cfg)...)
	errs = append(errs, v.ValidateOutputDir(cfg)...)
	return errs
}

// ValidateRules checks score ranges and empty patterns.
func (v *Validator) ValidateRules(cfg *Config) []ValidationError {
	var errs []ValidationError
	for i, rule := range cfg.PriorityRules {
		if rule.Score < MinRuleScore || rule.Score > MaxRuleScore {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("priority_rules[%d].score", i),
				Value:   rule.Score,
				Message: fmt.Sprintf("must be between %d and %d", MinRuleScore, MaxRuleScore),
			})
		}
		if rule.Pattern == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("priority_rules[%d].pattern", i),
				Message: "must not be empty",
			})
		}
	}
	return errs
}

// ValidateSize checks that max_size parses to a positive capacity.
func (v *Validator) ValidateSize(cfg *Config) []ValidationError {
	size := cfg.EffectiveSize()
	if size == "" {
		return nil
	}
	n, err := ParseSize(size, cfg.TokenMode)
	if err != nil {
		return []ValidationError{{Field: "max_size", Value: cfg.MaxSize, Message: err.Error()}}
	}
	if n <= 0 {
		return []ValidationError{{Field: "max_size", Value: cfg.MaxSize, Message: "must be greater than 0"}}
	}
	return nil
}

// ValidateOutputDir checks that the output path is, or can become, a directory.
func (v *Validator) ValidateOutputDir(cfg *Config) []ValidationError {
	if cfg.Stream || cfg.OutputDir == "" {
		return nil
	}

	info, err := os.Stat(cfg.OutputDir)
	if err == nil && !info.IsDir() {
		return []ValidationError{{
			Field:   "output_dir",
			Value:   cfg.OutputDir,
			Message: "exists but is not a directory",
		}}
	}
	if err == nil || !v.createOutputDir {
		return nil
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return []ValidationError{{
			Field:   "output_dir",
			Value:   cfg.OutputDir,
			Message: fmt.Sprintf("cannot create directory: %v", err),
		}}
	}
	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation error for %s: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}
