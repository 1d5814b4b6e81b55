// Copyright 2026 Repochunk Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package observability

import (
	"strings"
	"sync/atomic"

	"github.com/dustin/go-humanize"
)

// Metrics counts what a serialization run produced.
type Metrics struct {
	files   atomic.Int64
	skipped atomic.Int64
	chunks  atomic.Int64
	parts   atomic.Int64
	bytes   atomic.Int64
	lines   atomic.Int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordFile records one text file accepted into the input set.
func (m *Metrics) RecordFile() {
	m.files.Add(1)
}

// RecordSkipped records one file rejected as binary.
func (m *Metrics) RecordSkipped() {
	m.skipped.Add(1)
}

// RecordChunk records one emitted chunk and its text.
func (m *Metrics) RecordChunk(text string, forcedPart bool) {
	m.chunks.Add(1)
	if forcedPart {
		m.parts.Add(1)
	}
	m.bytes.Add(int64(len(text)))
	m.lines.Add(int64(strings.Count(text, "\n")))
}

// Snapshot is a point-in-time copy of Metrics.
type Snapshot struct {
	Files   int64
	Skipped int64
	Chunks  int64
	Parts   int64
	Bytes   int64
	Lines   int64
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Files:   m.files.Load(),
		Skipped: m.skipped.Load(),
		Chunks:  m.chunks.Load(),
		Parts:   m.parts.Load(),
		Bytes:   m.bytes.Load(),
		Lines:   m.lines.Load(),
	}
}

// Log writes the counters as one debug record.
func (m *Metrics) Log(l Logger) {
	s := m.Snapshot()
	l.Debug("run statistics",
		Any("files", s.Files),
		Any("skipped_binary", s.Skipped),
		Any("chunks", s.Chunks),
		Any("forced_parts", s.Parts),
		String("generated", humanize.IBytes(uint64(s.Bytes))),
		Any("lines", s.Lines),
	)
}
