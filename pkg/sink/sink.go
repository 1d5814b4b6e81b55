// Package sink delivers packed chunks to stdout or to a directory of files.
package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/repochunk/repochunk/pkg/chunk"
	"github.com/repochunk/repochunk/pkg/errors"
)

// Sink receives chunks one at a time, in emission order.
type Sink interface {
	Write(ctx context.Context, c chunk.Payload) error
}

// flusher is implemented by buffered writers.
type flusher interface {
	Flush() error
}

// syncer is implemented by *os.File.
type syncer interface {
	Sync() error
}

// Stream writes each chunk's text to an output stream and flushes it.
type Stream struct {
	w io.Writer
}

// NewStream creates a stream sink on w.
func NewStream(w io.Writer) *Stream {
	return &Stream{w: w}
}

// Write writes the chunk text verbatim.
func (s *Stream) Write(ctx context.Context, c chunk.Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := io.WriteString(s.w, c.Text); err != nil {
		return errors.IOError("write chunk to stream", err).WithContext("chunk", c.Index)
	}
	switch w := s.w.(type) {
	case flusher:
		if err := w.Flush(); err != nil {
			return errors.IOError("flush stream", err)
		}
	case syncer:
		// Sync fails on pipes and terminals; those are already unbuffered.
		_ = w.Sync()
	}
	return nil
}

// Written is one file produced by a Dir sink. Overwritten is set when a
// later chunk of the same run resolved to the same file, as the parts of a
// split file do; the file then holds that later chunk.
type Written struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	Overwritten bool   `json:"overwritten,omitempty"`
}

// Dir writes each chunk to <dir>/<name>.txt, where name comes from the
// chunk's first record header.
type Dir struct {
	root    string
	mu      sync.Mutex
	written []Written
}

// NewDir creates a directory sink rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the output directory.
func (d *Dir) Root() string {
	return d.root
}

// Write writes the chunk, creating parent directories and overwriting any
// existing file of the same name. Every part of a split file is named after
// that file, so only the last part survives on disk; earlier entries for the
// same path are marked Overwritten.
func (d *Dir) Write(ctx context.Context, c chunk.Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := FileName(c)
	dest := filepath.Join(d.root, filepath.FromSlash(name)+".txt")
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.IOError("create output directory", err).WithContext("path", filepath.Dir(dest))
	}
	if err := os.WriteFile(dest, []byte(c.Text), 0o644); err != nil {
		return errors.IOError("write chunk file", err).WithContext("path", dest)
	}

	d.mu.Lock()
	for i := range d.written {
		if d.written[i].Path == dest {
			d.written[i].Overwritten = true
		}
	}
	d.written = append(d.written, Written{Index: c.Index, Name: name, Path: dest})
	d.mu.Unlock()
	return nil
}

// Written returns the files written so far, in write order.
func (d *Dir) Written() []Written {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Written(nil), d.written...)
}

// FileName derives the output name of a chunk: the path of its first
// ">>>>" header up to the first ':', or chunk-<index> when there is none.
func FileName(c chunk.Payload) string {
	for _, line := range strings.Split(c.Text, "\n") {
		if !strings.HasPrefix(line, ">>>>") {
			continue
		}
		header := strings.TrimSpace(strings.TrimPrefix(line, ">>>>"))
		if i := strings.IndexByte(header, ':'); i >= 0 {
			header = header[:i]
		}
		if header != "" {
			return header
		}
		break
	}
	return fmt.Sprintf("chunk-%d", c.Index)
}
