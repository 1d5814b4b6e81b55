// Package chunk packs ordered file entries into size-bounded text chunks.
package chunk

import (
	"fmt"
	"strings"

	"github.com/repochunk/repochunk/pkg/observability"
	"github.com/repochunk/repochunk/pkg/priority"
)

// DefaultCapacity is the chunk capacity used when none is configured (10 MiB).
const DefaultCapacity = 10 * 1024 * 1024

// HeaderPrefix starts every record header line.
const HeaderPrefix = ">>>> "

// headerOverhead is added to every packed file's size to account for its header.
const headerOverhead = 10

// Payload is the text of one emitted chunk.
type Payload struct {
	Index int
	Text  string
	// Forced is set when the chunk holds one part of a split file.
	Forced bool
}

// EmitFunc receives each chunk as soon as it is complete.
// A non-nil error stops packing and is returned from Pack.
type EmitFunc func(Payload) error

// Options configures a Packer.
type Options struct {
	Capacity int
	Mode     Mode
	Logger   observability.Logger
}

// Packer greedily packs entries into chunks without reordering them.
type Packer struct {
	capacity int
	mode     Mode
	logger   observability.Logger
}

// NewPacker creates a packer. A non-positive capacity selects DefaultCapacity.
func NewPacker(opts Options) *Packer {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	logger := opts.Logger
	if logger == nil {
		logger = observability.Nop()
	}
	return &Packer{capacity: capacity, mode: opts.Mode, logger: logger}
}

// Capacity returns the effective chunk capacity.
func (p *Packer) Capacity() int {
	return p.capacity
}

// Mode returns the measurement mode.
func (p *Packer) Mode() Mode {
	return p.mode
}

// packState is the mutable state of one Pack call.
type packState struct {
	buf   strings.Builder
	used  int
	index int
	emit  EmitFunc
}

// flush emits the buffer as a chunk if it holds anything.
func (s *packState) flush() error {
	if s.buf.Len() == 0 {
		return nil
	}
	payload := Payload{Index: s.index, Text: s.buf.String()}
	s.buf.Reset()
	s.used = 0
	s.index++
	return s.emit(payload)
}

// emitPart emits one part of a forced split directly, bypassing the buffer.
func (s *packState) emitPart(path string, part int, slice string) error {
	payload := Payload{
		Index:  s.index,
		Text:   fmt.Sprintf("chunk %d\n%s%s:part %d\n%s\n", s.index, HeaderPrefix, path, part, slice),
		Forced: true,
	}
	s.index++
	return s.emit(payload)
}

// add appends one record to the buffer.
func (s *packState) add(path, content string, size int) {
	if s.buf.Len() == 0 {
		fmt.Fprintf(&s.buf, "chunk %d\n", s.index)
	}
	s.buf.WriteString(HeaderPrefix)
	s.buf.WriteString(path)
	s.buf.WriteByte('\n')
	s.buf.WriteString(content)
	s.buf.WriteByte('\n')
	s.used += size
}

// Pack consumes entries in order and emits chunks through emit.
// It returns the number of chunks emitted.
func (p *Packer) Pack(entries []priority.FileEntry, emit EmitFunc) (int, error) {
	st := &packState{emit: emit}

	for _, e := range entries {
		size := p.mode.Measure(e.Content)

		if size > p.capacity {
			if err := st.flush(); err != nil {
				return st.index, err
			}
			parts := p.mode.split(e.Content, p.capacity)
			p.logger.Debug("splitting oversized file",
				observability.String("path", e.Path),
				observability.Int("size", size),
				observability.Int("parts", len(parts)),
			)
			for n, slice := range parts {
				if p.mode == ModeBytes && !validRunes(slice) {
					p.logger.Debug("byte split cut a multi-byte character",
						observability.String("path", e.Path),
						observability.Int("part", n),
					)
				}
				if err := st.emitPart(e.Path, n, slice); err != nil {
					return st.index, err
				}
			}
			continue
		}

		add := size + headerOverhead + len(e.Path)
		if st.used+add > p.capacity && st.buf.Len() > 0 {
			if err := st.flush(); err != nil {
				return st.index, err
			}
		}
		st.add(e.Path, e.Content, add)
	}

	if err := st.flush(); err != nil {
		return st.index, err
	}
	return st.index, nil
}

// PackAll packs entries and collects every chunk in memory.
func (p *Packer) PackAll(entries []priority.FileEntry) ([]Payload, error) {
	var out []Payload
	_, err := p.Pack(entries, func(c Payload) error {
		out = append(out, c)
		return nil
	})
	return out, err
}
