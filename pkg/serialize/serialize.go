// Package serialize runs the full pipeline: scan, score, order, pack and
// deliver chunks.
package serialize

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/repochunk/repochunk/pkg/checksum"
	"github.com/repochunk/repochunk/pkg/chunk"
	"github.com/repochunk/repochunk/pkg/config"
	"github.com/repochunk/repochunk/pkg/errors"
	"github.com/repochunk/repochunk/pkg/history"
	"github.com/repochunk/repochunk/pkg/observability"
	"github.com/repochunk/repochunk/pkg/priority"
	"github.com/repochunk/repochunk/pkg/scan"
	"github.com/repochunk/repochunk/pkg/sink"
)

// ManifestPrefix starts the name of the manifest written in directory mode.
const ManifestPrefix = "repochunk-"

// Result describes a finished run.
type Result struct {
	Files  int
	Chunks int
	// The remaining fields are set in directory mode only.
	OutputDir    string
	Checksum     string
	ManifestPath string
	Written      []sink.Written
}

// Manifest is the JSON index written next to the chunk files.
type Manifest struct {
	Checksum string         `json:"checksum"`
	Files    int            `json:"files"`
	Mode     string         `json:"mode"`
	Capacity int            `json:"capacity"`
	Chunks   []sink.Written `json:"chunks"`
}

// Serializer runs one configuration against its input directories.
type Serializer struct {
	cfg     *config.Config
	stdout  io.Writer
	logger  observability.Logger
	metrics *observability.Metrics
}

// New creates a serializer. stdout receives chunks in stream mode.
func New(cfg *config.Config, stdout io.Writer, logger observability.Logger) *Serializer {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Serializer{
		cfg:     cfg,
		stdout:  stdout,
		logger:  logger,
		metrics: observability.NewMetrics(),
	}
}

// Metrics returns the run counters.
func (s *Serializer) Metrics() *observability.Metrics {
	return s.metrics
}

// Run serializes every input directory. Configuration problems are logged
// as warnings and the run continues; I/O and traversal errors abort it.
func (s *Serializer) Run(ctx context.Context) (*Result, error) {
	for _, verr := range config.NewValidator().Validate(s.cfg) {
		s.logger.Warn("invalid configuration", observability.String("field", verr.Field), observability.String("problem", verr.Error()))
	}

	packer := s.newPacker()
	dirs := s.inputDirs()

	if s.cfg.Stream {
		files, chunks, err := s.serialize(ctx, dirs, packer, sink.NewStream(s.stdout), nil)
		if err != nil {
			return nil, err
		}
		s.metrics.Log(s.logger)
		return &Result{Files: files, Chunks: chunks}, nil
	}

	outDir := s.cfg.OutputDir
	if outDir == "" {
		outDir = config.DefaultOutputDir()
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.IOError("create output directory", err).WithContext("path", outDir)
	}
	dirSink := sink.NewDir(outDir)

	var (
		files, chunks int
		sum           string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		files, chunks, err = s.serialize(gctx, dirs, packer, dirSink, []string{outDir})
		return err
	})
	g.Go(func() error {
		var err error
		sum, err = checksum.Compute(gctx, dirs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Files:     files,
		Chunks:    chunks,
		OutputDir: outDir,
		Checksum:  sum,
		Written:   dirSink.Written(),
	}
	manifest := Manifest{
		Checksum: sum,
		Files:    files,
		Mode:     packer.Mode().String(),
		Capacity: packer.Capacity(),
		Chunks:   res.Written,
	}
	path, err := writeManifest(outDir, manifest)
	if err != nil {
		return nil, err
	}
	res.ManifestPath = path
	s.metrics.Log(s.logger)
	return res, nil
}

// serialize runs scan, score, order and pack, delivering chunks to out.
func (s *Serializer) serialize(ctx context.Context, dirs []string, packer *chunk.Packer, out sink.Sink, exclude []string) (int, int, error) {
	entries, err := s.Collect(ctx, dirs, exclude)
	if err != nil {
		return 0, 0, err
	}
	priority.Order(entries)

	n, err := packer.Pack(entries, func(c chunk.Payload) error {
		if err := out.Write(ctx, c); err != nil {
			return err
		}
		s.metrics.RecordChunk(c.Text, c.Forced)
		return nil
	})
	return len(entries), n, err
}

// Collect scans dirs and assigns every file its priority. Entries are in
// discovery order: directory by directory, lexical within each.
func (s *Serializer) Collect(ctx context.Context, dirs []string, exclude []string) ([]priority.FileEntry, error) {
	scanner := scan.NewScanner(scan.Options{
		IgnorePatterns:   s.cfg.IgnorePatterns,
		BinaryExtensions: s.cfg.BinaryExtensions,
		Exclude:          exclude,
		Logger:           s.logger,
		Metrics:          s.metrics,
	})

	var all []priority.FileEntry
	for _, dir := range dirs {
		entries, err := scanner.Scan(ctx, dir)
		if err != nil {
			return nil, err
		}

		recency := priority.NoRecency()
		if times, ok := history.NewReader(dir, s.logger).CommitTimes(ctx); ok {
			recency = priority.RankRecency(times, s.cfg.GitBoostMax)
		}
		scorer := priority.NewScorer(s.cfg.PriorityRules, recency)
		for _, p := range scorer.InvalidPatterns() {
			s.logger.Debug("priority pattern does not compile, it will never match", observability.String("pattern", p))
		}
		scorer.Apply(entries)

		s.logger.Debug("scanned input directory",
			observability.String("dir", dir),
			observability.Int("files", len(entries)),
			observability.Bool("git_recency", recency.Active()),
		)
		all = append(all, entries...)
	}
	return all, nil
}

func (s *Serializer) newPacker() *chunk.Packer {
	capacity, err := s.cfg.Capacity()
	if err != nil || capacity <= 0 {
		s.logger.Warn("unusable max_size, using default capacity",
			observability.String("max_size", s.cfg.MaxSize),
			observability.Int("capacity", chunk.DefaultCapacity),
		)
		capacity = chunk.DefaultCapacity
	}
	return chunk.NewPacker(chunk.Options{
		Capacity: capacity,
		Mode:     s.cfg.Mode(),
		Logger:   s.logger,
	})
}

func (s *Serializer) inputDirs() []string {
	if len(s.cfg.InputDirs) == 0 {
		return []string{"."}
	}
	return s.cfg.InputDirs
}

// writeManifest writes <outDir>/repochunk-<checksum>.json.
func writeManifest(outDir string, m Manifest) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", errors.IOError("encode manifest", err)
	}
	path := filepath.Join(outDir, fmt.Sprintf("%s%s.json", ManifestPrefix, m.Checksum))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", errors.IOError("write manifest", err).WithContext("path", path)
	}
	return path, nil
}
