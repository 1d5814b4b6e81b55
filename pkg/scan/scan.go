// Package scan walks input directories and collects their text files.
package scan

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/repochunk/repochunk/pkg/errors"
	"github.com/repochunk/repochunk/pkg/observability"
	"github.com/repochunk/repochunk/pkg/priority"
)

// sniffLen is how many leading bytes are checked for NUL.
const sniffLen = 512

// DefaultIgnorePatterns are always applied in addition to user patterns.
// They are anchored at path segment boundaries so lookalike names such as
// legit/ or package-lock-json.md are kept.
var DefaultIgnorePatterns = []string{
	`(^|/)\.git/`,
	`(^|/)\.svn/`,
	`(^|/)\.hg/`,
	`(^|/)node_modules/`,
	`(^|/)__pycache__/`,
	`^target/`,
	`^vendor/`,
	`(^|/)\.DS_Store$`,
	`(^|/)package-lock\.json$`,
	`(^|/)yarn\.lock$`,
	`(^|/)pnpm-lock\.yaml$`,
	`(^|/)Cargo\.lock$`,
	`(^|/)repochunk-output/`,
}

// Options configures a Scanner.
type Options struct {
	IgnorePatterns   []string
	BinaryExtensions []string
	// Exclude holds absolute paths skipped entirely, such as the output directory.
	Exclude []string
	Logger  observability.Logger
	Metrics *observability.Metrics
}

// Scanner collects text files below a root directory.
type Scanner struct {
	ignore     []priority.Matcher
	binaryExts map[string]bool
	exclude    []string
	logger     observability.Logger
	metrics    *observability.Metrics
}

// NewScanner creates a scanner. Ignore patterns follow the same rules as
// priority patterns: literals match as substrings, others as expressions.
func NewScanner(opts Options) *Scanner {
	s := &Scanner{
		binaryExts: make(map[string]bool, len(BinaryExtensions)+len(opts.BinaryExtensions)),
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}
	if s.logger == nil {
		s.logger = observability.Nop()
	}
	if s.metrics == nil {
		s.metrics = observability.NewMetrics()
	}

	for _, p := range append(append([]string(nil), DefaultIgnorePatterns...), opts.IgnorePatterns...) {
		if p == "" {
			continue
		}
		m, ok := priority.NewMatcher(p)
		if !ok {
			s.logger.Debug("ignore pattern does not compile, it will never match", observability.String("pattern", p))
		}
		s.ignore = append(s.ignore, m)
	}
	for _, ext := range BinaryExtensions {
		s.binaryExts[ext] = true
	}
	for _, ext := range opts.BinaryExtensions {
		s.binaryExts[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	for _, ex := range opts.Exclude {
		if abs, err := filepath.Abs(ex); err == nil {
			s.exclude = append(s.exclude, abs)
		}
	}
	return s
}

// Scan walks root in lexical order and returns its text files with paths
// relative to root, using forward slashes. Priorities are left at zero.
func (s *Scanner) Scan(ctx context.Context, root string) ([]priority.FileEntry, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.TraversalError("resolve input directory", err).WithContext("dir", root)
	}

	var entries []priority.FileEntry
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return errors.TraversalError("walk input directory", walkErr).WithContext("path", path)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == absRoot {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return errors.TraversalError("relativize path", err).WithContext("path", path)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if s.excluded(path) || s.ignored(rel+"/") {
				s.logger.Debug("skipping directory", observability.String("path", rel))
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || s.excluded(path) || s.ignored(rel) {
			return nil
		}

		entry, ok, err := s.read(path, rel)
		if err != nil {
			return err
		}
		if ok {
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// read loads one file. ok is false for binary files.
func (s *Scanner) read(path, rel string) (priority.FileEntry, bool, error) {
	if s.IsBinaryExtension(rel) {
		s.logger.Debug("skipping binary file", observability.String("path", rel))
		s.metrics.RecordSkipped()
		return priority.FileEntry{}, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return priority.FileEntry{}, false, errors.IOError(fmt.Sprintf("read %s", rel), err)
	}
	if LooksBinary(data) {
		s.logger.Debug("skipping binary file", observability.String("path", rel))
		s.metrics.RecordSkipped()
		return priority.FileEntry{}, false, nil
	}

	s.metrics.RecordFile()
	return priority.FileEntry{Path: rel, Content: Decode(data)}, true, nil
}

func (s *Scanner) ignored(rel string) bool {
	for _, m := range s.ignore {
		if m.Match(rel) {
			return true
		}
	}
	return false
}

func (s *Scanner) excluded(abs string) bool {
	for _, ex := range s.exclude {
		if abs == ex {
			return true
		}
	}
	return false
}

// IsBinaryExtension reports whether the file extension marks path as binary.
func (s *Scanner) IsBinaryExtension(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return ext != "" && s.binaryExts[ext]
}

// LooksBinary reports whether data has a NUL byte in its first 512 bytes.
func LooksBinary(data []byte) bool {
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// Decode converts file bytes to text, replacing invalid UTF-8 with U+FFFD.
func Decode(data []byte) string {
	return strings.ToValidUTF8(string(data), "�")
}
