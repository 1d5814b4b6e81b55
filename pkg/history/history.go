// Package history reads per-file last change times from git.
package history

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/repochunk/repochunk/pkg/errors"
	"github.com/repochunk/repochunk/pkg/observability"
	"github.com/repochunk/repochunk/pkg/priority"
)

// Reader queries git history for one directory.
type Reader struct {
	dir    string
	git    string
	logger observability.Logger
}

// NewReader creates a history reader for dir.
func NewReader(dir string, logger observability.Logger) *Reader {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Reader{dir: dir, git: "git", logger: logger}
}

// IsGitRepo checks if the directory is inside a git work tree
func (r *Reader) IsGitRepo(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, r.git, "rev-parse", "--is-inside-work-tree")
	cmd.Dir = r.dir
	out, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// CommitTimes returns the last commit time of every file changed in the
// history of the directory, keyed by path relative to the directory.
// The boolean is false when there is no usable history; that is not an error.
func (r *Reader) CommitTimes(ctx context.Context) (priority.RecencyMap, bool) {
	if !r.IsGitRepo(ctx) {
		r.logger.Debug("no git repository found, skipping git-based prioritization",
			observability.String("dir", r.dir))
		return nil, false
	}

	out, err := r.log(ctx)
	if err != nil {
		r.logger.Debug("git log failed, skipping git-based prioritization", observability.Err(err))
		return nil, false
	}

	times := ParseLog(out)
	if len(times) == 0 {
		r.logger.Debug("no timestamps found, skipping git-based prioritization")
		return nil, false
	}
	r.logger.Debug("loaded commit times", observability.Int("files", len(times)))
	return times, true
}

// log runs git log and returns its stdout.
func (r *Reader) log(ctx context.Context) ([]byte, error) {
	args := []string{
		"-c", "core.quotepath=false",
		"log",
		"--format=%ct",
		"--name-only",
		"--no-merges",
		"--no-renames",
		"--relative",
		"--", ".",
	}
	cmd := exec.CommandContext(ctx, r.git, args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("git log cancelled: %w", ctx.Err())
		}
		return nil, errors.HistoryError(fmt.Sprintf("git log failed: %s", strings.TrimSpace(stderr.String())), err)
	}
	return stdout.Bytes(), nil
}

// ParseLog parses `git log --format=%ct --name-only` output. A line that is
// all digits sets the current commit time; any other non-empty line is a
// path changed in that commit. Log output is newest first, so the first
// time seen for a path is its last change.
func ParseLog(out []byte) priority.RecencyMap {
	times := make(priority.RecencyMap)
	var current uint64
	haveCommit := false

	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		if ts, err := strconv.ParseUint(line, 10, 64); err == nil {
			current = ts
			haveCommit = true
			continue
		}
		if !haveCommit {
			continue
		}
		path := strings.ToValidUTF8(line, "�")
		if _, seen := times[path]; !seen {
			times[path] = current
		}
	}
	return times
}
