// Package checksum fingerprints an input set so output names change when
// the input changes.
package checksum

import (
	"context"
	"encoding/binary"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/repochunk/repochunk/pkg/errors"
)

// Compute hashes the relative path, size and modification time of every
// regular file under dirs, visiting each directory in lexical order.
// File contents are not read.
func Compute(ctx context.Context, dirs []string) (string, error) {
	h := xxhash.New()
	var buf [8]byte

	for _, dir := range dirs {
		root, err := filepath.Abs(dir)
		if err != nil {
			return "", errors.TraversalError("resolve input directory", err).WithContext("dir", dir)
		}
		_, _ = h.WriteString(filepath.ToSlash(root))
		_, _ = h.Write([]byte{0})

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return errors.TraversalError("walk input directory", walkErr).WithContext("path", path)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() && d.Name() == ".git" {
				return filepath.SkipDir
			}
			if !d.Type().IsRegular() {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return errors.TraversalError("stat file", err).WithContext("path", path)
			}
			rel, _ := filepath.Rel(root, path)
			_, _ = h.WriteString(filepath.ToSlash(rel))
			_, _ = h.Write([]byte{0})
			binary.LittleEndian.PutUint64(buf[:], uint64(info.Size()))
			_, _ = h.Write(buf[:])
			binary.LittleEndian.PutUint64(buf[:], uint64(info.ModTime().UnixNano()))
			_, _ = h.Write(buf[:])
			return nil
		})
		if err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
