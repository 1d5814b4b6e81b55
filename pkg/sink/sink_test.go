package sink

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/repochunk/repochunk/pkg/chunk"
	"github.com/repochunk/repochunk/pkg/errors"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain header", "chunk 0\n>>>> src/main.go\npackage main\n", "src/main.go"},
		{"part header", "chunk 3\n>>>> big.txt:part 2\nxyz\n", "big.txt"},
		{"first header wins", "chunk 1\n>>>> a.txt\na\n>>>> b.txt\nb\n", "a.txt"},
		{"no header", "chunk 7\nnothing here\n", "chunk-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := 0
			if tt.want == "chunk-7" {
				idx = 7
			}
			if got := FileName(chunk.Payload{Index: idx, Text: tt.text}); got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStreamWritesInOrder(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	s := NewStream(bw)

	ctx := context.Background()
	for i, text := range []string{"chunk 0\n>>>> a\nA\n", "chunk 1\n>>>> b\nB\n"} {
		if err := s.Write(ctx, chunk.Payload{Index: i, Text: text}); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if got, want := buf.String(), "chunk 0\n>>>> a\nA\nchunk 1\n>>>> b\nB\n"; got != want {
		t.Errorf("stream = %q, want %q", got, want)
	}
}

func TestStreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewStream(&bytes.Buffer{}).Write(ctx, chunk.Payload{Text: "x"}); err == nil {
		t.Error("Write() on cancelled context should fail")
	}
}

func TestDirWritesNamedFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	d := NewDir(root)
	ctx := context.Background()

	payloads := []chunk.Payload{
		{Index: 0, Text: "chunk 0\n>>>> pkg/util/strings.go\npackage util\n"},
		{Index: 1, Text: "chunk 1\n>>>> big.txt:part 0\nAAAA\n"},
		{Index: 2, Text: "chunk 2\nheaderless\n"},
	}
	for _, p := range payloads {
		if err := d.Write(ctx, p); err != nil {
			t.Fatalf("Write(%d) error = %v", p.Index, err)
		}
	}

	for _, p := range payloads {
		path := filepath.Join(root, filepath.FromSlash(FileName(p))+".txt")
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", path, err)
		}
		if string(data) != p.Text {
			t.Errorf("%s = %q, want %q", path, data, p.Text)
		}
	}

	written := d.Written()
	if len(written) != 3 {
		t.Fatalf("Written() has %d entries, want 3", len(written))
	}
	if written[2].Name != "chunk-2" {
		t.Errorf("Written()[2].Name = %q, want chunk-2", written[2].Name)
	}
}

func TestDirOverwrites(t *testing.T) {
	root := t.TempDir()
	d := NewDir(root)
	ctx := context.Background()

	if err := d.Write(ctx, chunk.Payload{Index: 0, Text: "chunk 0\n>>>> a.txt\nold content that is long\n"}); err != nil {
		t.Fatal(err)
	}
	if err := d.Write(ctx, chunk.Payload{Index: 1, Text: "chunk 1\n>>>> a.txt:part 1\nnew\n"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(root, "a.txt.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "chunk 1\n>>>> a.txt:part 1\nnew\n" {
		t.Errorf("file = %q, want the second chunk", data)
	}

	written := d.Written()
	if len(written) != 2 {
		t.Fatalf("Written() has %d entries, want 2", len(written))
	}
	if !written[0].Overwritten {
		t.Error("Expected the first entry to be marked overwritten")
	}
	if written[1].Overwritten {
		t.Error("Expected the last entry for a file to hold its content")
	}
}

func TestDirUnwritable(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := NewDir(blocker)
	err := d.Write(context.Background(), chunk.Payload{Text: "chunk 0\n>>>> sub/a.go\nx\n"})
	if err == nil {
		t.Fatal("Write() under a regular file should fail")
	}
	if !errors.IsType(err, errors.ErrIO) {
		t.Errorf("error type = %v, want IO", err)
	}
}
