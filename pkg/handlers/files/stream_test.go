package files

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

type failingWriter struct {
	after int
	n     int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n+len(p) > w.after {
		return 0, errors.New("connection reset by peer")
	}
	w.n += len(p)
	return len(p), nil
}

func TestCopyRange(t *testing.T) {
	src := bytes.Repeat([]byte("x"), 3*ChunkSize+17)

	tests := []struct {
		name string
		n    int64
		want int64
	}{
		{"zero bytes", 0, 0},
		{"less than a chunk", 100, 100},
		{"several chunks", int64(2*ChunkSize + 5), int64(2*ChunkSize + 5)},
		{"whole source", int64(len(src)), int64(len(src))},
		{"source exhausted early", int64(len(src)) + 1000, int64(len(src))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst bytes.Buffer
			written, err := CopyRange(&dst, bytes.NewReader(src), tt.n)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if written != tt.want {
				t.Errorf("written = %d, want %d", written, tt.want)
			}
			if int64(dst.Len()) != tt.want {
				t.Errorf("dst length = %d, want %d", dst.Len(), tt.want)
			}
		})
	}
}

func TestCopyRange_StopsAtCount(t *testing.T) {
	var dst bytes.Buffer
	if _, err := CopyRange(&dst, strings.NewReader("0123456789"), 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dst.String() != "0123" {
		t.Errorf("dst = %q, want 0123", dst.String())
	}
}

func TestCopyRange_WriteError(t *testing.T) {
	src := bytes.Repeat([]byte("y"), 2*ChunkSize)
	dst := &failingWriter{after: ChunkSize}

	written, err := CopyRange(dst, bytes.NewReader(src), int64(len(src)))
	if err == nil {
		t.Fatal("expected write error")
	}
	if written != int64(ChunkSize) {
		t.Errorf("written = %d, want %d", written, ChunkSize)
	}
}

func TestCopyRange_ReadError(t *testing.T) {
	readErr := errors.New("disk gone")
	src := io.MultiReader(strings.NewReader("abc"), &errReader{err: readErr})

	var dst bytes.Buffer
	written, err := CopyRange(&dst, src, 10)
	if !errors.Is(err, readErr) {
		t.Fatalf("err = %v, want %v", err, readErr)
	}
	if written != 3 {
		t.Errorf("written = %d, want 3", written)
	}
}

type errReader struct{ err error }

func (r *errReader) Read([]byte) (int, error) { return 0, r.err }
