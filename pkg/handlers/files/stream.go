package files

import (
	"errors"
	"io"
)

// ChunkSize is the read buffer used when streaming a body.
const ChunkSize = 64 * 1024

// CopyRange copies up to n bytes from src, already positioned at the first
// byte to send, to dst in ChunkSize reads.
//
// A source that runs dry before n bytes is a truncated transfer: CopyRange
// stops and returns the short count with a nil error. Write failures, such as
// a client that went away, end the copy and are returned.
func CopyRange(dst io.Writer, src io.Reader, n int64) (int64, error) {
	buf := make([]byte, min(int64(ChunkSize), max(n, 1)))
	var written int64

	for written < n {
		want := min(int64(len(buf)), n-written)
		nr, rerr := src.Read(buf[:want])
		if nr > 0 {
			nw, werr := dst.Write(buf[:nr])
			written += int64(nw)
			if werr != nil {
				return written, werr
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return written, nil
			}
			return written, rerr
		}
	}
	return written, nil
}
