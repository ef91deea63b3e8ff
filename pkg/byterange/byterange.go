// Package byterange parses single-range HTTP Range headers.
//
// Only one "start-end" pair is understood. Multi-range headers are rejected
// rather than answered with the first range, so a client asking for several
// spans never receives a response it did not ask for.
package byterange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Unit is the only range unit the parser accepts.
const Unit = "bytes"

const prefix = Unit + "="

// ErrUnsatisfiable is returned for any header that does not describe a
// single satisfiable span of the resource.
var ErrUnsatisfiable = errors.New("range not satisfiable")

// Range is an end-inclusive byte range.
type Range struct {
	// Start is the offset of the first byte (starting at 0).
	Start int64

	// End is the offset of the last byte.
	End int64
}

// Length returns the number of bytes covered by the range.
func (r Range) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange formats the Content-Range header value for a resource of
// total bytes.
func (r Range) ContentRange(total int64) string {
	return fmt.Sprintf("%s %d-%d/%d", Unit, r.Start, r.End, total)
}

// String returns the range in Range header form.
func (r Range) String() string {
	return fmt.Sprintf("%s%d-%d", prefix, r.Start, r.End)
}

// UnsatisfiedContentRange formats the Content-Range hint sent with a 416.
func UnsatisfiedContentRange(total int64) string {
	return fmt.Sprintf("%s */%d", Unit, total)
}

// Parse resolves header against a resource of length bytes.
//
// A missing start defaults to 0 and a missing end defaults to length-1, so
// "bytes=-N" means the first N+1 bytes, not the last N. A header with both
// bounds missing is malformed.
func Parse(header string, length int64) (Range, error) {
	spec, ok := strings.CutPrefix(header, prefix)
	if !ok {
		return Range{}, ErrUnsatisfiable
	}
	if strings.Contains(spec, ",") {
		return Range{}, ErrUnsatisfiable
	}

	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return Range{}, ErrUnsatisfiable
	}
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)
	if startStr == "" && endStr == "" {
		return Range{}, ErrUnsatisfiable
	}

	r := Range{Start: 0, End: length - 1}
	var err error
	if startStr != "" {
		if r.Start, err = strconv.ParseInt(startStr, 10, 64); err != nil {
			return Range{}, ErrUnsatisfiable
		}
	}
	if endStr != "" {
		if r.End, err = strconv.ParseInt(endStr, 10, 64); err != nil {
			return Range{}, ErrUnsatisfiable
		}
	}

	if r.Start < 0 || r.End < r.Start || r.End >= length {
		return Range{}, ErrUnsatisfiable
	}
	return r, nil
}
