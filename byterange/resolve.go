package byterange

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMalformed is returned when the Range header could not be parsed.
	ErrMalformed = errors.New("byterange: malformed range header")

	// ErrUnsupportedUnit is returned for any unit other than bytes.
	ErrUnsupportedUnit = errors.New("byterange: unsupported range unit")

	// ErrNotSatisfiable is returned when the requested span does not fit
	// inside the resource.
	ErrNotSatisfiable = errors.New("byterange: range not satisfiable")
)

// Span is an inclusive byte interval [Start, End] of a resource.
// An empty resource is represented by Span{Start: 0, End: -1}.
type Span struct {
	Start int64
	End   int64
}

// Full returns the span covering a whole resource of the given size.
func Full(size int64) Span {
	return Span{Start: 0, End: size - 1}
}

// Length returns the number of bytes in the span.
func (s Span) Length() int64 {
	return s.End - s.Start + 1
}

// Partial reports whether the span covers less than the whole resource.
func (s Span) Partial(size int64) bool {
	return s.Length() != size
}

// ContentRange formats the value of a Content-Range header for the span.
func (s Span) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", s.Start, s.End, size)
}

// Status returns 206 Partial Content for a partial span and 200 OK for a
// span covering the whole resource.
func (s Span) Status(size int64) int {
	if s.Partial(size) {
		return http.StatusPartialContent
	}
	return http.StatusOK
}

// Resolve validates the range against a resource of size bytes.
//
// An absent header resolves to the full resource. Otherwise the unit must
// be bytes, and the first explicit range is used; when there is none, the
// first suffix length is used. Any failure maps to 416 Range Not
// Satisfiable.
func (s Spec) Resolve(size int64) (Span, error) {
	if !s.Present {
		return Full(size), nil
	}
	if s.Malformed {
		return Span{}, ErrMalformed
	}
	if s.Unit != Unit {
		return Span{}, fmt.Errorf("%w: %q", ErrUnsupportedUnit, s.Unit)
	}

	if len(s.Ranges) > 0 {
		return s.Ranges[0].Resolve(size)
	}
	if len(s.SuffixLengths) > 0 {
		return ResolveSuffix(s.SuffixLengths[0], size)
	}

	return Span{}, ErrMalformed
}

// Resolve validates an explicit range against a resource of size bytes.
// An open end is replaced by the last byte of the resource.
func (r Range) Resolve(size int64) (Span, error) {
	end := r.End
	if r.OpenEnded() {
		end = size - 1
	}

	if r.Start < 0 || r.Start >= size || end >= size || r.Start > end {
		return Span{}, fmt.Errorf("%w: %d-%d of %d", ErrNotSatisfiable, r.Start, r.End, size)
	}

	return Span{Start: r.Start, End: end}, nil
}

// ResolveSuffix resolves a request for the last length bytes of a resource.
// A length of zero, or one larger than the resource, is not satisfiable.
func ResolveSuffix(length, size int64) (Span, error) {
	if length <= 0 || length > size {
		return Span{}, fmt.Errorf("%w: -%d of %d", ErrNotSatisfiable, length, size)
	}

	return Span{Start: size - length, End: size - 1}, nil
}
