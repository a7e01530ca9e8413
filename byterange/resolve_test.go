package byterange

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecResolve(t *testing.T) {
	const size = 10

	tests := []struct {
		name       string
		header     string
		wantSpan   Span
		wantStatus int
		wantErr    error
	}{
		{
			name:       "no header serves everything",
			header:     "",
			wantSpan:   Span{Start: 0, End: 9},
			wantStatus: http.StatusOK,
		},
		{
			name:       "full coverage is not partial",
			header:     "bytes=0-9",
			wantSpan:   Span{Start: 0, End: 9},
			wantStatus: http.StatusOK,
		},
		{
			name:       "inner span is partial",
			header:     "bytes=2-5",
			wantSpan:   Span{Start: 2, End: 5},
			wantStatus: http.StatusPartialContent,
		},
		{
			name:       "open end runs to last byte",
			header:     "bytes=4-",
			wantSpan:   Span{Start: 4, End: 9},
			wantStatus: http.StatusPartialContent,
		},
		{
			name:       "zero open end is full",
			header:     "bytes=0-",
			wantSpan:   Span{Start: 0, End: 9},
			wantStatus: http.StatusOK,
		},
		{
			name:       "suffix of whole size is full",
			header:     "bytes=-10",
			wantSpan:   Span{Start: 0, End: 9},
			wantStatus: http.StatusOK,
		},
		{
			name:       "short suffix",
			header:     "bytes=-3",
			wantSpan:   Span{Start: 7, End: 9},
			wantStatus: http.StatusPartialContent,
		},
		{
			name:       "explicit range wins over earlier suffix",
			header:     "bytes=-3,1-2",
			wantSpan:   Span{Start: 1, End: 2},
			wantStatus: http.StatusPartialContent,
		},
		{
			name:    "start past end of resource",
			header:  "bytes=10-",
			wantErr: ErrNotSatisfiable,
		},
		{
			name:    "end past end of resource",
			header:  "bytes=0-10",
			wantErr: ErrNotSatisfiable,
		},
		{
			name:    "start after end",
			header:  "bytes=5-2",
			wantErr: ErrNotSatisfiable,
		},
		{
			name:    "suffix longer than resource",
			header:  "bytes=-20",
			wantErr: ErrNotSatisfiable,
		},
		{
			name:    "zero suffix",
			header:  "bytes=-0",
			wantErr: ErrNotSatisfiable,
		},
		{
			name:    "wrong unit",
			header:  "items=0-1",
			wantErr: ErrUnsupportedUnit,
		},
		{
			name:    "malformed header",
			header:  "bytes=oops",
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, err := Parse(tt.header).Resolve(size)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSpan, span)
			assert.Equal(t, tt.wantStatus, span.Status(size))
		})
	}
}

func TestSpan(t *testing.T) {
	t.Run("content range", func(t *testing.T) {
		assert.Equal(t, "bytes 2-5/10", Span{Start: 2, End: 5}.ContentRange(10))
	})

	t.Run("length", func(t *testing.T) {
		assert.Equal(t, int64(4), Span{Start: 2, End: 5}.Length())
		assert.Equal(t, int64(0), Full(0).Length())
	})

	t.Run("empty resource without header", func(t *testing.T) {
		span, err := Parse("").Resolve(0)
		require.NoError(t, err)
		assert.False(t, span.Partial(0))
	})

	t.Run("empty resource with header", func(t *testing.T) {
		_, err := Parse("bytes=0-").Resolve(0)
		assert.ErrorIs(t, err, ErrNotSatisfiable)
	})
}

func TestRangeResolve(t *testing.T) {
	span, err := Range{Start: 0, End: -1}.Resolve(4)
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 0, End: 3}, span)

	_, err = Range{Start: -1, End: 2}.Resolve(4)
	assert.ErrorIs(t, err, ErrNotSatisfiable)

	t.Run("largest offsets", func(t *testing.T) {
		for _, header := range []string{
			"bytes=0-9223372036854775807",
			"bytes=9223372036854775807-9223372036854775807",
			"bytes=9223372036854775807-",
		} {
			spec := Parse(header)
			require.False(t, spec.Malformed, header)

			_, err := spec.Resolve(10)
			assert.ErrorIs(t, err, ErrNotSatisfiable, header)
		}
	})
}

func BenchmarkParseResolve(b *testing.B) {
	for b.Loop() {
		_, _ = Parse("bytes=100-199").Resolve(1000)
	}
}
