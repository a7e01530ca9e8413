package mux

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/kestrel/byterange"
	"github.com/vitalvas/kestrel/tempstore"
)

func newDownloadFile(t *testing.T, name, content string) *tempstore.File {
	t.Helper()
	f, err := tempstore.NewDirectory(t.TempDir()).CreateFile(name, []byte(content))
	require.NoError(t, err)
	return f
}

func TestResumableDownload(t *testing.T) {
	f := newDownloadFile(t, "digits.txt", "0123456789")

	tests := []struct {
		name         string
		rangeHeader  string
		code         int
		body         string
		contentRange string
	}{
		{name: "no header", code: http.StatusOK, body: "0123456789"},
		{name: "explicit span", rangeHeader: "bytes=0-4", code: http.StatusPartialContent, body: "01234", contentRange: "bytes 0-4/10"},
		{name: "open end", rangeHeader: "bytes=5-", code: http.StatusPartialContent, body: "56789", contentRange: "bytes 5-9/10"},
		{name: "whole file via range", rangeHeader: "bytes=0-9", code: http.StatusOK, body: "0123456789"},
		{name: "suffix", rangeHeader: "bytes=-3", code: http.StatusPartialContent, body: "789", contentRange: "bytes 7-9/10"},
		{name: "suffix of whole size", rangeHeader: "bytes=-10", code: http.StatusOK, body: "0123456789"},
		{name: "suffix longer than file", rangeHeader: "bytes=-20", code: http.StatusRequestedRangeNotSatisfiable},
		{name: "end past size", rangeHeader: "bytes=0-10", code: http.StatusRequestedRangeNotSatisfiable},
		{name: "end at int64 max", rangeHeader: "bytes=0-9223372036854775807", code: http.StatusRequestedRangeNotSatisfiable},
		{name: "start at int64 max", rangeHeader: "bytes=9223372036854775807-9223372036854775807", code: http.StatusRequestedRangeNotSatisfiable},
		{name: "start past end", rangeHeader: "bytes=5-2", code: http.StatusRequestedRangeNotSatisfiable},
		{name: "unit", rangeHeader: "items=0-4", code: http.StatusRequestedRangeNotSatisfiable},
		{name: "malformed", rangeHeader: "bytes=a-b", code: http.StatusRequestedRangeNotSatisfiable},
		{name: "first range wins", rangeHeader: "bytes=-2,1-2", code: http.StatusPartialContent, body: "12", contentRange: "bytes 1-2/10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.rangeHeader != "" {
				r.Header.Set("Range", tt.rangeHeader)
			}
			w := httptest.NewRecorder()

			require.NoError(t, ResumableDownload(w, r, f))

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
			assert.Equal(t, tt.contentRange, w.Header().Get("Content-Range"))
			if tt.code != http.StatusRequestedRangeNotSatisfiable {
				assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
				assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestDownload(t *testing.T) {
	t.Run("attachment headers", func(t *testing.T) {
		f := newDownloadFile(t, "report final.pdf", "pdf")
		w := httptest.NewRecorder()

		require.NoError(t, Download(w, httptest.NewRequest(http.MethodGet, "/", nil), f))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="report final.pdf"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "3", w.Header().Get("Content-Length"))
		assert.Equal(t, "pdf", w.Body.String())
	})

	t.Run("keeps preset content type", func(t *testing.T) {
		f := newDownloadFile(t, "a.txt", "abc")
		w := httptest.NewRecorder()
		w.Header().Set("Content-Type", "text/plain")

		require.NoError(t, Download(w, httptest.NewRequest(http.MethodGet, "/", nil), f))
		assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	})

	t.Run("head sends headers only", func(t *testing.T) {
		f := newDownloadFile(t, "a.txt", "abc")
		w := httptest.NewRecorder()

		require.NoError(t, Download(w, httptest.NewRequest(http.MethodHead, "/", nil), f))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("Content-Length"))
		assert.Empty(t, w.Body.String())
	})

	t.Run("empty file", func(t *testing.T) {
		f := newDownloadFile(t, "empty.txt", "")
		w := httptest.NewRecorder()

		require.NoError(t, Download(w, httptest.NewRequest(http.MethodGet, "/", nil), f))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "0", w.Header().Get("Content-Length"))
	})

	t.Run("missing file", func(t *testing.T) {
		f := newDownloadFile(t, "gone.txt", "x")
		require.NoError(t, os.Remove(f.Path()))

		err := Download(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), f)
		assert.Error(t, err)
	})
}

func TestDownloadRange(t *testing.T) {
	f := newDownloadFile(t, "digits.txt", "0123456789")

	t.Run("partial", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, DownloadRange(w, httptest.NewRequest(http.MethodGet, "/", nil), f, byterange.Range{Start: 2, End: 3}))

		assert.Equal(t, http.StatusPartialContent, w.Code)
		assert.Equal(t, "23", w.Body.String())
		assert.Equal(t, "bytes 2-3/10", w.Header().Get("Content-Range"))
	})

	t.Run("invalid", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, DownloadRange(w, httptest.NewRequest(http.MethodGet, "/", nil), f, byterange.Range{Start: 8, End: 12}))

		assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestInvalidRange(t *testing.T) {
	w := httptest.NewRecorder()
	InvalidRange(w)
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, w.Code)
}
