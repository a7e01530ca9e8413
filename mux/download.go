package mux

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/vitalvas/kestrel/byterange"
)

// File is the narrow view of a stored file needed for downloads.
// *tempstore.File implements it.
type File interface {
	OriginalName() string
	Size() (int64, error)
	StreamTo(w io.Writer, start, end int64) (int64, error)
}

// InvalidRange answers 416 Range Not Satisfiable with an empty body.
func InvalidRange(w http.ResponseWriter) {
	w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
}

// Download sends the whole file as an attachment.
func Download(w http.ResponseWriter, r *http.Request, f File) error {
	return DownloadRange(w, r, f, byterange.Range{Start: 0, End: -1})
}

// DownloadRange sends the bytes of f selected by rng as an attachment. A
// span covering the whole file is answered with 200, any other valid span
// with 206 and a Content-Range header, and an invalid span with 416.
// HEAD requests receive the headers only.
func DownloadRange(w http.ResponseWriter, r *http.Request, f File, rng byterange.Range) error {
	size, err := f.Size()
	if err != nil {
		return err
	}

	span, err := rng.Resolve(size)
	if err != nil {
		if size == 0 && rng.Start == 0 && rng.OpenEnded() {
			span = byterange.Full(0)
		} else {
			InvalidRange(w)
			return nil
		}
	}

	return serveSpan(w, r, f, span, size)
}

// ResumableDownload sends f honouring the request's Range header: no header
// sends the whole file, a valid header sends the first requested span and
// anything else is answered with 416.
func ResumableDownload(w http.ResponseWriter, r *http.Request, f File) error {
	size, err := f.Size()
	if err != nil {
		return err
	}

	span, err := Range(r).Resolve(size)
	if err != nil {
		InvalidRange(w)
		return nil
	}

	return serveSpan(w, r, f, span, size)
}

func serveSpan(w http.ResponseWriter, r *http.Request, f File, span byterange.Span, size int64) error {
	h := w.Header()
	h.Set("Accept-Ranges", byterange.Unit)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": f.OriginalName(),
	}))
	if h.Get("Content-Type") == "" {
		h.Set("Content-Type", "application/octet-stream")
	}
	h.Set("Content-Length", strconv.FormatInt(span.Length(), 10))

	status := span.Status(size)
	if status == http.StatusPartialContent {
		h.Set("Content-Range", span.ContentRange(size))
	}
	w.WriteHeader(status)

	if (r != nil && r.Method == http.MethodHead) || span.Length() == 0 {
		return nil
	}

	_, err := f.StreamTo(w, span.Start, span.End)
	return err
}
