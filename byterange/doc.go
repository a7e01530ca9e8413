// Package byterange implements parsing and negotiation of HTTP Range
// requests for single-span downloads.
//
// A Range header has the form unit=rangeset where rangeset is a comma
// separated list of groups:
//
//	first-last   explicit range
//	first-       explicit range running to the end of the resource
//	-length      suffix: the last length bytes of the resource
//
// Parse turns the header into a Spec. Resolve validates the first explicit
// range, or the first suffix length when there is no explicit range, against
// the size of the resource and returns the Span to serve:
//
//	spec := byterange.Parse(r.Header.Get("Range"))
//	span, err := spec.Resolve(size)
//	if err != nil {
//	    w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
//	    return
//	}
//	if span.Partial(size) {
//	    w.Header().Set("Content-Range", span.ContentRange(size))
//	    w.WriteHeader(http.StatusPartialContent)
//	}
//
// Multi-range (multipart/byteranges) responses are not produced; only the
// first usable group is honoured.
package byterange
