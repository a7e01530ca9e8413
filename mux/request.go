package mux

import (
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/vitalvas/kestrel/byterange"
)

const defaultCharset = "utf-8"

// Accept returns the media ranges listed in the Accept header, in order.
func Accept(r *http.Request) []string {
	st := stateOf(r)
	if st == nil {
		return parseAccept(r)
	}
	st.acceptOnce.Do(func() {
		st.accept = parseAccept(r)
	})
	return st.accept
}

// WantsJSON reports whether the client accepts application/json.
func WantsJSON(r *http.Request) bool {
	return matchInArray(Accept(r), "application/json")
}

// WantsXML reports whether the client accepts application/xml.
func WantsXML(r *http.Request) bool {
	return matchInArray(Accept(r), "application/xml")
}

// WantsHTML reports whether the client accepts text/html or
// application/xhtml+xml.
func WantsHTML(r *http.Request) bool {
	accept := Accept(r)
	return matchInArray(accept, "text/html") || matchInArray(accept, "application/xhtml+xml")
}

// WantsAny reports whether the client accepts */*.
func WantsAny(r *http.Request) bool {
	return matchInArray(Accept(r), "*/*")
}

// ContentType returns the media type of the request body without
// parameters, or "" when there is no Content-Type header.
func ContentType(r *http.Request) string {
	return contentTypeOf(r).name
}

// Charset returns the charset parameter of the Content-Type header,
// defaulting to utf-8.
func Charset(r *http.Request) string {
	if v, ok := contentTypeParam(r, "charset"); ok && v != "" {
		return v
	}
	return defaultCharset
}

// Boundary returns the multipart boundary parameter of the Content-Type
// header, or "" when there is none.
func Boundary(r *http.Request) string {
	v, _ := contentTypeParam(r, "boundary")
	return v
}

// Cookies returns the request cookies as URL-decoded name/value pairs.
// Later duplicates win.
func Cookies(r *http.Request) map[string]string {
	st := stateOf(r)
	if st == nil {
		return parseCookies(r)
	}
	st.cookiesOnce.Do(func() {
		st.cookies = parseCookies(r)
	})
	return st.cookies
}

// Range returns the parsed Range header. The zero Spec means the header is
// absent.
func Range(r *http.Request) byterange.Spec {
	st := stateOf(r)
	if st == nil {
		return byterange.Parse(r.Header.Get("Range"))
	}
	st.rangeOnce.Do(func() {
		st.rangeSpec = byterange.Parse(r.Header.Get("Range"))
	})
	return st.rangeSpec
}

// Query returns the first value of the query parameter key.
func Query(r *http.Request, key string) string {
	return r.URL.Query().Get(key)
}

// QueryValues returns all query parameters, keeping the last value of
// repeated keys.
func QueryValues(r *http.Request) map[string]string {
	q := r.URL.Query()
	out := make(map[string]string, len(q))
	for k, v := range q {
		if len(v) > 0 {
			out[k] = v[len(v)-1]
		}
	}
	return out
}

func parseAccept(r *http.Request) []string {
	header := r.Header.Get("Accept")
	if header == "" {
		return []string{}
	}

	parts := strings.Split(header, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func contentTypeOf(r *http.Request) mediaType {
	st := stateOf(r)
	if st == nil {
		return parseContentType(r.Header.Get("Content-Type"))
	}
	st.contentTypeOnce.Do(func() {
		st.contentType = parseContentType(r.Header.Get("Content-Type"))
	})
	return st.contentType
}

// mediaType is a Content-Type header split into its lowercased media type
// and its parameters, keyed by lowercased name.
type mediaType struct {
	name   string
	params map[string]string
}

func parseContentType(header string) mediaType {
	if header == "" {
		return mediaType{}
	}

	name, params, err := mime.ParseMediaType(header)
	if err == nil {
		return mediaType{name: name, params: params}
	}

	return splitContentType(header)
}

// splitContentType is the lenient fallback for headers mime.ParseMediaType
// rejects, such as parameters with an empty value.
func splitContentType(header string) mediaType {
	parts := strings.Split(header, ";")
	mt := mediaType{
		name:   strings.ToLower(strings.TrimSpace(parts[0])),
		params: make(map[string]string, len(parts)-1),
	}

	for _, p := range parts[1:] {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		if _, seen := mt.params[k]; seen {
			continue
		}
		v = strings.TrimSpace(v)
		if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
			v = v[1 : len(v)-1]
		}
		mt.params[k] = v
	}
	return mt
}

// contentTypeParam looks up a Content-Type parameter by name.
func contentTypeParam(r *http.Request, name string) (string, bool) {
	v, ok := contentTypeOf(r).params[strings.ToLower(name)]
	return v, ok
}

func parseCookies(r *http.Request) map[string]string {
	header := r.Header.Get("Cookie")
	cookies := make(map[string]string)
	if header == "" {
		return cookies
	}

	for _, pair := range strings.Split(header, ";") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name = unescape(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		cookies[name] = unescape(strings.TrimSpace(value))
	}
	return cookies
}

func unescape(s string) string {
	if v, err := url.PathUnescape(s); err == nil {
		return v
	}
	return s
}
