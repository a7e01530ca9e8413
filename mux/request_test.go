package mux

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vitalvas/kestrel/byterange"
)

func TestAccept(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   []string
		json   bool
		xml    bool
		html   bool
		any    bool
	}{
		{name: "absent", want: []string{}},
		{name: "json", header: "application/json", want: []string{"application/json"}, json: true},
		{
			name:   "browser",
			header: "text/html, application/xhtml+xml, */*",
			want:   []string{"text/html", "application/xhtml+xml", "*/*"},
			html:   true,
			any:    true,
		},
		{name: "xhtml only", header: "application/xhtml+xml", want: []string{"application/xhtml+xml"}, html: true},
		{name: "xml", header: "application/xml,  text/plain", want: []string{"application/xml", "text/plain"}, xml: true},
		{name: "quality suffix is not stripped", header: "application/json;q=0.9", want: []string{"application/json;q=0.9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Accept", tt.header)
			}

			assert.Equal(t, tt.want, Accept(r))
			assert.Equal(t, tt.json, WantsJSON(r))
			assert.Equal(t, tt.xml, WantsXML(r))
			assert.Equal(t, tt.html, WantsHTML(r))
			assert.Equal(t, tt.any, WantsAny(r))
		})
	}

	t.Run("cached per request", func(t *testing.T) {
		r := withState(httptest.NewRequest(http.MethodGet, "/", nil), &requestState{})
		r.Header.Set("Accept", "application/json")
		assert.True(t, WantsJSON(r))

		r.Header.Set("Accept", "text/html")
		assert.True(t, WantsJSON(r))
	})
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		mime     string
		charset  string
		boundary string
	}{
		{name: "absent", charset: "utf-8"},
		{name: "plain", header: "application/json", mime: "application/json", charset: "utf-8"},
		{name: "lowercased", header: "Application/JSON; charset=ISO-8859-1", mime: "application/json", charset: "ISO-8859-1"},
		{name: "multipart", header: "multipart/form-data; boundary=abc123", mime: "multipart/form-data", charset: "utf-8", boundary: "abc123"},
		{name: "quoted boundary", header: `multipart/form-data; boundary="a b"`, mime: "multipart/form-data", charset: "utf-8", boundary: "a b"},
		{name: "spaces", header: "text/plain ;  charset = latin1 ", mime: "text/plain", charset: "latin1"},
		{name: "empty charset", header: "text/plain; charset=", mime: "text/plain", charset: "utf-8"},
		{name: "parameter name case", header: "text/plain; Charset=latin1", mime: "text/plain", charset: "latin1"},
		{name: "separator inside quotes", header: `multipart/form-data; boundary="a;b"`, mime: "multipart/form-data", charset: "utf-8", boundary: "a;b"},
		{name: "escaped quote", header: `multipart/form-data; boundary="a\"b"`, mime: "multipart/form-data", charset: "utf-8", boundary: `a"b`},
		{name: "unparsable falls back", header: "TEXT/PLAIN; charset=latin1; junk", mime: "text/plain", charset: "latin1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				r.Header.Set("Content-Type", tt.header)
			}

			assert.Equal(t, tt.mime, ContentType(r))
			assert.Equal(t, tt.charset, Charset(r))
			assert.Equal(t, tt.boundary, Boundary(r))
		})
	}
}

func TestCookies(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, Cookies(r))
	})

	t.Run("decodes values", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Cookie", "session=abc%20def; theme=dark; broken")

		assert.Equal(t, map[string]string{"session": "abc def", "theme": "dark"}, Cookies(r))
	})

	t.Run("later duplicate wins", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Cookie", "a=1; a=2")

		assert.Equal(t, "2", Cookies(r)["a"])
	})

	t.Run("invalid escape kept raw", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Cookie", "a=%zz")

		assert.Equal(t, "%zz", Cookies(r)["a"])
	})
}

func TestRange(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.False(t, Range(r).Present)
	})

	t.Run("parsed", func(t *testing.T) {
		r := withState(httptest.NewRequest(http.MethodGet, "/", nil), &requestState{})
		r.Header.Set("Range", "bytes=0-4,-3")

		spec := Range(r)
		assert.True(t, spec.Present)
		assert.Equal(t, "bytes", spec.Unit)
		assert.Equal(t, []byterange.Range{{Start: 0, End: 4}}, spec.Ranges)
		assert.Equal(t, []int64{3}, spec.SuffixLengths)
	})
}

func TestQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?a=1&b=2&a=3&empty=", nil)

	assert.Equal(t, "1", Query(r, "a"))
	assert.Equal(t, "", Query(r, "missing"))
	assert.Equal(t, map[string]string{"a": "3", "b": "2", "empty": ""}, QueryValues(r))
}
