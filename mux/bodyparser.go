package mux

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/vitalvas/kestrel/formdata"
)

// Content types understood by the body parser.
const (
	MIMEApplicationJSON = "application/json"
	MIMEURLEncodedForm  = "application/x-www-form-urlencoded"
	MIMEMultipartForm   = "multipart/form-data"
)

// BodyParserConfig selects which request bodies are decoded.
type BodyParserConfig struct {
	// ParseJSON decodes application/json bodies into an any value.
	ParseJSON bool

	// ParseURLEncoded decodes application/x-www-form-urlencoded bodies into
	// url.Values.
	ParseURLEncoded bool

	// ParseFormData decodes multipart/form-data bodies into a formdata.Form.
	ParseFormData bool

	// MaxBytes limits how much of the body is buffered. Larger bodies are
	// answered with 413 Request Entity Too Large. Zero means no limit.
	MaxBytes int64

	// Store keeps uploaded files. Required for multipart bodies carrying
	// files; without it such bodies fall back to plain text.
	Store formdata.Store
}

// DefaultBodyParserConfig enables every decoder without a size limit.
func DefaultBodyParserConfig() BodyParserConfig {
	return BodyParserConfig{
		ParseJSON:       true,
		ParseURLEncoded: true,
		ParseFormData:   true,
	}
}

// BodyParserMiddleware returns a middleware that reads the whole body of
// POST, PUT and PATCH requests and publishes the decoded value through
// Body. A body whose content type is disabled in cfg, or that fails to
// decode, is published as a string. r.Body is replaced by a reader over the
// buffered bytes so later handlers can read it again.
func BodyParserMiddleware(cfg BodyParserConfig) MiddlewareFunc {
	return func(w http.ResponseWriter, r *http.Request, next Next) error {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			return next()
		}

		contentType := ContentType(r)
		switch {
		case contentType == MIMEApplicationJSON && !cfg.ParseJSON,
			contentType == MIMEURLEncodedForm && !cfg.ParseURLEncoded,
			contentType == MIMEMultipartForm && !cfg.ParseFormData:
			return next()
		}

		body := r.Body
		if body == nil {
			body = http.NoBody
		}
		if cfg.MaxBytes > 0 {
			body = http.MaxBytesReader(w, body, cfg.MaxBytes)
		}

		raw, err := io.ReadAll(body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
				return nil
			}
			return err
		}

		r.Body = io.NopCloser(bytes.NewReader(raw))
		setBody(r, raw, decodeBody(r, contentType, raw, cfg.Store))

		return next()
	}
}

// decodeBody decodes raw according to contentType, falling back to the
// raw text on any failure.
func decodeBody(r *http.Request, contentType string, raw []byte, store formdata.Store) any {
	switch contentType {
	case MIMEApplicationJSON:
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			return v
		}
	case MIMEURLEncodedForm:
		if v, err := url.ParseQuery(string(raw)); err == nil {
			return v
		}
	case MIMEMultipartForm:
		if form, err := formdata.Decode(raw, Boundary(r), Charset(r), store); err == nil {
			return form
		}
	}
	return string(raw)
}
