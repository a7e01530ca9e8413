// Package formdata decodes multipart/form-data request bodies that have
// already been read into memory.
//
// The decoder is deliberately strict: the body has to end with the closing
// delimiter and every part has to carry a form-data Content-Disposition,
// optionally followed by a Content-Type. Anything else fails the whole body
// so the caller can fall back to treating it as plain text.
package formdata

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/vitalvas/kestrel/tempstore"
	"golang.org/x/text/encoding/htmlindex"
)

var (
	// ErrNoBoundary is returned when no boundary token is known.
	ErrNoBoundary = errors.New("formdata: missing boundary")

	// ErrNotTerminated is returned when the body does not end with the
	// closing delimiter.
	ErrNotTerminated = errors.New("formdata: body does not end with closing delimiter")

	// ErrMalformedPart is returned when a part does not follow the expected
	// header grammar.
	ErrMalformedPart = errors.New("formdata: malformed part")

	// ErrNoStore is returned when a file part is found but no Store was
	// given to keep it.
	ErrNoStore = errors.New("formdata: file part without a store")
)

// Store persists uploaded file content. *tempstore.Directory implements it.
type Store interface {
	CreateFile(originalName string, content []byte) (*tempstore.File, error)
	Remove(f *tempstore.File) error
}

var (
	crlf       = []byte("\r\n")
	headersEnd = []byte("\r\n\r\n")
)

// Decode splits body on boundary and returns its fields in order. Text
// values are converted from charset to UTF-8; an empty or unknown charset
// leaves the bytes untouched. File parts are written to store under a
// generated name.
func Decode(body []byte, boundary, charset string, store Store) (Form, error) {
	if boundary == "" {
		return nil, ErrNoBoundary
	}

	delimiter := []byte("--" + boundary)
	closing := append(append([]byte{}, delimiter...), '-', '-')

	if !bytes.HasSuffix(bytes.TrimRight(body, "\r\n"), closing) {
		return nil, ErrNotTerminated
	}

	chunks := bytes.Split(body, delimiter)
	if len(chunks) < 2 {
		return nil, ErrNotTerminated
	}
	// The first chunk is the preamble before the opening delimiter and the
	// last one is "--" plus any epilogue.
	chunks = chunks[1 : len(chunks)-1]

	form := make(Form, 0, len(chunks))
	for i, chunk := range chunks {
		field, err := decodePart(chunk, charset, store)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("part %d: %w", i, err), discard(form, store))
		}
		form = append(form, field)
	}

	return form, nil
}

// discard removes the files stored for a form that failed to decode.
func discard(form Form, store Store) error {
	var errs []error
	for _, field := range form {
		if field.File != nil {
			errs = append(errs, store.Remove(field.File))
		}
	}
	return errors.Join(errs...)
}

func decodePart(chunk []byte, charset string, store Store) (Field, error) {
	chunk, ok := bytes.CutPrefix(chunk, crlf)
	if !ok {
		return Field{}, ErrMalformedPart
	}
	chunk = bytes.TrimSuffix(chunk, crlf)

	head, value, ok := bytes.Cut(chunk, headersEnd)
	if !ok {
		return Field{}, ErrMalformedPart
	}

	var field Field
	var disposition bool

	for _, line := range strings.Split(string(head), "\r\n") {
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			return Field{}, ErrMalformedPart
		}
		val = strings.TrimSpace(val)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "content-disposition":
			kind, params, err := mime.ParseMediaType(val)
			if err != nil || kind != "form-data" || params["name"] == "" {
				return Field{}, ErrMalformedPart
			}
			field.Name = params["name"]
			field.Filename = params["filename"]
			disposition = true
		case "content-type":
			field.ContentType = val
		default:
			return Field{}, fmt.Errorf("%w: unexpected header %q", ErrMalformedPart, key)
		}
	}

	if !disposition {
		return Field{}, ErrMalformedPart
	}

	if field.Filename == "" {
		field.Value = decodeText(value, charset)
		return field, nil
	}

	if store == nil {
		return Field{}, ErrNoStore
	}

	f, err := store.CreateFile(field.Filename, value)
	if err != nil {
		return Field{}, err
	}
	field.File = f

	return field, nil
}

func decodeText(b []byte, charset string) string {
	if charset == "" {
		return string(b)
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(b)
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
