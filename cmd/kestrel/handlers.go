package main

import (
	"io"
	"net/http"
	"net/url"

	"github.com/vitalvas/kestrel/formdata"
	"github.com/vitalvas/kestrel/mux"
)

func healthz(w http.ResponseWriter, _ *http.Request, _ mux.Next) error {
	mux.ResponseJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}

type uploadedField struct {
	Name     string `json:"name" yaml:"name"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Size     int64  `json:"size,omitempty" yaml:"size,omitempty"`
}

// upload echoes the parsed request body. Stored files are reported by their
// original name and size.
func upload(w http.ResponseWriter, r *http.Request, _ mux.Next) error {
	var out any

	switch body := mux.Body(r).(type) {
	case formdata.Form:
		fields := make([]uploadedField, 0, len(body))
		for _, f := range body {
			if !f.IsFile() {
				fields = append(fields, uploadedField{Name: f.Name, Value: f.Value})
				continue
			}
			size, err := f.File.Size()
			if err != nil {
				return err
			}
			fields = append(fields, uploadedField{Name: f.Name, Filename: f.File.OriginalName(), Size: size})
		}
		out = map[string]any{"fields": fields}
	case url.Values:
		out = map[string]any{"form": body}
	case string:
		out = map[string]any{"text": body}
	case nil:
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return err
		}
		out = map[string]any{"text": string(raw)}
	default:
		out = map[string]any{"json": body}
	}

	if !mux.WantsJSON(r) && wantsYAML(r) {
		mux.ResponseYAML(w, http.StatusOK, out)
		return nil
	}

	mux.ResponseJSON(w, http.StatusOK, out)
	return nil
}

func wantsYAML(r *http.Request) bool {
	for _, v := range mux.Accept(r) {
		if v == "application/yaml" || v == "application/x-yaml" {
			return true
		}
	}
	return false
}
