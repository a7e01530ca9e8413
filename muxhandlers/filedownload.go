package muxhandlers

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/vitalvas/kestrel/mux"
	"github.com/vitalvas/kestrel/tempstore"
)

// ErrFileDownloadNoRoot is returned when FileDownloadConfig.Root is empty.
var ErrFileDownloadNoRoot = errors.New("file download: root must not be empty")

// ErrFileDownloadRootNotDir is returned when FileDownloadConfig.Root is not
// an existing directory.
var ErrFileDownloadRootNotDir = errors.New("file download: root must be a directory")

// FileDownloadConfig configures the file download handler.
type FileDownloadConfig struct {
	// Root is the directory files are served from. Required.
	Root string

	// Param is the route parameter holding the file name. Defaults to
	// "name".
	Param string
}

// FileDownloadHandler returns a terminal handler that serves the file named
// by a route parameter from Root as a resumable attachment. Names holding a
// path separator or pointing outside Root, and missing files, are answered
// with 404. The Content-Type is derived from the file extension.
func FileDownloadHandler(cfg FileDownloadConfig) (mux.MiddlewareFunc, error) {
	if cfg.Root == "" {
		return nil, ErrFileDownloadNoRoot
	}

	info, err := os.Stat(cfg.Root)
	if err != nil || !info.IsDir() {
		return nil, ErrFileDownloadRootNotDir
	}

	param := cfg.Param
	if param == "" {
		param = "name"
	}
	root := cfg.Root

	return func(w http.ResponseWriter, r *http.Request, _ mux.Next) error {
		name, ok := mux.Param(r, param)
		if !ok || !validFileName(name) {
			http.NotFound(w, r)
			return nil
		}

		f, err := tempstore.Open(filepath.Join(root, name))
		if err != nil {
			http.NotFound(w, r)
			return nil
		}

		if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
			w.Header().Set("Content-Type", ct)
		}

		return mux.ResumableDownload(w, r, f)
	}, nil
}

func validFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}
