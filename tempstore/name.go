package tempstore

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// GenerateName returns a collision-resistant file name derived from
// original. Runs of characters outside [a-zA-Z0-9] in the base name become
// a single dash and are dropped from the extension.
//
//	GenerateName("my report.PDF") // my-report-1700000000000000000-1a2b3c4d.PDF
func GenerateName(original string) string {
	original = filepath.Base(original)

	ext := filepath.Ext(original)
	base := strings.TrimSuffix(original, ext)
	ext = unsafeChars.ReplaceAllString(ext, "")

	base = unsafeChars.ReplaceAllString(base, "-")
	if base == "" || base == "-" {
		base = "file"
	}

	id := uuid.New()
	name := base + "-" + strconv.FormatInt(time.Now().UnixNano(), 10) + "-" + id.String()[:8]

	if ext != "" {
		return name + "." + ext
	}
	return name
}
