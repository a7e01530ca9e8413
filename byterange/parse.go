package byterange

import (
	"strconv"
	"strings"
)

// Unit is the only range unit Resolve accepts.
const Unit = "bytes"

// Range is an explicit first-last group. End is -1 when the group was
// written as "first-" and runs to the end of the resource.
type Range struct {
	Start int64
	End   int64
}

// OpenEnded reports whether the range has no explicit last byte.
func (r Range) OpenEnded() bool {
	return r.End < 0
}

// Spec is a parsed Range header.
//
// The zero Spec means no Range header was sent. A header that was sent but
// could not be parsed yields a Spec with Present set and Malformed set.
type Spec struct {
	Present       bool
	Malformed     bool
	Unit          string
	Ranges        []Range
	SuffixLengths []int64
}

// Parse parses the value of a Range header. An empty value means the
// header is absent.
func Parse(header string) Spec {
	if header == "" {
		return Spec{}
	}

	spec := Spec{Present: true}

	unit, set, ok := strings.Cut(header, "=")
	unit = strings.TrimSpace(unit)
	if !ok || unit == "" {
		spec.Malformed = true
		return spec
	}
	spec.Unit = unit

	for _, group := range strings.Split(set, ",") {
		group = strings.TrimSpace(group)

		first, last, ok := strings.Cut(group, "-")
		if !ok || (first == "" && last == "") {
			return malformed(spec)
		}

		if first == "" {
			n, ok := parseNumber(last)
			if !ok {
				return malformed(spec)
			}
			spec.SuffixLengths = append(spec.SuffixLengths, n)
			continue
		}

		start, ok := parseNumber(first)
		if !ok {
			return malformed(spec)
		}

		end := int64(-1)
		if last != "" {
			if end, ok = parseNumber(last); !ok {
				return malformed(spec)
			}
		}

		spec.Ranges = append(spec.Ranges, Range{Start: start, End: end})
	}

	if len(spec.Ranges) == 0 && len(spec.SuffixLengths) == 0 {
		return malformed(spec)
	}

	return spec
}

// Valid reports whether the header was present, well formed and uses the
// bytes unit. Size-dependent checks are left to Resolve.
func (s Spec) Valid() bool {
	return s.Present && !s.Malformed && s.Unit == Unit
}

func malformed(s Spec) Spec {
	s.Malformed = true
	s.Ranges = nil
	s.SuffixLengths = nil
	return s
}

// parseNumber accepts only ASCII digits, matching the \d+ grammar of a
// byte-range group. Signs and spaces are rejected.
func parseNumber(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
