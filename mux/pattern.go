package mux

import "strings"

// paramMarker starts a parameter segment in a route pattern.
const paramMarker = ':'

// Pattern is a compiled route path such as "/users/:id".
//
// A pattern matches a path with the same number of segments where every
// literal segment is equal and every parameter segment is non-empty. There
// are no wildcard, optional or regexp segments.
type Pattern struct {
	template string
	segments []string
	params   map[int]string
}

// ParsePattern normalizes tpl and records the position of every parameter
// segment.
func ParsePattern(tpl string) Pattern {
	tpl = normalizePath(tpl)
	segments := splitPath(tpl)

	var params map[int]string
	for i, seg := range segments {
		if name, ok := paramName(seg); ok {
			if params == nil {
				params = make(map[int]string)
			}
			params[i] = name
		}
	}

	return Pattern{
		template: tpl,
		segments: segments,
		params:   params,
	}
}

// String returns the normalized template.
func (p Pattern) String() string {
	return p.template
}

// HasParams reports whether the pattern declares at least one parameter.
func (p Pattern) HasParams() bool {
	return len(p.params) > 0
}

// ParamNames returns the declared parameter names in path order.
func (p Pattern) ParamNames() []string {
	if len(p.params) == 0 {
		return nil
	}
	names := make([]string, 0, len(p.params))
	for i := range p.segments {
		if name, ok := p.params[i]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Match reports whether the normalized path matches the pattern.
func (p Pattern) Match(path string) bool {
	segments := splitPath(path)
	if len(segments) != len(p.segments) {
		return false
	}

	for i, seg := range p.segments {
		if _, ok := p.params[i]; ok {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if seg != segments[i] {
			return false
		}
	}

	return true
}

// Params reads the parameter values out of path by position. The path is
// not checked against the literal segments; call Match first.
func (p Pattern) Params(path string) map[string]string {
	if len(p.params) == 0 {
		return nil
	}

	segments := splitPath(path)
	params := make(map[string]string, len(p.params))
	for i, name := range p.params {
		if i < len(segments) {
			params[name] = segments[i]
		}
	}
	return params
}

// paramName returns the name of a ":name" segment. A lone ":" is a literal.
func paramName(seg string) (string, bool) {
	if len(seg) < 2 || seg[0] != paramMarker {
		return "", false
	}
	return seg[1:], true
}

// splitPath splits a normalized path into the segments after the leading
// slash. "/" yields a single empty segment.
func splitPath(p string) []string {
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}

// normalizePath returns p with a leading slash and without a trailing
// slash. The root path stays "/".
func normalizePath(p string) string {
	if p == "" || p[0] != '/' {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}
