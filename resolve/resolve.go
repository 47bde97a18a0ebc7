/*
Copyright 2025 Trident Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package resolve implements RFC 3986, Sections 5.2-5.3: reference
// resolution of a (possibly relative) reference against an absolute base,
// and recomposition. It is the generalization of trident's resolve.go and
// path.go to operate on a Components struct, which callers fill from the
// RAW-index record of a parsed identifier.
package resolve

import "strings"

// ErrNotAbsolute is returned by Transform when the base record has no
// scheme.
type ErrNotAbsolute struct{}

func (ErrNotAbsolute) Error() string { return "reference resolution base has no scheme" }

// Components is the minimal set of fields Transform/Recompose operate on,
// independent of ladder.GenericRecord's OptionalString plumbing, so the
// resolver has no import-time dependency on the ladder package.
type Components struct {
	Scheme, Authority, Path, Query, Fragment       string
	HasScheme, HasAuthority, HasQuery, HasFragment bool
}

// Transform implements spec.md §4.4's Transform(R against B) -> T exactly.
func Transform(r, b Components) (Components, error) {
	if !b.HasScheme {
		return Components{}, ErrNotAbsolute{}
	}

	var t Components
	t.Fragment, t.HasFragment = r.Fragment, r.HasFragment
	// b has a scheme, and r's scheme (when present) replaces it, so the
	// target always has one.
	t.HasScheme = true

	switch {
	case r.HasScheme:
		t.Scheme = r.Scheme
		t.Authority, t.HasAuthority = r.Authority, r.HasAuthority
		t.Path = RemoveDotSegments(r.Path)
		t.Query, t.HasQuery = r.Query, r.HasQuery

	case r.HasAuthority:
		t.Scheme = b.Scheme
		t.Authority, t.HasAuthority = r.Authority, true
		t.Path = RemoveDotSegments(r.Path)
		t.Query, t.HasQuery = r.Query, r.HasQuery

	case r.Path == "":
		t.Scheme = b.Scheme
		t.Authority, t.HasAuthority = b.Authority, b.HasAuthority
		t.Path = b.Path
		if r.HasQuery {
			t.Query, t.HasQuery = r.Query, true
		} else {
			t.Query, t.HasQuery = b.Query, b.HasQuery
		}

	case strings.HasPrefix(r.Path, "/"):
		t.Scheme = b.Scheme
		t.Authority, t.HasAuthority = b.Authority, b.HasAuthority
		t.Path = RemoveDotSegments(r.Path)
		t.Query, t.HasQuery = r.Query, r.HasQuery

	default:
		t.Scheme = b.Scheme
		t.Authority, t.HasAuthority = b.Authority, b.HasAuthority
		t.Path = RemoveDotSegments(merge(b, r))
		t.Query, t.HasQuery = r.Query, r.HasQuery
	}

	return t, nil
}

// merge implements spec.md §4.4's merge(B, R).
func merge(b, r Components) string {
	if b.HasAuthority && b.Path == "" {
		return "/" + r.Path
	}
	lastSlash := strings.LastIndex(b.Path, "/")
	if lastSlash == -1 {
		return r.Path
	}
	return b.Path[:lastSlash+1] + r.Path
}

// RemoveDotSegments implements the RFC 3986 §5.2.4 algorithm exactly as
// enumerated in spec.md §4.4, rules (A)-(E).
func RemoveDotSegments(input string) string {
	var output []string
	in := input

	for len(in) > 0 {
		switch {
		case strings.HasPrefix(in, "../"):
			in = in[3:]
		case strings.HasPrefix(in, "./"):
			in = in[2:]

		case strings.HasPrefix(in, "/./"):
			in = "/" + in[3:]
		case in == "/.":
			in = "/"

		case strings.HasPrefix(in, "/../"), in == "/..":
			rest := ""
			if strings.HasPrefix(in, "/../") {
				rest = in[4:]
			}
			if len(output) > 0 {
				output = output[:len(output)-1]
			}
			in = "/" + rest

		case in == "." || in == "..":
			in = ""

		default:
			segment, remainder := extractFirstSegment(in)
			in = remainder
			output = append(output, segment)
		}
	}

	return strings.Join(output, "")
}

// extractFirstSegment implements rule (E): move the first path segment
// (an optional leading "/" plus characters up to but not including the
// next "/") from in to the output buffer.
func extractFirstSegment(in string) (string, string) {
	if strings.HasPrefix(in, "/") {
		rest := in[1:]
		if idx := strings.Index(rest, "/"); idx != -1 {
			return in[:idx+1], in[idx+1:]
		}
		return in, ""
	}
	if idx := strings.Index(in, "/"); idx != -1 {
		return in[:idx], in[idx:]
	}
	return in, ""
}

// Recompose implements spec.md §4.4's recompose(T).
func Recompose(t Components) string {
	var b strings.Builder
	RecomposeTo(t, &b)
	return b.String()
}

// RecomposeTo is Recompose's zero-allocation variant: it writes directly
// into a caller-supplied strings.Builder instead of returning a freshly
// allocated string, grounded on trident's ResolveTo
// (iri.go:188, iri.go:459), which resolves straight into a
// *strings.Builder the caller owns and can reuse across calls.
func RecomposeTo(t Components, target *strings.Builder) {
	if t.HasScheme {
		target.WriteString(t.Scheme)
		target.WriteByte(':')
	}
	if t.HasAuthority {
		target.WriteString("//")
		target.WriteString(t.Authority)
	}
	target.WriteString(t.Path)
	if t.HasQuery {
		target.WriteByte('?')
		target.WriteString(t.Query)
	}
	if t.HasFragment {
		target.WriteByte('#')
		target.WriteString(t.Fragment)
	}
}
