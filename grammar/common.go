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

package grammar

import (
	"strings"

	"github.com/rduident/resid/bidiguard"
	"github.com/rduident/resid/errkind"
	"github.com/rduident/resid/ladder"
)

// ParseCommon parses input as the "common" identifier kind: scheme ":"
// opaque-part ["#" fragment], with no authority/path/query structure. This
// covers identifier forms that are syntactically URIs but whose scheme-
// specific part is not hierarchical (RFC 3986's opaque-part case), unlike
// ParseGeneric which always decomposes the hierarchical grammar.
func ParseCommon(input string, builder *ladder.Builder, unchecked bool) (ladder.Row, error) {
	colon := strings.IndexByte(input, ':')
	if colon <= 0 {
		return ladder.Row{}, errkind.New(errkind.GrammarRejected, "no scheme found in a common identifier")
	}
	scheme := input[:colon]
	for i, r := range scheme {
		ok := isASCIILetter(r) || (i > 0 && (isASCIIDigit(r) || r == '+' || r == '-' || r == '.'))
		if !ok {
			return ladder.Row{}, errkind.New(errkind.GrammarRejected, "invalid scheme character").WithChar(r)
		}
	}

	rest := input[colon+1:]
	opaque := rest
	var fragment string
	hasFragment := false
	if hi := strings.IndexByte(rest, '#'); hi != -1 {
		opaque, fragment = rest[:hi], rest[hi+1:]
		hasFragment = true
	}

	if !unchecked {
		if err := validateOpaque(opaque); err != nil {
			return ladder.Row{}, err
		}
		if err := bidiguard.ValidateComponent(opaque); err != nil {
			return ladder.Row{}, errkind.Wrap(errkind.GrammarRejected, "invalid bidi structure in opaque part", err)
		}
		if hasFragment {
			if err := validateFragmentChars(fragment); err != nil {
				return ladder.Row{}, err
			}
			if err := bidiguard.ValidateComponent(fragment); err != nil {
				return ladder.Row{}, errkind.Wrap(errkind.GrammarRejected, "invalid bidi structure in fragment", err)
			}
		}
	}

	p := &Parser{builder: builder, unchecked: unchecked}
	schemeRow, err := builder.Reduce("<scheme>", ladder.Leaf(scheme))
	if err != nil {
		return ladder.Row{}, err
	}
	_, opaqueChildren, err := p.splitPercentRuns(opaque)
	if err != nil {
		return ladder.Row{}, err
	}
	opaqueRow, err := builder.Reduce("<opaque>", opaqueChildren...)
	if err != nil {
		return ladder.Row{}, err
	}

	children := []ladder.Row{schemeRow, ladder.Leaf(":"), opaqueRow}
	if hasFragment {
		_, fragChildren, err := p.splitPercentRuns(fragment)
		if err != nil {
			return ladder.Row{}, err
		}
		fragmentRow, err := builder.Reduce("<fragment>", fragChildren...)
		if err != nil {
			return ladder.Row{}, err
		}
		children = append(children, ladder.Leaf("#"), fragmentRow)
	}

	final, err := builder.Reduce("<iri>", children...)
	if err != nil {
		return ladder.Row{}, err
	}
	builder.Finish(final)
	return final, nil
}

func validateOpaque(s string) error {
	i := 0
	for i < len(s) {
		if s[i] == '%' {
			if i+2 >= len(s) || !isASCIIHexDigit(rune(s[i+1])) || !isASCIIHexDigit(rune(s[i+2])) {
				return errkind.New(errkind.GrammarRejected, "invalid percent-encoding").WithDetails(s[i:])
			}
			i += 3
			continue
		}
		r, size := decodeRuneAt(s, i)
		if !isPathChar(r) && r != '?' {
			return errkind.New(errkind.GrammarRejected, "invalid opaque-part character").WithChar(r)
		}
		i += size
	}
	return nil
}

func validateFragmentChars(s string) error {
	i := 0
	for i < len(s) {
		if s[i] == '%' {
			if i+2 >= len(s) || !isASCIIHexDigit(rune(s[i+1])) || !isASCIIHexDigit(rune(s[i+2])) {
				return errkind.New(errkind.GrammarRejected, "invalid percent-encoding").WithDetails(s[i:])
			}
			i += 3
			continue
		}
		r, size := decodeRuneAt(s, i)
		if !isFragmentChar(r) {
			return errkind.New(errkind.GrammarRejected, "invalid fragment character").WithChar(r)
		}
		i += size
	}
	return nil
}
