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

// Package bidiguard implements the structural bidirectional-text rules of
// RFC 3987, Section 4.1 and 4.2. resid/grammar calls it directly from its
// component-consumption logic for the generic identifier kind, right after
// slicing out each userinfo/host/path-segment/query/fragment substring: a
// component (or, for hosts, a dot-separated label) must not mix
// left-to-right and right-to-left characters, and a component that
// contains right-to-left characters must start and end with one. It is not
// wired through the ladder normalizer tables, since those callbacks are
// required to be total and this check can reject.
package bidiguard

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/bidi"
)

// Violation describes a component that failed bidi structural validation.
type Violation struct {
	Message string
	Detail  string
}

func (v *Violation) Error() string {
	if v.Detail == "" {
		return v.Message
	}
	return v.Message + " '" + v.Detail + "'"
}

// ValidateComponent checks a single IRI component against RFC 3987 Section 4.1.
func ValidateComponent(component string) error {
	if component == "" {
		return nil
	}

	runes := []rune(component)
	var hasLTR, hasRTL bool

	for _, r := range runes {
		prop, _ := bidi.LookupRune(r)
		switch prop.Class() {
		case bidi.R, bidi.AL:
			hasRTL = true
		case bidi.L:
			hasLTR = true
		}
	}

	if hasLTR && hasRTL {
		return &Violation{
			Message: "component mixes left-to-right and right-to-left characters",
			Detail:  component,
		}
	}

	if !hasRTL {
		return nil
	}

	firstProp, _ := bidi.LookupRune(runes[0])
	lastProp, _ := bidi.LookupRune(runes[len(runes)-1])
	if !isRTLClass(firstProp.Class()) || !isRTLClass(lastProp.Class()) {
		return &Violation{
			Message: "right-to-left component must start and end with a right-to-left character",
			Detail:  component,
		}
	}
	return nil
}

// ValidateHost applies ValidateComponent per dot-separated label, per RFC 3987
// Section 4.2. IP literals (bracketed) are exempt.
func ValidateHost(host string) error {
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		return nil
	}
	for _, label := range strings.Split(host, ".") {
		err := ValidateComponent(label)
		if err == nil {
			continue
		}
		var v *Violation
		if !errors.As(err, &v) {
			return &Violation{
				Message: "host label failed bidi validation",
				Detail:  label + " in host '" + host + "'",
			}
		}
		return &Violation{
			Message: "host label failed bidi validation",
			Detail:  v.Detail + " in host '" + host + "'",
		}
	}
	return nil
}

func isRTLClass(c bidi.Class) bool {
	return c == bidi.R || c == bidi.AL
}
