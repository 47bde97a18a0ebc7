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

// Package resid parses, normalizes, converts, and recomposes Resource
// Identifiers per RFC 3986 (URI) and RFC 3987 (IRI). It is the public
// facade over resid/grammar, resid/ladder, resid/normalize, resid/resolve,
// resid/param, and resid/scheme, grounded throughout on trident's iri.go
// facade (Parse/New/Resolve/Relativize/ToURI) but restructured around the
// nine-stage ladder and the Parameterization/Overlay mechanism those
// subpackages implement.
package resid

import "github.com/rduident/resid/errkind"

// Error is the structured error every resid operation returns; it is
// exactly resid/errkind's Error type, re-exported so callers never need to
// import resid/errkind directly.
type Error = errkind.Error

// Kind classifies an Error, mirroring spec.md §7's error-kind vocabulary.
type Kind = errkind.Kind

const (
	InputShape       = errkind.InputShape
	DecodeFailed     = errkind.DecodeFailed
	GrammarRejected  = errkind.GrammarRejected
	GrammarAmbiguous = errkind.GrammarAmbiguous
	NotAbsolute      = errkind.NotAbsolute
	WrongKind        = errkind.WrongKind
	BindingInvalid   = errkind.BindingInvalid
	IndiceUnknown    = errkind.IndiceUnknown
)

// ErrRelativize is returned by Relativize when the target's path contains
// dot-segments, mirroring trident's ErrIriRelativize: a relative reference
// built against such a path would be ambiguous after RFC 3986 §5.2.4
// dot-segment removal during a later resolve.
var ErrRelativize = errkind.New(errkind.GrammarRejected, "cannot relativize a target whose path contains dot-segments")
