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

package resid

import (
	"regexp"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rduident/resid/errkind"
	"github.com/rduident/resid/grammar"
	"github.com/rduident/resid/ladder"
	"github.com/rduident/resid/param"
	"github.com/rduident/resid/scheme"
	"github.com/rduident/resid/setup"
)

// schemePrefix recognizes "<scheme>:" at the start of an input, enough to
// pick an Overlay before the real parse runs, without duplicating the
// grammar's own scheme production.
var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)

// kindCache memoizes the bound param.Kind per overlay name: binding runs
// the Parameterization sanity checks once, not on every parse, mirroring
// the grammar-registration cache spec.md §5 calls for. kindGroup collapses
// concurrent first-binds of the same overlay name into a single param.Bind
// call, so a burst of goroutines all Parse-ing "https://..." for the first
// time don't race each other through the binding-time sanity checks.
var (
	kindCache sync.Map // map[string]*param.Kind
	kindGroup singleflight.Group
)

func boundGenericKind(name string) (*param.Kind, error) {
	if v, ok := kindCache.Load(name); ok {
		return v.(*param.Kind), nil
	}

	v, err, _ := kindGroup.Do(name, func() (any, error) {
		if v, ok := kindCache.Load(name); ok {
			return v.(*param.Kind), nil
		}

		ctor, ok := scheme.ByName(name)
		var k *param.Kind
		var err error
		if ok {
			k, err = ctor()
		} else {
			k, err = scheme.Generic()
		}
		if err != nil {
			return nil, err
		}

		actual, _ := kindCache.LoadOrStore(name, k)
		return actual.(*param.Kind), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*param.Kind), nil
}

var commonKindOnce sync.Once
var commonKind *param.Kind
var commonKindErr error

func boundCommonKind() (*param.Kind, error) {
	commonKindOnce.Do(func() {
		commonKind, commonKindErr = param.Bind(param.Descriptor{
			Whoami:  "common",
			Kind:    ladder.Common,
			Mapping: param.DefaultCommonMapping(),
		})
	})
	return commonKind, commonKindErr
}

func sniffOverlayName(input string) string {
	m := schemePrefix.FindString(input)
	if m == "" {
		return "generic"
	}
	return toLowerASCII(m[:len(m)-1])
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Parse constructs an Identifier from a string, auto-selecting a scheme
// Overlay by sniffing the "<scheme>:" prefix (falling back to the generic
// overlay), and parses it against the generic grammar.
func Parse(input string) (*Identifier, error) {
	name := sniffOverlayName(input)
	k, err := boundGenericKind(name)
	if err != nil {
		return nil, err
	}
	return ParseAs(k, input)
}

// ParseURIAsIRI parses a URI string and returns it as an Identifier whose
// ToIRI() output is its IRI form, per SPEC_FULL.md §9's URI<->IRI
// round-trip note: the feature trident exposes as a bespoke
// ParseURIToRef method now falls out of Parse plus the IRI_CONVERTED
// ladder stage, so this is a documented alias, not new machinery.
func ParseURIAsIRI(s string) (*Identifier, error) {
	return Parse(s)
}

// ParseCommon constructs an Identifier of the common kind: scheme ":"
// opaque-part ["#" fragment], for schemes whose scheme-specific part is
// not hierarchical (e.g. "mailto:", "tel:", "urn:").
func ParseCommon(input string) (*Identifier, error) {
	k, err := boundCommonKind()
	if err != nil {
		return nil, err
	}
	return ParseAs(k, input)
}

// ParseAs constructs an Identifier by parsing input against an explicitly
// bound param.Kind, bypassing scheme auto-detection. Use this to parse
// against a custom Overlay (e.g. one built with scheme.Overlay directly).
func ParseAs(k *param.Kind, input string) (*Identifier, error) {
	return newFromString(k, input)
}

func newFromString(k *param.Kind, input string) (*Identifier, error) {
	cleaned := setup.Clean(setup.Current(), input)

	ctx := k.NewContext()
	wholeRow := k.Engine.ReduceWhole(ctx, cleaned)

	builder := ladder.NewBuilder(k.Engine, ctx)

	var err error
	if k.Descriptor.Kind == ladder.Generic {
		_, err = grammar.ParseGeneric(cleaned, builder, false)
	} else {
		_, err = grammar.ParseCommon(cleaned, builder, false)
	}
	if err != nil {
		return nil, err
	}

	return &Identifier{
		kind:                 k,
		snap:                 &builder.Snap,
		wholeInputNormalized: wholeRow[ladder.CharacterNormalized],
		isCharacterNormalized: true,
	}, nil
}

// New implements spec.md §4.7's full input-construction configuration:
// either a string-like input or an {octets, encoding, decode_strategy,
// is_character_normalized} set. k selects the Overlay to parse against; a
// nil k falls back to the generic overlay.
func New(cfg Config, k *param.Kind) (*Identifier, error) {
	if k == nil {
		var err error
		k, err = boundGenericKind("generic")
		if err != nil {
			return nil, err
		}
	}

	if cfg.Input != nil && cfg.Octets != nil {
		return nil, errkind.New(errkind.InputShape, "both input and octets supplied")
	}
	if cfg.Input == nil && cfg.Octets == nil {
		return nil, errkind.New(errkind.InputShape, "neither input nor octets supplied")
	}
	if cfg.Octets != nil && cfg.Encoding == "" {
		return nil, errkind.New(errkind.InputShape, "octets supplied without encoding")
	}

	if cfg.Input != nil {
		return newFromString(k, *cfg.Input)
	}

	strategy := cfg.DecodeStrategy
	if strategy == "" {
		strategy = "fail-on-invalid"
	}
	decoded, err := decodeOctets(cfg.Octets, cfg.Encoding, strategy)
	if err != nil {
		return nil, err
	}

	id, err := newFromString(k, decoded)
	if err != nil {
		return nil, err
	}
	if cfg.IsCharacterNormalized != nil {
		id.isCharacterNormalized = *cfg.IsCharacterNormalized
	} else {
		id.isCharacterNormalized = isUCSEncoding(cfg.Encoding)
	}
	return id, nil
}
