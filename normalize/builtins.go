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

package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/golang/glog"
	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"

	"github.com/rduident/resid/ladder"
	"github.com/rduident/resid/pctcodec"
)

// CriteriaPctEncoded is the criteria key normalizer/converter tables see for
// the <pct_encoded> grammar symbol, which no Descriptor maps to a struct
// field, so its criteria key is the bracketed LHS itself per spec.md §4.2.
const CriteriaPctEncoded = "<pct_encoded>"

// uriIDNAProfile and iriIDNAProfile approximate the URI/AllowUnassigned=true
// vs IRI/AllowUnassigned=false distinction of spec.md §4.3. Modern
// golang.org/x/net/idna implements IDNA2008 and has no AllowUnassigned knob
// (an IDNA2003-ism); trident's own ToURI/normalizeHostAndPort carries the
// identical gap ("TODO: implement my own IDNA2003 module"). We approximate
// it with the strictness knobs idna.Profile does expose: the URI profile
// (wants a DNS-resolvable ASCII form) validates labels and enforces
// STD3 ASCII rules; the IRI profile stays lenient, matching the package-
// level idna.ToASCII trident itself calls.
var (
	uriIDNAProfile = idna.New(idna.StrictDomainName(true), idna.ValidateLabels(true))
	iriIDNAProfile = idna.New()
)

func unreservedPredicate(ctx *ladder.Context) func(rune) bool {
	if ctx == nil || ctx.Extra == nil {
		return isUnreservedASCII
	}
	re, ok := ctx.Extra["unreserved"].(*regexp.Regexp)
	if !ok || re == nil {
		return isUnreservedASCII
	}
	return func(r rune) bool { return re.MatchString(string(r)) }
}

func isUnreservedASCII(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
		r == '-' || r == '.' || r == '_' || r == '~'
}

func regNameIsDomainName(ctx *ladder.Context) bool {
	if ctx == nil || ctx.Extra == nil {
		return false
	}
	v, _ := ctx.Extra["reg_name_is_domain_name"].(bool)
	return v
}

func defaultPort(ctx *ladder.Context) string {
	if ctx == nil || ctx.Extra == nil {
		return ""
	}
	v, _ := ctx.Extra["default_port"].(string)
	return v
}

// hexPair matches a single percent-encoded octet so its hex digits can be
// uppercased in place.
var hexPair = regexp.MustCompile(`%[0-9A-Fa-f]{2}`)

func uppercasePctHex(s string) string {
	return hexPair.ReplaceAllStringFunc(s, strings.ToUpper)
}

// GenericCaseNormalizer implements spec.md §4.3's case_normalizer for the
// generic kind.
func GenericCaseNormalizer() NormalizerTable {
	return NormalizerTable{
		CriteriaPctEncoded: func(_ *ladder.Context, _, current, _ string) string {
			return uppercasePctHex(current)
		},
		"scheme": func(_ *ladder.Context, _, current, _ string) string {
			return strings.ToLower(current)
		},
		"host": func(_ *ladder.Context, _, current, _ string) string {
			if isASCIIOnly(current) {
				return strings.ToLower(current)
			}
			return current
		},
	}
}

// CommonCaseNormalizer implements the Common-kind default: only the
// pct_encoded uppercase rule.
func CommonCaseNormalizer() NormalizerTable {
	return NormalizerTable{
		CriteriaPctEncoded: func(_ *ladder.Context, _, current, _ string) string {
			return uppercasePctHex(current)
		},
	}
}

func isASCIIOnly(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// GenericCharacterNormalizer applies NFC to the reserved whole-input
// pre-parse pass (criteria ""); every per-reduction criteria is identity by
// default, leaving room for scheme overlays.
func GenericCharacterNormalizer() NormalizerTable {
	return NormalizerTable{
		"": func(_ *ladder.Context, _, current, _ string) string {
			return norm.NFC.String(current)
		},
	}
}

// GenericPercentEncodingNormalizer implements spec.md §4.3's
// percent_encoding_normalizer.
func GenericPercentEncodingNormalizer() NormalizerTable {
	return NormalizerTable{
		CriteriaPctEncoded: func(ctx *ladder.Context, _, current, _ string) string {
			return pctcodec.Unescape(current, unreservedPredicate(ctx))
		},
	}
}

// GenericPathSegmentNormalizer is identity by default: this stage does not
// remove dot-segments (resid/resolve's RemoveDotSegments runs only during
// reference resolution, on the complete RAW path). A scheme overlay may
// override this hook for a segment-local rule.
func GenericPathSegmentNormalizer() NormalizerTable { return NormalizerTable{} }

// GenericSchemeBasedNormalizer implements spec.md §4.3's
// scheme_based_normalizer, resolving the Open Question of spec.md §9 as:
// strip an authority suffix of exactly ":<default_port>" or a bare trailing
// ":", nothing broader.
func GenericSchemeBasedNormalizer() NormalizerTable {
	return NormalizerTable{
		"path": func(_ *ladder.Context, _, current, _ string) string {
			if current == "" {
				return "/"
			}
			return current
		},
		"authority": func(ctx *ladder.Context, _, current, _ string) string {
			port := defaultPort(ctx)
			if strings.HasSuffix(current, ":"+port) && port != "" {
				return strings.TrimSuffix(current, ":"+port)
			}
			if strings.HasSuffix(current, ":") {
				return strings.TrimSuffix(current, ":")
			}
			return current
		},
	}
}

// GenericProtocolBasedNormalizer is identity by default; an overlay may
// extend it. None of the built-in overlays in resid/scheme does.
func GenericProtocolBasedNormalizer() NormalizerTable { return NormalizerTable{} }

// GenericURIConverter and GenericIRIConverter implement spec.md §4.3's
// uri_converter/iri_converter: for a reg_name that is a domain name, run IDN
// ToASCII; identity elsewhere.
func GenericURIConverter() ConverterTable {
	return ConverterTable{
		"reg_name": func(ctx *ladder.Context, _, current, _ string) string {
			return idnaToASCII(ctx, current, uriIDNAProfile)
		},
	}
}

func GenericIRIConverter() ConverterTable {
	return ConverterTable{
		"reg_name": func(ctx *ladder.Context, _, current, _ string) string {
			return idnaToASCII(ctx, current, iriIDNAProfile)
		},
	}
}

func idnaToASCII(ctx *ladder.Context, current string, profile *idna.Profile) string {
	if !regNameIsDomainName(ctx) || current == "" {
		return current
	}
	ascii, err := profile.ToASCII(current)
	if err != nil {
		glog.Warningf("normalize: IDNA ToASCII failed for reg_name %q, leaving unconverted: %v", current, err)
		return current
	}
	return ascii
}
