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

// Package ladder implements the nine-stage normalization ladder: the fixed
// set of parallel output strings computed for every parsed identifier, and
// the engine that assembles them one grammar reduction at a time.
package ladder

// Index names a stage of the ladder. The order and cardinality are fixed by
// the data model: nine stages, numbered 0 through 8.
type Index int

const (
	RAW Index = iota
	URIConverted
	IRIConverted
	CaseNormalized
	CharacterNormalized
	PercentEncodingNormalized
	PathSegmentNormalized
	SchemeBasedNormalized
	ProtocolBasedNormalized

	// Width is the fixed number of ladder stages.
	Width = 9
)

// names maps indices to the external stage name used by output_by_type /
// struct_by_type.
var names = [Width]string{
	RAW:                        "RAW",
	URIConverted:               "URI_CONVERTED",
	IRIConverted:               "IRI_CONVERTED",
	CaseNormalized:             "CASE_NORMALIZED",
	CharacterNormalized:        "CHARACTER_NORMALIZED",
	PercentEncodingNormalized:  "PERCENT_ENCODING_NORMALIZED",
	PathSegmentNormalized:      "PATH_SEGMENT_NORMALIZED",
	SchemeBasedNormalized:      "SCHEME_BASED_NORMALIZED",
	ProtocolBasedNormalized:    "PROTOCOL_BASED_NORMALIZED",
}

// String returns the canonical stage name.
func (i Index) String() string {
	if i < 0 || int(i) >= Width {
		return "UNKNOWN"
	}
	return names[i]
}

// IndexByName resolves a stage name to its Index. ok is false for an
// unrecognized name (the caller should surface an IndiceUnknown error).
func IndexByName(name string) (Index, bool) {
	for i, n := range names {
		if n == name {
			return Index(i), true
		}
	}
	return 0, false
}

// Kind selects which record shape a parse produces.
type Kind int

const (
	Common Kind = iota
	Generic
)

func (k Kind) String() string {
	if k == Generic {
		return "generic"
	}
	return "common"
}

// OptionalString models a component that may be entirely absent from the
// parsed identifier, as distinct from one that is present but empty.
type OptionalString struct {
	Value   string
	Present bool
}

// Set assigns v and marks the field present.
func (o *OptionalString) Set(v string) { o.Value, o.Present = v, true }

// CommonRecord is the component-bearing record for the "common" identifier
// kind: scheme, an opaque tail, and an optional fragment.
type CommonRecord struct {
	Output   string
	Scheme   OptionalString
	Opaque   string
	Fragment OptionalString
}

// GenericRecord extends CommonRecord with the hierarchical components of
// RFC 3986/3987 generic syntax.
type GenericRecord struct {
	CommonRecord

	HierPart     OptionalString
	Query        OptionalString
	Authority    OptionalString
	Path         OptionalString
	RelativeRef  OptionalString
	RelativePart OptionalString
	Userinfo     OptionalString
	Host         OptionalString
	Port         OptionalString
	IpLiteral    OptionalString
	Ipv4Address  OptionalString
	RegName      OptionalString
	Ipv6Address  OptionalString
	Ipv6Addrz    OptionalString
	Ipvfuture    OptionalString
	Zoneid       OptionalString

	Segments []string
}

// Snapshot is the fixed-width, nine-record ladder produced by a single
// parse. Exactly one of Common or Generic is populated, per Kind.
type Snapshot struct {
	Kind    Kind
	Common  [Width]CommonRecord
	Generic [Width]GenericRecord
}

// Output returns the output string at stage i. ok is false for i outside
// 0..8.
func (s *Snapshot) Output(i Index) (string, bool) {
	if i < 0 || int(i) >= Width {
		return "", false
	}
	if s.Kind == Generic {
		return s.Generic[i].Output, true
	}
	return s.Common[i].Output, true
}

// Normalized returns the PROTOCOL_BASED_NORMALIZED output, the form exposed
// to external callers as "the" normalized identifier.
func (s *Snapshot) Normalized() string {
	out, _ := s.Output(ProtocolBasedNormalized)
	return out
}

// Equal implements the identifier equality contract: byte-equality of the
// index-8 (PROTOCOL_BASED_NORMALIZED) outputs.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if other == nil {
		return false
	}
	return s.Normalized() == other.Normalized()
}
