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
	"fmt"

	"github.com/rduident/resid/errkind"
	"github.com/rduident/resid/ladder"
	"github.com/rduident/resid/param"
)

// Identifier is a parsed, immutable URI/IRI: the nine-stage ladder.Snapshot
// the Grammar Runtime produced, plus the param.Kind it was bound against.
// Per spec.md §3's lifecycle note, an Identifier never mutates in place;
// re-parsing produces a new value.
type Identifier struct {
	kind                  *param.Kind
	snap                  *ladder.Snapshot
	wholeInputNormalized  string
	isCharacterNormalized bool
}

// KindName returns the overlay/scheme name this Identifier was parsed
// against (e.g. "http", "generic", "common").
func (id *Identifier) KindName() string { return id.kind.Descriptor.Whoami }

// RecordKind reports whether this Identifier is of the common or generic
// structural kind.
func (id *Identifier) RecordKind() ladder.Kind { return id.snap.Kind }

// OutputByIndice implements spec.md §6's output_by_indice(i).
func (id *Identifier) OutputByIndice(i ladder.Index) (string, error) {
	out, ok := id.snap.Output(i)
	if !ok {
		return "", errkind.New(errkind.IndiceUnknown, "stage index out of range").WithDetails(fmt.Sprintf("%d", i))
	}
	return out, nil
}

// OutputByType implements spec.md §6's output_by_type(name).
func (id *Identifier) OutputByType(name string) (string, error) {
	i, ok := ladder.IndexByName(name)
	if !ok {
		return "", errkind.New(errkind.IndiceUnknown, "unrecognized stage name").WithDetails(name)
	}
	return id.OutputByIndice(i)
}

// StructByIndice implements spec.md §6's struct_by_indice(i), returning a
// copy of the component-bearing record at stage i.
func (id *Identifier) StructByIndice(i ladder.Index) (any, error) {
	if i < 0 || int(i) >= ladder.Width {
		return nil, errkind.New(errkind.IndiceUnknown, "stage index out of range").WithDetails(fmt.Sprintf("%d", i))
	}
	if id.snap.Kind == ladder.Generic {
		return id.snap.Generic[i], nil
	}
	return id.snap.Common[i], nil
}

// StructByType implements spec.md §6's struct_by_type(name).
func (id *Identifier) StructByType(name string) (any, error) {
	i, ok := ladder.IndexByName(name)
	if !ok {
		return nil, errkind.New(errkind.IndiceUnknown, "unrecognized stage name").WithDetails(name)
	}
	return id.StructByIndice(i)
}

// Normalized returns the PROTOCOL_BASED_NORMALIZED (index 8) output, the
// form spec.md §3 designates as "the" normalized identifier.
func (id *Identifier) Normalized() string { return id.snap.Normalized() }

// Raw returns the RAW (index 0) output: the cleaned input, verbatim.
func (id *Identifier) Raw() string {
	out, _ := id.snap.Output(ladder.RAW)
	return out
}

// ToURI returns the URI_CONVERTED (index 1) output.
func (id *Identifier) ToURI() string {
	out, _ := id.snap.Output(ladder.URIConverted)
	return out
}

// ToIRI returns the IRI_CONVERTED (index 2) output.
func (id *Identifier) ToIRI() string {
	out, _ := id.snap.Output(ladder.IRIConverted)
	return out
}

// WholeInputNormalized returns the whole-input NFC pass spec.md §4.2
// describes as run once, before parsing, with the reserved empty criteria
// key. This implementation computes it for API completeness but parses
// the cleaned (not NFC-normalized) input, so that RAW output stays
// byte-identical to the cleaned input per spec.md §8 property 2 — see
// DESIGN.md for the reasoning.
func (id *Identifier) WholeInputNormalized() string { return id.wholeInputNormalized }

// IsCharacterNormalized reports the is_character_normalized flag from
// construction (inferred from the declared encoding when octets were
// used, or true for string construction).
func (id *Identifier) IsCharacterNormalized() bool { return id.isCharacterNormalized }

// Equal implements spec.md §6's equality contract: byte-equality of the
// two identifiers' index-8 outputs.
func (id *Identifier) Equal(other *Identifier) bool {
	if other == nil {
		return false
	}
	return id.snap.Equal(other.snap)
}

// IsAbsolute reports whether a scheme is defined at the RAW index, per
// spec.md §6's AbsoluteReference predicate.
func (id *Identifier) IsAbsolute() bool {
	if id.snap.Kind == ladder.Generic {
		return id.snap.Generic[ladder.RAW].Scheme.Present
	}
	return id.snap.Common[ladder.RAW].Scheme.Present
}

func (id *Identifier) genericRecord(i ladder.Index) (*ladder.GenericRecord, error) {
	if id.snap.Kind != ladder.Generic {
		return nil, errkind.New(errkind.WrongKind, "operation requires a generic-kind identifier")
	}
	return &id.snap.Generic[i], nil
}

// Scheme, Authority, Host, Port, Path, Query, Fragment, Segments, and
// Opaque are the read-only accessors of spec.md §6, operating on the RAW
// (index 0) snapshot.

func (id *Identifier) Scheme() (string, bool) {
	if id.snap.Kind == ladder.Generic {
		s := id.snap.Generic[ladder.RAW].Scheme
		return s.Value, s.Present
	}
	s := id.snap.Common[ladder.RAW].Scheme
	return s.Value, s.Present
}

func (id *Identifier) Fragment() (string, bool) {
	if id.snap.Kind == ladder.Generic {
		f := id.snap.Generic[ladder.RAW].Fragment
		return f.Value, f.Present
	}
	f := id.snap.Common[ladder.RAW].Fragment
	return f.Value, f.Present
}

func (id *Identifier) Opaque() (string, error) {
	if id.snap.Kind != ladder.Common {
		return "", errkind.New(errkind.WrongKind, "opaque is only defined for common-kind identifiers")
	}
	return id.snap.Common[ladder.RAW].Opaque, nil
}

func (id *Identifier) Authority() (string, bool, error) {
	rec, err := id.genericRecord(ladder.RAW)
	if err != nil {
		return "", false, err
	}
	return rec.Authority.Value, rec.Authority.Present, nil
}

func (id *Identifier) Host() (string, bool, error) {
	rec, err := id.genericRecord(ladder.RAW)
	if err != nil {
		return "", false, err
	}
	return rec.Host.Value, rec.Host.Present, nil
}

func (id *Identifier) Port() (string, bool, error) {
	rec, err := id.genericRecord(ladder.RAW)
	if err != nil {
		return "", false, err
	}
	return rec.Port.Value, rec.Port.Present, nil
}

func (id *Identifier) Userinfo() (string, bool, error) {
	rec, err := id.genericRecord(ladder.RAW)
	if err != nil {
		return "", false, err
	}
	return rec.Userinfo.Value, rec.Userinfo.Present, nil
}

func (id *Identifier) Path() (string, error) {
	rec, err := id.genericRecord(ladder.RAW)
	if err != nil {
		return "", err
	}
	return rec.Path.Value, nil
}

func (id *Identifier) Query() (string, bool, error) {
	rec, err := id.genericRecord(ladder.RAW)
	if err != nil {
		return "", false, err
	}
	return rec.Query.Value, rec.Query.Present, nil
}

func (id *Identifier) Segments() ([]string, error) {
	rec, err := id.genericRecord(ladder.RAW)
	if err != nil {
		return nil, err
	}
	return rec.Segments, nil
}
