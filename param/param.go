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

// Package param implements Parameterization (spec.md §4.6): binding a
// grammar kind, a field mapping, and a set of regex predicates into a
// concrete identifier type, with the binding-time sanity checks spec.md §4.6
// requires. It has no teacher-repo analogue as a standalone file — trident
// hard-codes a single grammar/field pairing per Go type instead of a
// reusable binder — so this package's shape is new, grounded on the
// Descriptor/mapping vocabulary spec.md §4.6 itself defines, with the
// reflection technique trident's sibling-in-spirit google-xtoproto uses for
// generic field access (github.com/stoewer/go-strcase + reflect).
package param

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/stoewer/go-strcase"

	"github.com/rduident/resid/errkind"
	"github.com/rduident/resid/ladder"
)

// symbolPattern matches a well-formed grammar-symbol mapping key, the
// "<name>" convention spec.md §4.1 and §4.6 both specify.
var symbolPattern = regexp.MustCompile(`^<[a-z][a-z0-9_]*>$`)

// Descriptor is spec.md §4.6's Parameterization Descriptor.
type Descriptor struct {
	Whoami string
	Kind   ladder.Kind

	// Mapping is the grammar-symbol -> record-field table, keyed by
	// "<name>". It must cover every field of the target record exactly.
	Mapping map[string]string

	// Normalizers/Converters populate the bound Kind's ladder.Engine
	// directly; a nil entry leaves that stage's table empty (identity).
	Normalizers [6]ladder.NormalizerLookup
	Converters  [2]ladder.ConverterLookup

	// Unreserved overrides the unreserved-character predicate consulted
	// by the percent-encoding normalizer; nil selects the generic
	// RFC 3986 unreserved set.
	Unreserved *regexp.Regexp

	// RegNameIsDomainName and DefaultPort are scheme-overlay predicates,
	// exposed to callbacks through ladder.Context.Extra.
	RegNameIsDomainName bool
	DefaultPort         string
}

// Kind is the concrete, bound identifier type a Descriptor produces.
type Kind struct {
	Descriptor Descriptor
	Engine     *ladder.Engine
}

// NewContext builds the ladder.Context a parse of this Kind should use.
func (k *Kind) NewContext() *ladder.Context {
	return &ladder.Context{
		Whoami: k.Descriptor.Whoami,
		Kind:   k.Descriptor.Kind,
		Extra: map[string]any{
			"unreserved":              k.Descriptor.Unreserved,
			"reg_name_is_domain_name": k.Descriptor.RegNameIsDomainName,
			"default_port":            k.Descriptor.DefaultPort,
		},
	}
}

// Bind implements spec.md §4.6's binding-time sanity checks and produces
// the concrete Kind. It returns errkind.BindingInvalid on any violation.
func Bind(d Descriptor) (*Kind, error) {
	for key, field := range d.Mapping {
		if !symbolPattern.MatchString(key) {
			return nil, errkind.New(errkind.BindingInvalid,
				"mapping key is not of the form <name>").WithDetails(key)
		}
		if err := validateField(d.Kind, field); err != nil {
			return nil, err
		}
	}

	if err := checkEveryFieldMapped(d.Kind, d.Mapping); err != nil {
		return nil, err
	}

	// ladder.Engine.Mapping is keyed by the exact "<name>" strings that
	// grammar.ParseGeneric/ParseCommon pass as Reduce's lhs, so the Descriptor's mapping
	// carries over unchanged: e.g. Mapping["<scheme>"] = "scheme" lets
	// Engine.criteria resolve the bracketed lhs to the bare field name
	// the normalizer/converter tables in resid/normalize key off.
	engine := &ladder.Engine{
		Kind:        d.Kind,
		Normalizers: d.Normalizers,
		Converters:  d.Converters,
		Mapping:     d.Mapping,
	}
	return &Kind{Descriptor: d, Engine: engine}, nil
}

func validateField(kind ladder.Kind, field string) error {
	if field == "segments" {
		if kind != ladder.Generic {
			return errkind.New(errkind.BindingInvalid, "segments field is only valid for the generic kind")
		}
		return nil
	}
	goField := strcase.UpperCamelCase(field)
	recordType := recordTypeFor(kind)
	if _, ok := recordType.FieldByName(goField); !ok {
		return errkind.New(errkind.BindingInvalid,
			fmt.Sprintf("mapping value %q (field %q) is not a known field of the %s record", field, goField, kind)).
			WithDetails(field)
	}
	return nil
}

// checkEveryFieldMapped enforces that the mapping covers every field of the
// target record exactly: no unmapped fields, per spec.md §4.6.
func checkEveryFieldMapped(kind ladder.Kind, mapping map[string]string) error {
	mapped := make(map[string]bool, len(mapping))
	for _, field := range mapping {
		mapped[strcase.UpperCamelCase(field)] = true
	}

	recordType := recordTypeFor(kind)
	var unmapped []string
	for _, f := range structFields(recordType) {
		if f.Name == "Output" {
			continue
		}
		if !mapped[f.Name] {
			unmapped = append(unmapped, f.Name)
		}
	}
	if len(unmapped) > 0 {
		return errkind.New(errkind.BindingInvalid,
			"mapping leaves fields unmapped").WithDetails(strings.Join(unmapped, ", "))
	}
	return nil
}

func recordTypeFor(kind ladder.Kind) reflect.Type {
	if kind == ladder.Generic {
		return reflect.TypeOf(ladder.GenericRecord{})
	}
	return reflect.TypeOf(ladder.CommonRecord{})
}

// structFields flattens embedded structs (GenericRecord embeds
// CommonRecord) into a single list of named fields.
func structFields(t reflect.Type) []reflect.StructField {
	var out []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			out = append(out, structFields(f.Type)...)
			continue
		}
		out = append(out, f)
	}
	return out
}
