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

// Package normalize implements the per-stage normalizer and converter
// callback tables of spec.md §4.3: maps from criteria key to callback, with
// an identity fallback, and a composition mechanism so scheme overlays can
// extend a base table without copying it.
package normalize

import "github.com/rduident/resid/ladder"

// NormalizerTable is a criteria-keyed normalizer callback table. The zero
// value is a usable, empty (all-identity) table.
type NormalizerTable map[string]ladder.NormalizerFunc

// Lookup implements ladder.NormalizerLookup. Absent keys fall through to
// identity, per spec.md §4.3 ("Lookups fall through to the identity
// function... when the criteria key is absent").
func (t NormalizerTable) Lookup(criteria string) ladder.NormalizerFunc {
	if fn, ok := t[criteria]; ok {
		return fn
	}
	return identityNormalizer
}

func identityNormalizer(_ *ladder.Context, _, current, _ string) string { return current }

// ConverterTable is the converter-stage analogue of NormalizerTable.
type ConverterTable map[string]ladder.ConverterFunc

// Lookup implements ladder.ConverterLookup.
func (t ConverterTable) Lookup(criteria string) ladder.ConverterFunc {
	if fn, ok := t[criteria]; ok {
		return fn
	}
	return identityConverter
}

func identityConverter(_ *ladder.Context, _, current, _ string) string { return current }

// composedNormalizers checks overlay first, falling through to base when
// overlay has no entry for the criteria key. This is the "overlays compose
// by wrapping an inner table" mechanism of spec.md §9.
type composedNormalizers struct {
	base, overlay ladder.NormalizerLookup
}

func (c *composedNormalizers) Lookup(criteria string) ladder.NormalizerFunc {
	if ot, ok := c.overlay.(NormalizerTable); ok {
		if fn, present := ot[criteria]; present {
			return fn
		}
	}
	return c.base.Lookup(criteria)
}

// ComposeNormalizers returns a lookup that prefers overlay's entries and
// falls back to base's.
func ComposeNormalizers(base, overlay ladder.NormalizerLookup) ladder.NormalizerLookup {
	if overlay == nil {
		return base
	}
	if base == nil {
		return overlay
	}
	return &composedNormalizers{base: base, overlay: overlay}
}

type composedConverters struct {
	base, overlay ladder.ConverterLookup
}

func (c *composedConverters) Lookup(criteria string) ladder.ConverterFunc {
	if ot, ok := c.overlay.(ConverterTable); ok {
		if fn, present := ot[criteria]; present {
			return fn
		}
	}
	return c.base.Lookup(criteria)
}

// ComposeConverters is the converter-stage analogue of ComposeNormalizers.
func ComposeConverters(base, overlay ladder.ConverterLookup) ladder.ConverterLookup {
	if overlay == nil {
		return base
	}
	if base == nil {
		return overlay
	}
	return &composedConverters{base: base, overlay: overlay}
}
