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

package ladder

import (
	"fmt"
	"reflect"

	"github.com/stoewer/go-strcase"
)

// Row is a ladder-snapshot array: one string per stage, exactly as produced
// by a single grammar reduction or contributed by a terminal leaf.
type Row [Width]string

// Leaf builds a Row whose value is identical at every stage, the
// contribution a terminal symbol makes to concatenation.
func Leaf(s string) Row {
	var r Row
	for i := range r {
		r[i] = s
	}
	return r
}

// Context is passed to every normalizer/converter callback. It carries the
// identifying information a scheme overlay needs (e.g. to decide a default
// port) without exposing the builder's mutable state.
type Context struct {
	Whoami string
	Kind   Kind
	Extra  map[string]any
}

// NormalizerFunc mirrors the "(context, criteria, current_value, lhs) ->
// new_value" signature of spec.md §4.3. Normalizer chaining calls these for
// stages 3..8, left to right.
type NormalizerFunc func(ctx *Context, criteria, current, lhs string) string

// ConverterFunc has the same shape but is used independently, not chained,
// for stages 1 and 2.
type ConverterFunc func(ctx *Context, criteria, current, lhs string) string

// NormalizerLookup resolves a criteria key to a callback, falling through to
// the identity function when absent. Implemented by normalize.Table.
type NormalizerLookup interface {
	Lookup(criteria string) NormalizerFunc
}

// ConverterLookup is the converter-stage analogue of NormalizerLookup.
type ConverterLookup interface {
	Lookup(criteria string) ConverterFunc
}

// Engine computes ladder rows: it owns the per-stage callback tables and the
// grammar-symbol-to-field mapping, but not the in-progress record arrays
// (those live in Builder, built fresh per parse).
type Engine struct {
	Kind Kind

	// Normalizers holds the lookup table for stages 3..8, indexed by
	// Index-3 (so Normalizers[0] serves CaseNormalized, ... Normalizers[5]
	// serves ProtocolBasedNormalized).
	Normalizers [6]NormalizerLookup
	// Converters holds the lookup table for stages 1..2, indexed by
	// Index-1.
	Converters [2]ConverterLookup

	// Mapping is the Parameterization Descriptor's grammar-symbol-to-field
	// table, keyed by "<name>".
	Mapping map[string]string
}

// criteria resolves the criteria key for a reduction: the mapped field name
// if lhs is mapped, else lhs itself, per spec.md §4.2.
func (e *Engine) criteria(lhs string) string {
	if field, ok := e.Mapping[lhs]; ok {
		return field
	}
	return lhs
}

// Reduce implements the three-stage pipeline of spec.md §4.2 for a single
// grammar reduction: concatenate children at every index, chain-normalize
// indices 3..8, then independently convert indices 1..2.
func (e *Engine) Reduce(ctx *Context, lhs string, children ...Row) Row {
	return e.compute(ctx, e.criteria(lhs), lhs, children)
}

// ReduceWhole runs the identical pipeline over the whole input string before
// parsing begins, using the reserved empty criteria key, per spec.md §4.2's
// "pre-parse normalized form" pass.
func (e *Engine) ReduceWhole(ctx *Context, whole string) Row {
	return e.compute(ctx, "", "", []Row{Leaf(whole)})
}

func (e *Engine) compute(ctx *Context, criteria, lhs string, children []Row) Row {
	var rc Row

	// 1. Concatenate.
	for i := 0; i < Width; i++ {
		for _, c := range children {
			rc[i] += c[i]
		}
	}

	// 2. Normalize, stages 3..8, left-to-right, cumulative.
	current := rc[CaseNormalized]
	for i := CaseNormalized; i < Width; i++ {
		if table := e.Normalizers[int(i)-int(CaseNormalized)]; table != nil {
			if fn := table.Lookup(criteria); fn != nil {
				current = fn(ctx, criteria, current, lhs)
			}
		}
		rc[i] = current
	}

	// 3. Convert, stages 1..2, independent of each other and of step 2.
	for i := URIConverted; i <= IRIConverted; i++ {
		if table := e.Converters[int(i)-int(URIConverted)]; table != nil {
			if fn := table.Lookup(criteria); fn != nil {
				rc[i] = fn(ctx, criteria, rc[i], lhs)
			}
		}
	}

	return rc
}

// Builder accumulates the nine-record snapshot for a single parse. A fresh
// Builder is created per parse; it is never shared or mutated concurrently.
type Builder struct {
	Engine *Engine
	Ctx    *Context
	Snap   Snapshot
}

// NewBuilder creates a Builder for a single parse using engine.
func NewBuilder(engine *Engine, ctx *Context) *Builder {
	return &Builder{Engine: engine, Ctx: ctx, Snap: Snapshot{Kind: engine.Kind}}
}

// Reduce computes the ladder row for a reduction and, if lhs is mapped to a
// struct field, assigns the row into that field of every one of the nine
// records (or appends to Segments).
func (b *Builder) Reduce(lhs string, children ...Row) (Row, error) {
	row := b.Engine.Reduce(b.Ctx, lhs, children...)
	field, mapped := b.Engine.Mapping[lhs]
	if !mapped {
		return row, nil
	}
	if err := b.assign(field, row); err != nil {
		return row, err
	}
	return row, nil
}

// Finish sets the Output field of every record to the top-level parse
// result, per the invariant that a record's output is the concatenation of
// its children, and the whole identifier is the outermost reduction.
func (b *Builder) Finish(final Row) {
	for i := 0; i < Width; i++ {
		if b.Engine.Kind == Generic {
			b.Snap.Generic[i].Output = final[i]
		} else {
			b.Snap.Common[i].Output = final[i]
		}
	}
}

func (b *Builder) assign(field string, row Row) error {
	if field == "segments" || field == "Segments" {
		for i := 0; i < Width; i++ {
			b.Snap.Generic[i].Segments = append(b.Snap.Generic[i].Segments, row[i])
		}
		return nil
	}

	goField := strcase.UpperCamelCase(field)
	for i := 0; i < Width; i++ {
		var target reflect.Value
		if b.Engine.Kind == Generic {
			target = reflect.ValueOf(&b.Snap.Generic[i]).Elem()
		} else {
			target = reflect.ValueOf(&b.Snap.Common[i]).Elem()
		}
		fv := target.FieldByName(goField)
		if !fv.IsValid() {
			return fmt.Errorf("ladder: field %q (mapped from %q) not found on %s record", goField, field, b.Engine.Kind)
		}
		setOptionalOrString(fv, row[i])
	}
	return nil
}

func setOptionalOrString(fv reflect.Value, value string) {
	switch fv.Type() {
	case reflect.TypeOf(OptionalString{}):
		fv.Set(reflect.ValueOf(OptionalString{Value: value, Present: true}))
	case reflect.TypeOf(""):
		fv.SetString(value)
	}
}
