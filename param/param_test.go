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

package param

import (
	"testing"

	"github.com/rduident/resid/errkind"
	"github.com/rduident/resid/ladder"
)

func TestBindAcceptsDefaultGenericMapping(t *testing.T) {
	k, err := Bind(Descriptor{
		Whoami:  "generic",
		Kind:    ladder.Generic,
		Mapping: DefaultGenericMapping(),
	})
	if err != nil {
		t.Fatalf("Bind(DefaultGenericMapping) error: %v", err)
	}
	if k.Engine.Kind != ladder.Generic {
		t.Errorf("bound Kind.Engine.Kind = %v, want Generic", k.Engine.Kind)
	}
}

func TestBindAcceptsDefaultCommonMapping(t *testing.T) {
	_, err := Bind(Descriptor{
		Whoami:  "common",
		Kind:    ladder.Common,
		Mapping: DefaultCommonMapping(),
	})
	if err != nil {
		t.Fatalf("Bind(DefaultCommonMapping) error: %v", err)
	}
}

func TestBindRejectsBareNameKey(t *testing.T) {
	mapping := DefaultCommonMapping()
	mapping["scheme"] = "scheme" // bare, not "<scheme>"
	_, err := Bind(Descriptor{Kind: ladder.Common, Mapping: mapping})
	assertBindingInvalid(t, err)
}

func TestBindRejectsUnknownField(t *testing.T) {
	mapping := DefaultCommonMapping()
	mapping["<bogus>"] = "bogus_field"
	_, err := Bind(Descriptor{Kind: ladder.Common, Mapping: mapping})
	assertBindingInvalid(t, err)
}

func TestBindRejectsUnmappedField(t *testing.T) {
	mapping := DefaultCommonMapping()
	delete(mapping, "<fragment>")
	_, err := Bind(Descriptor{Kind: ladder.Common, Mapping: mapping})
	assertBindingInvalid(t, err)
}

func TestBindRejectsSegmentsOnCommonKind(t *testing.T) {
	mapping := DefaultCommonMapping()
	mapping["<scheme>"] = "segments"
	_, err := Bind(Descriptor{Kind: ladder.Common, Mapping: mapping})
	assertBindingInvalid(t, err)
}

func assertBindingInvalid(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Bind() = nil error, want BindingInvalid")
	}
	var kindErr *errkind.Error
	if ke, ok := err.(*errkind.Error); ok {
		kindErr = ke
	} else {
		t.Fatalf("Bind() error type = %T, want *errkind.Error", err)
	}
	if kindErr.Kind != errkind.BindingInvalid {
		t.Errorf("Bind() error kind = %v, want BindingInvalid", kindErr.Kind)
	}
}
