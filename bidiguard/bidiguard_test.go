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

package bidiguard

import "testing"

func TestValidateComponentEmpty(t *testing.T) {
	if err := ValidateComponent(""); err != nil {
		t.Fatalf("ValidateComponent(\"\") = %v, want nil", err)
	}
}

func TestValidateComponentAllLTR(t *testing.T) {
	if err := ValidateComponent("example"); err != nil {
		t.Fatalf("ValidateComponent(example) = %v, want nil", err)
	}
}

func TestValidateComponentMixedDirectionRejected(t *testing.T) {
	// "a" (LTR) + Hebrew aleph (RTL).
	if err := ValidateComponent("aא"); err == nil {
		t.Fatalf("ValidateComponent(mixed) = nil, want error")
	}
}

func TestValidateComponentRTLMustBookend(t *testing.T) {
	// RTL text followed by a digit (neutral-ish but not RTL) at the end.
	if err := ValidateComponent("אב1"); err == nil {
		t.Fatalf("ValidateComponent(rtl-then-digit) = nil, want error")
	}
}

func TestValidateHostIPLiteralExempt(t *testing.T) {
	if err := ValidateHost("[::1]"); err != nil {
		t.Fatalf("ValidateHost(ip literal) = %v, want nil", err)
	}
}

func TestValidateHostPerLabel(t *testing.T) {
	if err := ValidateHost("example.com"); err != nil {
		t.Fatalf("ValidateHost(example.com) = %v, want nil", err)
	}
	if err := ValidateHost("aא.com"); err == nil {
		t.Fatalf("ValidateHost(bad label) = nil, want error")
	}
}
