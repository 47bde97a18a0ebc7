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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rduident/resid/errkind"
)

// TestParseRawByteIdentical is spec.md §8 Testable Property 2: the RAW
// output is byte-identical to the (here, unmodified) input.
func TestParseRawByteIdentical(t *testing.T) {
	inputs := []string{
		"http://example.com/a/b?q=1#frag",
		"//example.com/net-path",
		"relative/ref",
		"ldap://[2001:db8::7]/c=GB?objectClass?one",
	}
	for _, in := range inputs {
		id, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", in, err)
		}
		if got := id.Raw(); got != in {
			t.Errorf("Parse(%q).Raw() = %q, want %q", in, got, in)
		}
	}
}

func TestParseAccessors(t *testing.T) {
	id, err := Parse("http://user:pw@example.com:8080/a/b?q=1#frag")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if scheme, ok := id.Scheme(); !ok || scheme != "http" {
		t.Errorf("Scheme() = (%q, %v), want (http, true)", scheme, ok)
	}
	if host, ok, err := id.Host(); err != nil || !ok || host != "example.com" {
		t.Errorf("Host() = (%q, %v, %v), want (example.com, true, nil)", host, ok, err)
	}
	if port, ok, err := id.Port(); err != nil || !ok || port != "8080" {
		t.Errorf("Port() = (%q, %v, %v), want (8080, true, nil)", port, ok, err)
	}
	if user, ok, err := id.Userinfo(); err != nil || !ok || user != "user:pw" {
		t.Errorf("Userinfo() = (%q, %v, %v), want (user:pw, true, nil)", user, ok, err)
	}
	segs, err := id.Segments()
	if err != nil {
		t.Fatalf("Segments() error: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, segs); diff != "" {
		t.Errorf("Segments() diff:\n%s", diff)
	}
	if frag, ok := id.Fragment(); !ok || frag != "frag" {
		t.Errorf("Fragment() = (%q, %v), want (frag, true)", frag, ok)
	}
}

func TestParseCommonKind(t *testing.T) {
	id, err := ParseCommon("mailto:user@example.com")
	if err != nil {
		t.Fatalf("ParseCommon error: %v", err)
	}
	if scheme, ok := id.Scheme(); !ok || scheme != "mailto" {
		t.Errorf("Scheme() = (%q, %v), want (mailto, true)", scheme, ok)
	}
	opaque, err := id.Opaque()
	if err != nil {
		t.Fatalf("Opaque() error: %v", err)
	}
	if opaque != "user@example.com" {
		t.Errorf("Opaque() = %q, want user@example.com", opaque)
	}
	if _, _, err := id.Host(); err == nil {
		t.Fatal("Host() on common-kind identifier = nil error, want WrongKind")
	}
}

func TestNormalizedUppercasesPercentEncoding(t *testing.T) {
	id, err := Parse("http://example.com/%7euser")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	// ~ is unreserved, so %7E folds to a literal tilde at the normalized
	// stage rather than staying percent-encoded.
	if got := id.Normalized(); got != "http://example.com/~user" {
		t.Errorf("Normalized() = %q, want http://example.com/~user", got)
	}
}

func TestEqualComparesNormalizedForm(t *testing.T) {
	a, err := Parse("HTTP://Example.com/%7euser")
	if err != nil {
		t.Fatalf("Parse(a) error: %v", err)
	}
	b, err := Parse("http://example.com/~user")
	if err != nil {
		t.Fatalf("Parse(b) error: %v", err)
	}
	if !a.Equal(b) {
		t.Errorf("Equal() = false for %q vs %q, want true", a.Raw(), b.Raw())
	}
}

func TestAbsResolvesRelativeReference(t *testing.T) {
	base, err := Parse("http://a/b/c/d;p?q")
	if err != nil {
		t.Fatalf("Parse(base) error: %v", err)
	}
	ref, err := Parse("g")
	if err != nil {
		t.Fatalf("Parse(ref) error: %v", err)
	}
	resolved, err := ref.Abs(base)
	if err != nil {
		t.Fatalf("Abs() error: %v", err)
	}
	if got := resolved.Raw(); got != "http://a/b/c/g" {
		t.Errorf("Abs() = %q, want http://a/b/c/g", got)
	}
}

func TestAbsSelfReturnsAlreadyAbsolute(t *testing.T) {
	id, err := Parse("http://example.com/")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	resolved, err := id.Abs(nil)
	if err != nil {
		t.Fatalf("Abs() error: %v", err)
	}
	if resolved != id {
		t.Errorf("Abs() on already-absolute reference did not self-return")
	}
}

func TestResolveToWritesIntoCallerBuilder(t *testing.T) {
	base, err := Parse("http://a/b/c/d;p?q")
	if err != nil {
		t.Fatalf("Parse(base) error: %v", err)
	}
	ref, err := Parse("g")
	if err != nil {
		t.Fatalf("Parse(ref) error: %v", err)
	}

	var b strings.Builder
	b.WriteString("stale-")
	resolved, err := ref.ResolveTo(base, &b)
	if err != nil {
		t.Fatalf("ResolveTo() error: %v", err)
	}
	if got := resolved.Raw(); got != "http://a/b/c/g" {
		t.Errorf("ResolveTo() = %q, want http://a/b/c/g", got)
	}
	if got, want := b.String(), "stale-http://a/b/c/g"; got != want {
		t.Errorf("ResolveTo() builder contents = %q, want %q", got, want)
	}
}

func TestResolveToReusesBuilderAcrossCalls(t *testing.T) {
	base, err := Parse("http://a/b/c/d;p?q")
	if err != nil {
		t.Fatalf("Parse(base) error: %v", err)
	}
	refs := []string{"g", "./g", "../g", "g?y#s"}
	want := []string{"http://a/b/c/g", "http://a/b/c/g", "http://a/b/g", "http://a/b/c/g?y#s"}

	var b strings.Builder
	for i, r := range refs {
		ref, err := Parse(r)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", r, err)
		}
		b.Reset()
		resolved, err := ref.ResolveTo(base, &b)
		if err != nil {
			t.Fatalf("ResolveTo(%q) error: %v", r, err)
		}
		if got := resolved.Raw(); got != want[i] {
			t.Errorf("ResolveTo(%q) = %q, want %q", r, got, want[i])
		}
	}
}

func TestRelativizeRejectsDotSegments(t *testing.T) {
	base, err := Parse("http://example.com/a/")
	if err != nil {
		t.Fatalf("Parse(base) error: %v", err)
	}
	target, err := Parse("http://example.com/a/../b")
	if err != nil {
		t.Fatalf("Parse(target) error: %v", err)
	}
	_, err = Relativize(base, target)
	if err != ErrRelativize {
		t.Errorf("Relativize() error = %v, want ErrRelativize", err)
	}
}

func TestRelativizeThenAbsRoundTrips(t *testing.T) {
	base, err := Parse("http://example.com/a/b")
	if err != nil {
		t.Fatalf("Parse(base) error: %v", err)
	}
	target, err := Parse("http://example.com/a/c")
	if err != nil {
		t.Fatalf("Parse(target) error: %v", err)
	}

	rel, err := Relativize(base, target)
	if err != nil {
		t.Fatalf("Relativize() error: %v", err)
	}

	resolved, err := rel.Abs(base)
	if err != nil {
		t.Fatalf("Abs() error: %v", err)
	}
	if !resolved.Equal(target) {
		t.Errorf("Relativize->Abs round trip = %q, want equal to %q", resolved.Raw(), target.Raw())
	}
}

func TestSchemeLike(t *testing.T) {
	cases := []struct {
		s    string
		want bool
	}{
		{"http", true},
		{"ldap+ssl", true},
		{"a.b-c", true},
		{"1http", false},
		{"", false},
		{"ht tp", false},
	}
	for _, c := range cases {
		if got := SchemeLike(c.s); got != c.want {
			t.Errorf("SchemeLike(%q) = %v, want %v", c.s, got, c.want)
		}
	}
}

func TestAbsoluteReferencePredicates(t *testing.T) {
	abs, err := Parse("http://example.com/")
	if err != nil {
		t.Fatalf("Parse(abs) error: %v", err)
	}
	rel, err := Parse("relative/ref")
	if err != nil {
		t.Fatalf("Parse(rel) error: %v", err)
	}
	if !AbsoluteReference(abs) {
		t.Error("AbsoluteReference(abs) = false, want true")
	}
	if AbsoluteReference(rel) {
		t.Error("AbsoluteReference(rel) = true, want false")
	}
	if !StringifiedAbsoluteReference("http://example.com/", Parse) {
		t.Error("StringifiedAbsoluteReference(absolute string) = false, want true")
	}
	if StringifiedAbsoluteReference("relative/ref", Parse) {
		t.Error("StringifiedAbsoluteReference(relative string) = true, want false")
	}
}

func TestNewRejectsBothInputAndOctets(t *testing.T) {
	s := "http://example.com/"
	_, err := New(Config{Input: &s, Octets: []byte("x")}, nil)
	assertInputShape(t, err)
}

func TestNewRejectsNeitherInputNorOctets(t *testing.T) {
	_, err := New(Config{}, nil)
	assertInputShape(t, err)
}

func TestNewDecodesUTF16Octets(t *testing.T) {
	// "g" and ":" and "/" etc. are all single UTF-16 code units; build a
	// little-endian UTF-16 byte sequence for "http://example.com/".
	s := "http://example.com/"
	octets := make([]byte, 0, len(s)*2)
	for _, r := range s {
		octets = append(octets, byte(r), 0)
	}
	id, err := New(Config{Octets: octets, Encoding: "UTF-16LE"}, nil)
	if err != nil {
		t.Fatalf("New(UTF-16LE octets) error: %v", err)
	}
	if got := id.Raw(); got != s {
		t.Errorf("New(UTF-16LE octets).Raw() = %q, want %q", got, s)
	}
	if !id.IsCharacterNormalized() {
		t.Error("IsCharacterNormalized() = false for a UCS encoding, want true")
	}
}

func assertInputShape(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("New() = nil error, want InputShape")
	}
	kindErr, ok := err.(*errkind.Error)
	if !ok {
		t.Fatalf("New() error type = %T, want *errkind.Error", err)
	}
	if kindErr.Kind != errkind.InputShape {
		t.Errorf("New() error kind = %v, want InputShape", kindErr.Kind)
	}
}
