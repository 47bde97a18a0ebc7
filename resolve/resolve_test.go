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

package resolve

import "testing"

// rfcBase is RFC 3986 Section 5.4's example base URI "http://a/b/c/d;p?q",
// deconstructed, without its query.
func rfcBase() Components {
	return Components{
		Scheme:       "http",
		HasScheme:    true,
		Authority:    "a",
		HasAuthority: true,
		Path:         "/b/c/d;p",
	}
}

func TestRemoveDotSegments(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"/a/b/c/./../../g", "/a/g"},
		{"mid/content=5/../6", "mid/6"},
		{"/./g", "/g"},
		{"/../g", "/g"},
		{".", ""},
		{"..", ""},
		{"/.", "/"},
		{"/..", "/"},
	}
	for _, c := range cases {
		if got := RemoveDotSegments(c.in); got != c.want {
			t.Errorf("RemoveDotSegments(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// TestTransformRFC3986Examples exercises cases modeled on the "normal
// examples" table of RFC 3986 Section 5.4.1, against the query-less base.
func TestTransformRFC3986Examples(t *testing.T) {
	cases := []struct {
		ref  Components
		want string
	}{
		{Components{Path: "g", HasScheme: false}, "http://a/b/c/g"},
		{Components{Path: "./g"}, "http://a/b/c/g"},
		{Components{Path: "g/"}, "http://a/b/c/g/"},
		{Components{Path: "/g"}, "http://a/g"},
		{Components{Path: "", HasQuery: false}, "http://a/b/c/d;p"},
		{Components{Path: "", HasQuery: true, Query: "y"}, "http://a/b/c/d;p?y"},
		{Components{Path: "g", HasQuery: true, Query: "y"}, "http://a/b/c/g?y"},
		{Components{Path: "", Fragment: "s", HasFragment: true}, "http://a/b/c/d;p#s"},
		{Components{Path: "g", Fragment: "s", HasFragment: true}, "http://a/b/c/g#s"},
		{Components{Path: "", HasAuthority: true, Authority: ""}, "http://"},
		{Components{Path: "../../../g"}, "http://a/g"},
		{Components{Path: "../../../../g"}, "http://a/g"},
	}

	for _, c := range cases {
		got, err := Transform(c.ref, rfcBase())
		if err != nil {
			t.Fatalf("Transform(%+v) error: %v", c.ref, err)
		}
		if recomposed := Recompose(got); recomposed != c.want {
			t.Errorf("Transform(%+v) recomposed = %q, want %q", c.ref, recomposed, c.want)
		}
	}
}

func TestTransformRequiresAbsoluteBase(t *testing.T) {
	_, err := Transform(Components{Path: "g"}, Components{})
	if err == nil {
		t.Fatal("Transform with schemeless base = nil error, want ErrNotAbsolute")
	}
}

func TestTransformSchemeOverride(t *testing.T) {
	ref := Components{Scheme: "https", HasScheme: true, Path: "/x"}
	got, err := Transform(ref, rfcBase())
	if err != nil {
		t.Fatalf("Transform error: %v", err)
	}
	if got.Scheme != "https" {
		t.Errorf("Transform preserved base scheme %q, want reference scheme https", got.Scheme)
	}
}
