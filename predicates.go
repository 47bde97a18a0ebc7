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

import "regexp"

var schemeLikePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*$`)

// SchemeLike reports whether s has the shape of a URI scheme name, per
// spec.md §6's predicate of the same name. It does not parse or validate
// s as an identifier.
func SchemeLike(s string) bool {
	return schemeLikePattern.MatchString(s)
}

// AbsoluteReference reports whether id is non-nil and has a scheme defined
// at the RAW stage, per spec.md §6.
func AbsoluteReference(id *Identifier) bool {
	return id != nil && id.IsAbsolute()
}

// StringifiedAbsoluteReference reports whether s, parsed by constructor,
// yields an absolute reference. Errors from constructor count as false,
// matching spec.md §6's predicate, which is defined only over inputs that
// parse.
func StringifiedAbsoluteReference(s string, constructor func(string) (*Identifier, error)) bool {
	id, err := constructor(s)
	if err != nil {
		return false
	}
	return AbsoluteReference(id)
}
