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

package grammar

import "strings"

// scanner provides a reader-like interface over the input string: peek,
// advance, and byte-position tracking. It is the direct generalization of
// trident's parserInput.
type scanner struct {
	original string
	reader   *strings.Reader
}

func newScanner(s string) *scanner {
	return &scanner{original: s, reader: strings.NewReader(s)}
}

func (s *scanner) next() (rune, bool) {
	r, _, err := s.reader.ReadRune()
	return r, err == nil
}

func (s *scanner) peek() (rune, bool) {
	r, _, err := s.reader.ReadRune()
	if err != nil {
		return 0, false
	}
	_ = s.reader.UnreadRune()
	return r, true
}

func (s *scanner) startsWith(r rune) bool {
	pr, ok := s.peek()
	return ok && pr == r
}

func (s *scanner) position() int { return len(s.original) - s.reader.Len() }

func (s *scanner) rest() string { return s.original[s.position():] }

func (s *scanner) resetTo(rest string) {
	s.original = rest
	s.reader = strings.NewReader(rest)
}
