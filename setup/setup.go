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

// Package setup holds the process-wide Setup singleton of spec.md §4.7's
// Configuration table: tracing flags, URI-compat mode, and the default
// directory/method names the original host process exposed for plugin
// discovery. Treated as an immutable configuration snapshot captured once
// at first use, per spec.md §9's "avoid late mutation to keep parses
// reproducible."
package setup

import (
	"strings"
	"sync"

	"github.com/rduident/resid/internal/legacyurl"
)

// Snapshot is the bound, read-only configuration spec.md §4.7 describes.
type Snapshot struct {
	MarpaTraceTerminals int
	MarpaTraceValues    int
	MarpaTrace          int

	URICompat bool

	PluginsDirname      string
	ImplDirname         string
	CanSchemeMethodName string

	// AbsRemoteLeadingDots and RemoveDotSegmentsStrict are dual-sourced:
	// when URICompat is set, Load reads them from
	// resid/internal/legacyurl's globals instead of the Option defaults
	// below, per spec.md §4.7.
	AbsRemoteLeadingDots    int
	RemoveDotSegmentsStrict bool
}

func defaultSnapshot() *Snapshot {
	return &Snapshot{
		PluginsDirname:      "Plugins",
		ImplDirname:         "Impl",
		CanSchemeMethodName: "can_scheme",
	}
}

// Option mutates a Snapshot under construction, applied by Load before the
// dual-sourced fields are resolved.
type Option func(*Snapshot)

func WithURICompat(v bool) Option              { return func(s *Snapshot) { s.URICompat = v } }
func WithMarpaTrace(terminals, values, trace int) Option {
	return func(s *Snapshot) {
		s.MarpaTraceTerminals, s.MarpaTraceValues, s.MarpaTrace = terminals, values, trace
	}
}
func WithPluginsDirname(name string) Option      { return func(s *Snapshot) { s.PluginsDirname = name } }
func WithImplDirname(name string) Option         { return func(s *Snapshot) { s.ImplDirname = name } }
func WithCanSchemeMethodName(name string) Option { return func(s *Snapshot) { s.CanSchemeMethodName = name } }
func WithAbsRemoteLeadingDots(v int) Option {
	return func(s *Snapshot) { s.AbsRemoteLeadingDots = v }
}
func WithRemoveDotSegmentsStrict(v bool) Option {
	return func(s *Snapshot) { s.RemoveDotSegmentsStrict = v }
}

var (
	once    sync.Once
	current *Snapshot
)

// Load builds the process-wide Snapshot on first call, applying opts and
// then resolving the dual-sourced fields; subsequent calls (with or
// without opts) return the snapshot captured on the first call, per
// spec.md §9's immutable-after-init treatment.
func Load(opts ...Option) *Snapshot {
	once.Do(func() {
		s := defaultSnapshot()
		for _, opt := range opts {
			opt(s)
		}
		resolveDualSourced(s)
		current = s
	})
	return current
}

// Current returns the process-wide Snapshot, initializing it with defaults
// if Load has not yet been called.
func Current() *Snapshot {
	return Load()
}

func resolveDualSourced(s *Snapshot) {
	if !s.URICompat {
		return
	}
	s.AbsRemoteLeadingDots = legacyurl.AbsRemoteLeadingDots()
	s.RemoveDotSegmentsStrict = legacyurl.RemoveDotSegmentsStrict()
}

// Clean implements spec.md §4.7's URI-compat input pre-cleaning: when s is
// nil or URICompat is off, input passes through unchanged; otherwise a
// "<URL:...>" or "<...>" wrapper is stripped, a surrounding pair of double
// quotes is stripped, and ASCII whitespace is trimmed from both ends.
func Clean(s *Snapshot, input string) string {
	if s == nil || !s.URICompat {
		return input
	}

	out := strings.TrimFunc(input, isASCIISpace)
	out = stripWrapper(out)
	out = strings.TrimFunc(out, isASCIISpace)
	if len(out) >= 2 && out[0] == '"' && out[len(out)-1] == '"' {
		out = out[1 : len(out)-1]
	}
	return strings.TrimFunc(out, isASCIISpace)
}

func stripWrapper(s string) string {
	if strings.HasPrefix(s, "<URL:") && strings.HasSuffix(s, ">") {
		return s[len("<URL:") : len(s)-1]
	}
	if strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		return s[1 : len(s)-1]
	}
	return s
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
