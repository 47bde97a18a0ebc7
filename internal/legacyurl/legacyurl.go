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

// Package legacyurl stands in for the legacy URI library whose globals
// resid/setup reads from when uri_compat mode is on, per spec.md §4.7's
// "dual-sourced: when uri_compat is on, read from legacy URI library
// globals; else from own globals". It is an internal package: nothing
// outside resid/setup should read or write these globals directly.
package legacyurl

import "sync"

var (
	mu                      sync.RWMutex
	absRemoteLeadingDots    = 0
	removeDotSegmentsStrict = false
)

// AbsRemoteLeadingDots returns the legacy library's current value of
// abs_remote_leading_dots.
func AbsRemoteLeadingDots() int {
	mu.RLock()
	defer mu.RUnlock()
	return absRemoteLeadingDots
}

// SetAbsRemoteLeadingDots lets a host process configure the legacy value,
// as it would by loading the legacy library's own configuration.
func SetAbsRemoteLeadingDots(v int) {
	mu.Lock()
	defer mu.Unlock()
	absRemoteLeadingDots = v
}

// RemoveDotSegmentsStrict returns the legacy library's current value of
// remove_dot_segments_strict.
func RemoveDotSegmentsStrict() bool {
	mu.RLock()
	defer mu.RUnlock()
	return removeDotSegmentsStrict
}

// SetRemoveDotSegmentsStrict is the legacy-value analogue of
// SetAbsRemoteLeadingDots.
func SetRemoveDotSegmentsStrict(v bool) {
	mu.Lock()
	defer mu.Unlock()
	removeDotSegmentsStrict = v
}
