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

// Package pctcodec implements percent-encoding and unicode-safe
// percent-decoding, as used by the ladder engine's percent_encoding_normalizer
// stage. It is the generalization of trident's
// encoding.go: where trident decoded one %HH byte at a time, Unescape here
// decodes a maximal run of %HH triplets into a byte string first, so that a
// multi-byte UTF-8 code point split across several triplets is judged as one
// code point rather than as independent bytes.
package pctcodec

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/golang/glog"
)

// Encode replaces every rune in s matched by shouldEncode with its UTF-8
// encoding expressed as uppercase %HH triplets. Runes for which shouldEncode
// returns false are copied through unchanged.
func Encode(s string, shouldEncode func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !shouldEncode(r) {
			b.WriteRune(r)
			continue
		}
		buf := make([]byte, utf8.UTFMax)
		n := utf8.EncodeRune(buf, r)
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "%%%02X", buf[i])
		}
	}
	return b.String()
}

// Unescape finds each maximal run of %HH triplets in value, decodes it to a
// byte string, and validates it as UTF-8. On success, each decoded code
// point is re-emitted: literally if it matches unreserved, or in its
// original percent-encoded form otherwise. Runs that fail to decode, that
// are not valid UTF-8, or whose minimal percent-encoding length does not
// match the run actually present (a non-minimal / overlong sequence) are
// left untouched: the original bytes are copied through and the event is
// logged, per the tolerant-failure policy of the normalizer layer.
func Unescape(value string, unreserved func(rune) bool) string {
	var out strings.Builder
	out.Grow(len(value))

	i := 0
	for i < len(value) {
		if value[i] != '%' {
			out.WriteByte(value[i])
			i++
			continue
		}

		start := i
		var decoded []byte
		j := i
		for j < len(value) && value[j] == '%' {
			if j+2 >= len(value) || !isHex(value[j+1]) || !isHex(value[j+2]) {
				break
			}
			b, err := hex.DecodeString(value[j+1 : j+3])
			if err != nil {
				break
			}
			decoded = append(decoded, b[0])
			j += 3
		}

		if j == i {
			// Not a valid percent triplet at all; copy the '%' through.
			out.WriteByte(value[i])
			i++
			continue
		}

		run := value[start:j]
		reencoded, ok := unescapeRun(decoded, unreserved)
		if !ok {
			glog.Warningf("pctcodec: non-minimal or invalid percent-encoded run %q, preserving original bytes", run)
			out.WriteString(run)
		} else {
			out.WriteString(reencoded)
		}
		i = j
	}

	return out.String()
}

// unescapeRun decodes a contiguous run of raw percent-decoded bytes as UTF-8
// and re-emits each code point per the unreserved predicate. It returns
// ok=false if the bytes are not valid UTF-8, or if re-encoding a decoded
// code point does not reproduce the same byte length consumed from the
// original run (the overlong/non-minimal case called out in spec.md §9).
func unescapeRun(decoded []byte, unreserved func(rune) bool) (string, bool) {
	if !utf8.Valid(decoded) {
		return "", false
	}

	var out strings.Builder
	pos := 0
	for pos < len(decoded) {
		r, size := utf8.DecodeRune(decoded[pos:])
		if r == utf8.RuneError && size <= 1 {
			return "", false
		}

		reencoded := make([]byte, utf8.UTFMax)
		n := utf8.EncodeRune(reencoded, r)
		if n != size {
			// Overlong / non-minimal encoding: reject.
			return "", false
		}

		if unreserved(r) {
			out.WriteRune(r)
		} else {
			for k := 0; k < size; k++ {
				fmt.Fprintf(&out, "%%%02X", decoded[pos+k])
			}
		}
		pos += size
	}
	return out.String(), true
}

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
