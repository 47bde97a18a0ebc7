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
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"

	"github.com/rduident/resid/errkind"
)

// Config is spec.md §4.7's input-construction configuration set.
type Config struct {
	// Exactly one of Input or Octets must be set.
	Input  *string
	Octets []byte

	// Encoding is required when Octets is set: a MIME-style name such as
	// "UTF-8", "UTF-16LE", "UTF-32BE".
	Encoding string

	// DecodeStrategy defaults to "fail-on-invalid"; "replace" substitutes
	// utf8.RuneError for invalid input instead of failing.
	DecodeStrategy string

	// IsCharacterNormalized overrides the inference spec.md §4.7
	// describes (true iff Encoding's canonical name is a member of the
	// UCS set {UTF-8, UTF-16, UTF-16BE, UTF-16LE, UTF-32, UTF-32BE,
	// UTF-32LE}); nil lets New infer it.
	IsCharacterNormalized *bool
}

var ucsEncodings = map[string]bool{
	"UTF-8":    true,
	"UTF-16":   true,
	"UTF-16BE": true,
	"UTF-16LE": true,
	"UTF-32":   true,
	"UTF-32BE": true,
	"UTF-32LE": true,
}

func canonicalEncodingName(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	if !strings.HasPrefix(n, "UTF-") && strings.HasPrefix(n, "UTF") {
		n = "UTF-" + n[3:]
	}
	return n
}

func isUCSEncoding(name string) bool {
	return ucsEncodings[canonicalEncodingName(name)]
}

// decodeOctets resolves Config.Encoding to a golang.org/x/text/encoding
// decoder and converts octets to a string, applying strategy on invalid
// input.
func decodeOctets(octets []byte, enc string, strategy string) (string, error) {
	canon := canonicalEncodingName(enc)

	var dec *encoding.Decoder
	switch canon {
	case "UTF-8":
		return decodeUTF8(octets, strategy)
	case "UTF-16", "UTF-16LE":
		dec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case "UTF-16BE":
		dec = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	case "UTF-32", "UTF-32LE":
		dec = utf32.UTF32(utf32.LittleEndian, utf32.UseBOM).NewDecoder()
	case "UTF-32BE":
		dec = utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM).NewDecoder()
	default:
		return "", errkind.New(errkind.DecodeFailed, "unsupported encoding").WithDetails(enc)
	}

	out, err := dec.Bytes(octets)
	if err != nil {
		if strategy == "replace" {
			return string(out), nil
		}
		return "", errkind.Wrap(errkind.DecodeFailed, "byte decode failed", err).WithDetails(enc)
	}
	return string(out), nil
}

func decodeUTF8(octets []byte, strategy string) (string, error) {
	if utf8.Valid(octets) {
		return string(octets), nil
	}
	if strategy == "replace" {
		return strings.ToValidUTF8(string(octets), string(utf8.RuneError)), nil
	}
	return "", errkind.New(errkind.DecodeFailed, "invalid UTF-8 octets")
}
