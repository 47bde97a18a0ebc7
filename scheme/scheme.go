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

// Package scheme holds the Overlays of spec.md §4.3/§9: scheme-specific
// customizations (default port, secure flag, reg_name-is-domain-name) that
// compose onto the generic core without duplicating the grammar runtime,
// grounded on trident autority.go's scheme/default-port table, generalized
// from a single switch statement into one param.Kind per scheme.
package scheme

import (
	"github.com/rduident/resid/ladder"
	"github.com/rduident/resid/normalize"
	"github.com/rduident/resid/param"
)

// Overlay is a scheme's identity: the knobs spec.md §4.3's Overlays row
// names, plus any table extension a particular scheme needs layered over
// the generic tables by composition.
type Overlay struct {
	Name                string
	Secure              bool
	DefaultPort         string
	RegNameIsDomainName bool

	Normalizers [6]ladder.NormalizerLookup
	Converters  [2]ladder.ConverterLookup
}

// genericBase returns the six generic-kind normalizer tables and two
// generic-kind converter tables, in ladder.Engine's stage order (indices
// 3..8, then 1..2).
func genericBase() ([6]ladder.NormalizerLookup, [2]ladder.ConverterLookup) {
	var normalizers [6]ladder.NormalizerLookup
	normalizers[0] = normalize.GenericCaseNormalizer()
	normalizers[1] = normalize.GenericCharacterNormalizer()
	normalizers[2] = normalize.GenericPercentEncodingNormalizer()
	normalizers[3] = normalize.GenericPathSegmentNormalizer()
	normalizers[4] = normalize.GenericSchemeBasedNormalizer()
	normalizers[5] = normalize.GenericProtocolBasedNormalizer()

	var converters [2]ladder.ConverterLookup
	converters[0] = normalize.GenericURIConverter()
	converters[1] = normalize.GenericIRIConverter()

	return normalizers, converters
}

// Bind composes o's table extensions over the generic base and binds the
// resulting Descriptor through param.Bind.
func (o Overlay) Bind() (*param.Kind, error) {
	base, baseConv := genericBase()

	var normalizers [6]ladder.NormalizerLookup
	for i := range normalizers {
		normalizers[i] = normalize.ComposeNormalizers(base[i], o.Normalizers[i])
	}
	var converters [2]ladder.ConverterLookup
	for i := range converters {
		converters[i] = normalize.ComposeConverters(baseConv[i], o.Converters[i])
	}

	return param.Bind(param.Descriptor{
		Whoami:              o.Name,
		Kind:                ladder.Generic,
		Mapping:             param.DefaultGenericMapping(),
		Normalizers:         normalizers,
		Converters:          converters,
		RegNameIsDomainName: o.RegNameIsDomainName,
		DefaultPort:         o.DefaultPort,
	})
}

// Generic is the bare generic identifier kind of spec.md §4.3, with no
// scheme-specific overlay: no default port, reg_name not treated as a
// domain name.
func Generic() (*param.Kind, error) {
	return Overlay{Name: "generic"}.Bind()
}

// HTTP, HTTPS, WS, WSS, and FTP mirror trident autority.go's scheme table:
// each sets a default port and treats reg_name as a DNS domain name so the
// IDNA uri_converter/iri_converter actually run.
func HTTP() (*param.Kind, error) {
	return Overlay{Name: "http", DefaultPort: "80", RegNameIsDomainName: true}.Bind()
}

func HTTPS() (*param.Kind, error) {
	return Overlay{Name: "https", Secure: true, DefaultPort: "443", RegNameIsDomainName: true}.Bind()
}

func WS() (*param.Kind, error) {
	return Overlay{Name: "ws", DefaultPort: "80", RegNameIsDomainName: true}.Bind()
}

func WSS() (*param.Kind, error) {
	return Overlay{Name: "wss", Secure: true, DefaultPort: "443", RegNameIsDomainName: true}.Bind()
}

func FTP() (*param.Kind, error) {
	return Overlay{Name: "ftp", DefaultPort: "21", RegNameIsDomainName: true}.Bind()
}

// LDAP mirrors spec.md §4.3's own worked overlay example: default_port =
// 389, secure = true.
func LDAP() (*param.Kind, error) {
	return Overlay{Name: "ldap", Secure: true, DefaultPort: "389", RegNameIsDomainName: true}.Bind()
}

// ByName resolves a lowercase scheme name to its overlay constructor, or
// ok=false for a scheme with no dedicated overlay (callers should fall
// back to Generic).
func ByName(name string) (func() (*param.Kind, error), bool) {
	ctor, ok := registry[name]
	return ctor, ok
}

var registry = map[string]func() (*param.Kind, error){
	"http":  HTTP,
	"https": HTTPS,
	"ws":    WS,
	"wss":   WSS,
	"ftp":   FTP,
	"ldap":  LDAP,
}
