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

package param

// DefaultGenericMapping is the grammar-symbol -> record-field table every
// generic-kind overlay (resid/scheme) starts from. It maps every field
// ladder.GenericRecord declares, as resid/grammar's generic.go production
// set requires by construction. <opaque> is included only because
// GenericRecord embeds CommonRecord (for the shared Output/Scheme/Fragment
// fields); resid/grammar's generic parser never reduces <opaque>, so the
// field stays zero-valued for every generic-kind parse.
func DefaultGenericMapping() map[string]string {
	return map[string]string{
		"<scheme>":        "scheme",
		"<opaque>":        "opaque",
		"<hier_part>":     "hier_part",
		"<query>":         "query",
		"<segment>":       "segments",
		"<authority>":     "authority",
		"<path>":          "path",
		"<relative_ref>":  "relative_ref",
		"<relative_part>": "relative_part",
		"<userinfo>":      "userinfo",
		"<host>":          "host",
		"<port>":          "port",
		"<ip_literal>":    "ip_literal",
		"<ipv4_address>":  "ipv4_address",
		"<reg_name>":      "reg_name",
		"<ipv6_address>":  "ipv6_address",
		"<ipv6_addrz>":    "ipv6_addrz",
		"<ipvfuture>":     "ipvfuture",
		"<zoneid>":        "zoneid",
		"<fragment>":      "fragment",
	}
}

// DefaultCommonMapping is the grammar-symbol -> record-field table for the
// common identifier kind, covering every field ladder.CommonRecord declares
// beyond Output.
func DefaultCommonMapping() map[string]string {
	return map[string]string{
		"<scheme>":   "scheme",
		"<opaque>":   "opaque",
		"<fragment>": "fragment",
	}
}
