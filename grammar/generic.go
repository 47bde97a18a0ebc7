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

// Package grammar is the Grammar Runtime of spec.md §4.1: a hand-written
// recursive-descent driver over the generic RFC 3986/3987 syntax, one
// method per grammar production, each ending in a call to the Ladder
// Engine's Builder.Reduce. spec.md §9 explicitly permits this in place of
// an external Earley/SLIF engine "provided they preserve the rule-LHS ->
// field-mapping contract" — the contract trident's iri_parser.go already
// follows for a single flat output string, generalized here to a
// nine-stage ladder.Row per reduction.
package grammar

import (
	"net"
	"strings"
	"unicode/utf8"

	"github.com/rduident/resid/bidiguard"
	"github.com/rduident/resid/errkind"
	"github.com/rduident/resid/ladder"
)

// Parser drives a single parse of the generic identifier kind.
type Parser struct {
	scan      *scanner
	builder   *ladder.Builder
	unchecked bool
}

// ParseGeneric parses input as a generic URI/IRI reference (absolute or
// relative; no base resolution — see resid's Identifier.Abs for that), assembling
// the nine-stage ladder via builder.
func ParseGeneric(input string, builder *ladder.Builder, unchecked bool) (ladder.Row, error) {
	p := &Parser{scan: newScanner(input), builder: builder, unchecked: unchecked}
	final, err := p.parseSchemeStart()
	if err != nil {
		return ladder.Row{}, err
	}
	builder.Finish(final)
	return final, nil
}

func (p *Parser) parseSchemeStart() (ladder.Row, error) {
	if strings.HasPrefix(p.scan.rest(), "//") {
		return p.parseNetworkPathReference()
	}

	r, ok := p.scan.peek()
	if !ok {
		return p.parseRelativePath()
	}
	if r == ':' {
		return ladder.Row{}, errkind.New(errkind.GrammarRejected, "no scheme found in an absolute IRI")
	}
	if isASCIILetter(r) {
		if row, err, handled := p.tryParseScheme(); handled {
			return row, err
		}
	}
	return p.parseRelativePath()
}

// tryParseScheme attempts to consume "<scheme>:" from the current position.
// handled is false when the input does not actually form a scheme (e.g. no
// colon appears before an invalid character), in which case the scanner is
// left untouched and the caller should fall back to relative-reference
// parsing.
func (p *Parser) tryParseScheme() (ladder.Row, error, bool) {
	startRest := p.scan.rest()
	var raw strings.Builder
	for {
		r, ok := p.scan.next()
		if !ok {
			p.scan.resetTo(startRest)
			return ladder.Row{}, nil, false
		}
		switch {
		case isASCIILetter(r) || isASCIIDigit(r) || r == '+' || r == '-' || r == '.':
			raw.WriteRune(r)
		case r == ':':
			schemeRow, err := p.builder.Reduce("<scheme>", ladder.Leaf(raw.String()))
			if err != nil {
				return ladder.Row{}, err, true
			}
			final, err := p.parseAfterScheme(schemeRow)
			return final, err, true
		default:
			p.scan.resetTo(startRest)
			return ladder.Row{}, nil, false
		}
	}
}

func (p *Parser) parseAfterScheme(schemeRow ladder.Row) (ladder.Row, error) {
	colon := ladder.Leaf(":")
	var hierPartRow ladder.Row
	var err error

	if p.scan.startsWith('/') {
		hierPartRow, err = p.parseHierPart()
	} else {
		// scheme:rootless-path (opaque-looking, still generic per RFC
		// 3986's hier-part = path-rootless alternative).
		pathRow, perr := p.parsePath(false)
		if perr != nil {
			return ladder.Row{}, perr
		}
		hierPartRow, err = p.builder.Reduce("<hier_part>", pathRow)
	}
	if err != nil {
		return ladder.Row{}, err
	}

	queryRow, hasQuery, err := p.parseOptionalQuery()
	if err != nil {
		return ladder.Row{}, err
	}
	fragmentRow, hasFragment, err := p.parseOptionalFragment()
	if err != nil {
		return ladder.Row{}, err
	}

	children := []ladder.Row{schemeRow, colon, hierPartRow}
	if hasQuery {
		children = append(children, ladder.Leaf("?"), queryRow)
	}
	if hasFragment {
		children = append(children, ladder.Leaf("#"), fragmentRow)
	}
	return p.builder.Reduce("<iri>", children...)
}

// parseHierPart handles "//" authority path-abempty, consuming the leading
// "//" itself.
func (p *Parser) parseHierPart() (ladder.Row, error) {
	if !strings.HasPrefix(p.scan.rest(), "//") {
		pathRow, err := p.parsePath(false)
		if err != nil {
			return ladder.Row{}, err
		}
		return p.builder.Reduce("<hier_part>", pathRow)
	}
	p.scan.next()
	p.scan.next()

	authorityRow, err := p.parseAuthority()
	if err != nil {
		return ladder.Row{}, err
	}
	pathRow, err := p.parsePath(true)
	if err != nil {
		return ladder.Row{}, err
	}
	return p.builder.Reduce("<hier_part>", ladder.Leaf("//"), authorityRow, pathRow)
}

// parseNetworkPathReference handles a reference of the form "//authority/path"
// with no scheme.
func (p *Parser) parseNetworkPathReference() (ladder.Row, error) {
	p.scan.next()
	p.scan.next()

	authorityRow, err := p.parseAuthority()
	if err != nil {
		return ladder.Row{}, err
	}
	pathRow, err := p.parsePath(true)
	if err != nil {
		return ladder.Row{}, err
	}
	relPartRow, err := p.builder.Reduce("<relative_part>", ladder.Leaf("//"), authorityRow, pathRow)
	if err != nil {
		return ladder.Row{}, err
	}
	return p.finishRelativeRef(relPartRow)
}

// parseRelativePath handles a reference with no scheme and no leading "//".
func (p *Parser) parseRelativePath() (ladder.Row, error) {
	if p.scan.startsWith('/') {
		pathRow, err := p.parsePath(false)
		if err != nil {
			return ladder.Row{}, err
		}
		relPartRow, err := p.builder.Reduce("<relative_part>", pathRow)
		if err != nil {
			return ladder.Row{}, err
		}
		return p.finishRelativeRef(relPartRow)
	}

	pathRow, err := p.parsePathNoScheme()
	if err != nil {
		return ladder.Row{}, err
	}
	relPartRow, err := p.builder.Reduce("<relative_part>", pathRow)
	if err != nil {
		return ladder.Row{}, err
	}
	return p.finishRelativeRef(relPartRow)
}

func (p *Parser) finishRelativeRef(relPartRow ladder.Row) (ladder.Row, error) {
	queryRow, hasQuery, err := p.parseOptionalQuery()
	if err != nil {
		return ladder.Row{}, err
	}
	fragmentRow, hasFragment, err := p.parseOptionalFragment()
	if err != nil {
		return ladder.Row{}, err
	}

	children := []ladder.Row{relPartRow}
	if hasQuery {
		children = append(children, ladder.Leaf("?"), queryRow)
	}
	relRefRow, err := p.builder.Reduce("<relative_ref>", children...)
	if err != nil {
		return ladder.Row{}, err
	}
	if !hasFragment {
		return relRefRow, nil
	}
	return p.builder.Reduce("<iri>", relRefRow, ladder.Leaf("#"), fragmentRow)
}

func (p *Parser) parseOptionalQuery() (ladder.Row, bool, error) {
	if !p.scan.startsWith('?') {
		return ladder.Row{}, false, nil
	}
	p.scan.next()
	raw, children, err := p.scanComponentRaw(isQueryChar)
	if err != nil {
		return ladder.Row{}, false, err
	}
	if !p.unchecked {
		if err := bidiguard.ValidateComponent(raw); err != nil {
			return ladder.Row{}, false, errkind.Wrap(errkind.GrammarRejected, "invalid bidi structure in query", err)
		}
	}
	row, err := p.builder.Reduce("<query>", children...)
	return row, true, err
}

func (p *Parser) parseOptionalFragment() (ladder.Row, bool, error) {
	if !p.scan.startsWith('#') {
		return ladder.Row{}, false, nil
	}
	p.scan.next()
	raw, children, err := p.scanComponentRaw(isFragmentChar)
	if err != nil {
		return ladder.Row{}, false, err
	}
	if !p.unchecked {
		if err := bidiguard.ValidateComponent(raw); err != nil {
			return ladder.Row{}, false, errkind.Wrap(errkind.GrammarRejected, "invalid bidi structure in fragment", err)
		}
	}
	row, err := p.builder.Reduce("<fragment>", children...)
	return row, true, err
}

// parsePathNoScheme parses a relative-path reference's path, rejecting a
// colon in the first segment per RFC 3986 section 4.2.
func (p *Parser) parsePathNoScheme() (ladder.Row, error) {
	rest := p.scan.rest()
	firstSlash := strings.IndexAny(rest, "/?#")
	firstSeg := rest
	if firstSlash != -1 {
		firstSeg = rest[:firstSlash]
	}
	if strings.ContainsRune(firstSeg, ':') {
		return ladder.Row{}, errkind.New(errkind.GrammarRejected, "relative-path reference's first segment must not contain ':'")
	}
	return p.parsePath(false)
}

// parsePath consumes a path up to the next '?', '#', or end of input,
// reducing each '/'-delimited segment individually (feeding <segment>, and
// so ladder.GenericRecord.Segments) before reducing the assembled <path>.
func (p *Parser) parsePath(hasAuthority bool) (ladder.Row, error) {
	rest := p.scan.rest()
	end := len(rest)
	for i, r := range rest {
		if r == '?' || r == '#' {
			end = i
			break
		}
	}
	raw := rest[:end]
	p.scan.resetTo(rest[end:])

	if !hasAuthority && strings.HasPrefix(raw, "//") {
		return ladder.Row{}, errkind.New(errkind.GrammarRejected,
			"a path is not allowed to start with // when there is no authority")
	}

	var children []ladder.Row
	segments := strings.Split(raw, "/")
	for idx, seg := range segments {
		if idx == 0 && seg == "" {
			// The empty piece before a leading '/' (or an empty path) is
			// not a segment.
			continue
		}
		if err := p.validateChars(seg, isPathChar); err != nil {
			return ladder.Row{}, err
		}
		if !p.unchecked {
			if err := bidiguard.ValidateComponent(seg); err != nil {
				return ladder.Row{}, errkind.Wrap(errkind.GrammarRejected, "invalid bidi structure in path segment", err)
			}
		}
		_, segChildren, err := p.splitPercentRuns(seg)
		if err != nil {
			return ladder.Row{}, err
		}
		segRow, err := p.builder.Reduce("<segment>", segChildren...)
		if err != nil {
			return ladder.Row{}, err
		}
		if idx > 0 {
			children = append(children, ladder.Leaf("/"))
		}
		children = append(children, segRow)
	}

	return p.builder.Reduce("<path>", children...)
}

// parseAuthority consumes the authority component up to the next '/', '?',
// '#', or end of input.
func (p *Parser) parseAuthority() (ladder.Row, error) {
	rest := p.scan.rest()
	end := len(rest)
	for i, r := range rest {
		if r == '/' || r == '?' || r == '#' {
			end = i
			break
		}
	}
	raw := rest[:end]
	p.scan.resetTo(rest[end:])

	userinfo, hostport := splitUserinfo(raw)

	var children []ladder.Row
	if userinfo != "" || strings.Contains(raw, "@") {
		uiRow, err := p.parseUserinfo(userinfo)
		if err != nil {
			return ladder.Row{}, err
		}
		children = append(children, uiRow, ladder.Leaf("@"))
	}

	host, port := splitHostPort(hostport)
	hostRow, err := p.parseHost(host)
	if err != nil {
		return ladder.Row{}, err
	}
	children = append(children, hostRow)

	if port != "" {
		portRow, err := p.parsePort(port)
		if err != nil {
			return ladder.Row{}, err
		}
		children = append(children, ladder.Leaf(":"), portRow)
	}

	return p.builder.Reduce("<authority>", children...)
}

func (p *Parser) parseUserinfo(userinfo string) (ladder.Row, error) {
	if err := p.validateChars(userinfo, isUserinfoChar); err != nil {
		return ladder.Row{}, err
	}
	if !p.unchecked {
		if err := bidiguard.ValidateComponent(userinfo); err != nil {
			return ladder.Row{}, errkind.Wrap(errkind.GrammarRejected, "invalid bidi structure in userinfo", err)
		}
	}
	_, children, err := p.splitPercentRuns(userinfo)
	if err != nil {
		return ladder.Row{}, err
	}
	return p.builder.Reduce("<userinfo>", children...)
}

func (p *Parser) parsePort(port string) (ladder.Row, error) {
	for _, r := range port {
		if !isASCIIDigit(r) {
			return ladder.Row{}, errkind.New(errkind.GrammarRejected, "invalid port character").WithChar(r)
		}
	}
	return p.builder.Reduce("<port>", ladder.Leaf(port))
}

// parseHost dispatches to ip_literal, ipv4_address, or reg_name, and always
// reduces the wrapping <host>.
func (p *Parser) parseHost(host string) (ladder.Row, error) {
	if host == "" {
		return p.builder.Reduce("<host>", ladder.Leaf(""))
	}

	if strings.HasPrefix(host, "[") {
		if !strings.HasSuffix(host, "]") {
			return ladder.Row{}, errkind.New(errkind.GrammarRejected, "unterminated IP literal").WithDetails(host)
		}
		literalRow, err := p.parseIPLiteral(host[1 : len(host)-1])
		if err != nil {
			return ladder.Row{}, err
		}
		ipLiteralRow, err := p.builder.Reduce("<ip_literal>", ladder.Leaf("["), literalRow, ladder.Leaf("]"))
		if err != nil {
			return ladder.Row{}, err
		}
		return p.builder.Reduce("<host>", ipLiteralRow)
	}

	if ip := net.ParseIP(host); ip != nil && ip.To4() != nil && isDottedQuad(host) {
		v4Row, err := p.builder.Reduce("<ipv4_address>", ladder.Leaf(host))
		if err != nil {
			return ladder.Row{}, err
		}
		return p.builder.Reduce("<host>", v4Row)
	}

	if err := p.validateChars(host, isRegNameChar); err != nil {
		return ladder.Row{}, err
	}
	if !p.unchecked {
		if err := bidiguard.ValidateHost(host); err != nil {
			return ladder.Row{}, errkind.Wrap(errkind.GrammarRejected, "invalid bidi structure in host", err)
		}
	}
	_, children, err := p.splitPercentRuns(host)
	if err != nil {
		return ladder.Row{}, err
	}
	regRow, err := p.builder.Reduce("<reg_name>", children...)
	if err != nil {
		return ladder.Row{}, err
	}
	return p.builder.Reduce("<host>", regRow)
}

// isDottedQuad guards against net.ParseIP accepting non-canonical forms
// (e.g. a single decimal) as IPv4; a host is only ipv4_address when it is
// four dot-separated decimal octets.
func isDottedQuad(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 4
}

// parseIPLiteral dispatches the contents of "[...]" to ipvfuture or one of
// ipv6_address/ipv6_addrz (with an RFC 6874 zone id).
func (p *Parser) parseIPLiteral(inner string) (ladder.Row, error) {
	if strings.HasPrefix(inner, "v") || strings.HasPrefix(inner, "V") {
		return p.parseIPvFuture(inner)
	}

	if zi := strings.IndexByte(inner, '%'); zi != -1 {
		addr, zone := inner[:zi], inner[zi+1:]
		zone = strings.TrimPrefix(zone, "25")
		if net.ParseIP(addr) == nil {
			return ladder.Row{}, errkind.New(errkind.GrammarRejected, "invalid IPv6 address").WithDetails(addr)
		}
		if zone == "" {
			return ladder.Row{}, errkind.New(errkind.GrammarRejected, "empty zone id").WithDetails(inner)
		}
		zoneRow, err := p.builder.Reduce("<zoneid>", ladder.Leaf(zone))
		if err != nil {
			return ladder.Row{}, err
		}
		return p.builder.Reduce("<ipv6_addrz>", ladder.Leaf(addr), ladder.Leaf("%25"), zoneRow)
	}

	if net.ParseIP(inner) == nil {
		return ladder.Row{}, errkind.New(errkind.GrammarRejected, "invalid IP literal").WithDetails(inner)
	}
	return p.builder.Reduce("<ipv6_address>", ladder.Leaf(inner))
}

func (p *Parser) parseIPvFuture(ip string) (ladder.Row, error) {
	parts := strings.SplitN(ip[1:], ".", 2)
	if len(parts) != 2 {
		return ladder.Row{}, errkind.New(errkind.GrammarRejected, "IPvFuture missing '.' separator").WithDetails(ip)
	}
	version, address := parts[0], parts[1]
	if version == "" {
		return ladder.Row{}, errkind.New(errkind.GrammarRejected, "IPvFuture missing version").WithDetails(ip)
	}
	for _, r := range version {
		if !isASCIIHexDigit(r) {
			return ladder.Row{}, errkind.New(errkind.GrammarRejected, "invalid IPvFuture version char").WithChar(r)
		}
	}
	if address == "" {
		return ladder.Row{}, errkind.New(errkind.GrammarRejected, "IPvFuture missing address").WithDetails(ip)
	}
	for _, r := range address {
		if !isUnreservedOrSubDelims(r) && r != ':' {
			return ladder.Row{}, errkind.New(errkind.GrammarRejected, "invalid IPvFuture address char").WithChar(r)
		}
	}
	return p.builder.Reduce("<ipvfuture>", ladder.Leaf(ip))
}

// validateChars rejects any rune in s that is neither valid nor the start
// of a well-formed %HH triplet.
func (p *Parser) validateChars(s string, valid func(rune) bool) error {
	if p.unchecked {
		return nil
	}
	i := 0
	for i < len(s) {
		if s[i] == '%' {
			if i+2 >= len(s) || !isASCIIHexDigit(rune(s[i+1])) || !isASCIIHexDigit(rune(s[i+2])) {
				return errkind.New(errkind.GrammarRejected, "invalid percent-encoding").WithDetails(s[i:])
			}
			i += 3
			continue
		}
		r, size := decodeRuneAt(s, i)
		if !valid(r) {
			return errkind.New(errkind.GrammarRejected, "invalid character").WithChar(r)
		}
		i += size
	}
	return nil
}

// splitPercentRuns breaks s into children rows: a <pct_encoded> reduction
// for every well-formed %HH triplet, a Leaf for every run of other bytes.
// Callers are expected to have already validated s with validateChars.
func (p *Parser) splitPercentRuns(s string) (string, []ladder.Row, error) {
	var children []ladder.Row
	i := 0
	for i < len(s) {
		if s[i] == '%' {
			triplet := s[i : i+3]
			row, err := p.builder.Reduce("<pct_encoded>", ladder.Leaf(triplet))
			if err != nil {
				return "", nil, err
			}
			children = append(children, row)
			i += 3
			continue
		}
		j := i
		for j < len(s) && s[j] != '%' {
			j++
		}
		children = append(children, ladder.Leaf(s[i:j]))
		i = j
	}
	return s, children, nil
}

// scanComponentRaw consumes from the scanner until '?' / '#' / EOF,
// validates, and splits into children, for query/fragment which are
// suffix-delimited rather than pre-sliced like authority/path.
func (p *Parser) scanComponentRaw(valid func(rune) bool) (string, []ladder.Row, error) {
	rest := p.scan.rest()
	end := len(rest)
	for i, r := range rest {
		if r == '#' {
			end = i
			break
		}
	}
	raw := rest[:end]
	p.scan.resetTo(rest[end:])
	if err := p.validateChars(raw, valid); err != nil {
		return "", nil, err
	}
	_, children, err := p.splitPercentRuns(raw)
	return raw, children, err
}

func decodeRuneAt(s string, i int) (rune, int) {
	return utf8.DecodeRuneInString(s[i:])
}

func splitUserinfo(authority string) (string, string) {
	at := strings.LastIndex(authority, "@")
	if at == -1 {
		return "", authority
	}
	return authority[:at], authority[at+1:]
}

func splitHostPort(hostport string) (string, string) {
	if strings.HasPrefix(hostport, "[") {
		end := strings.LastIndex(hostport, "]")
		if end == -1 {
			return hostport, ""
		}
		host := hostport[:end+1]
		if len(hostport) > end+1 && hostport[end+1] == ':' {
			return host, hostport[end+2:]
		}
		return host, ""
	}
	if idx := strings.LastIndex(hostport, ":"); idx != -1 {
		return hostport[:idx], hostport[idx+1:]
	}
	return hostport, ""
}
