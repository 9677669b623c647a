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

// Package iri provides types and functions for working with Internationalized
// Resource Identifiers (IRIs) and IRI references as defined by RFC 3987.
//
// The package offers two main types:
//   - Ref: Represents an IRI reference, which can be either absolute (e.g., "http://example.com/a")
//     or relative (e.g., "/a", "b", "#c").
//   - Iri: Represents an IRI that is guaranteed to carry a scheme.
//
// Key features include:
//   - Strict parsing and validation against RFC 3987.
//   - High-performance "unchecked" parsing for known-valid inputs.
//   - Reference resolution (`Resolve`) to compute an absolute IRI from a base and a relative reference.
//   - Relativization (`Relativize`) to compute a relative reference between two absolute IRIs.
//   - Zero-allocation resolution variants (`ResolveTo`) for performance-critical applications.
//   - Support for JSON marshalling and unmarshalling.
package iri

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ParseError is the error type returned by parsing functions in this package.
// It carries a taxonomy Kind, a descriptive Message, an optional 1-based
// character Pos (0 if unknown), and may wrap a more specific internal error.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Pos     int
	Err     error
}

// Error returns the string representation of the parse error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("IRI parse error: %s", e.Message)
}

// Unwrap provides compatibility with Go's standard errors package.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrIriRelativize is returned by the Relativize method when it's not possible
// to create a relative reference because the target IRI's path contains dot segments
// ("." or ".."). Such paths must be normalized before relativization.
var ErrIriRelativize = errors.New("it is not possible to make this IRI relative because it contains '/..' or '/.'")

// ErrIriNoRelativeForm is returned by the Relativize method when no reference
// in the supported forms resolves back to the target against the base. This
// happens for targets like "http:" relativized against an http base: the
// resolver treats a reference carrying the base's own scheme as scheme-less,
// so the full target string would not survive the round trip.
var ErrIriNoRelativeForm = errors.New("no relative form of this IRI resolves back to it against the base")

// Ref represents an IRI reference, which can be either absolute or relative.
// It is an immutable type; methods that modify the IRI, like Resolve, return a new Ref.
// The internal `iri` string is stored exactly as provided to the parsing function.
// For comparison purposes where canonical equivalence is desired, use the
// `Normalize()` method.
type Ref struct {
	iri       string
	positions Positions
}

// ParseRef parses and validates a string as an IRI reference.
// This function is compliant with RFC 3987, Section 3.1, Step 1c.
// It parses the string as-is, without applying any Unicode normalization.
// This preserves the exact character sequence of the input, which is critical for
// applications that use IRIs as unique, opaque identifiers.
//
// For applications that require canonical equivalence for comparison or storage,
// call `Normalize()` on the result.
func ParseRef(s string) (*Ref, error) {
	pos, err := run(s, nil, false, &voidOutputBuffer{})
	if err != nil {
		return nil, newParseError(err)
	}

	return &Ref{iri: s, positions: pos}, nil
}

// ParseRefUnchecked parses a string as an IRI reference without character
// validation. It is faster than ParseRef and intended for input that is
// already known to be valid, such as IRIs produced by this package. It
// panics if the input is so malformed that component offsets cannot be
// determined (for example, a truncated percent-encoding).
func ParseRefUnchecked(s string) *Ref {
	pos, err := run(s, nil, true, &voidOutputBuffer{})
	if err != nil {
		panic(fmt.Sprintf("ParseRefUnchecked called on invalid IRI %q: %v", s, err))
	}
	return &Ref{iri: s, positions: pos}
}

// ResolveUnchecked resolves a relative IRI reference against the current Ref
// without character validation. It panics on input the parser cannot process.
func (r *Ref) ResolveUnchecked(relativeIRI string) *Ref {
	builder := &strings.Builder{}
	builder.Grow(len(r.iri) + len(relativeIRI))
	pos := r.ResolveUncheckedTo(relativeIRI, builder)
	return &Ref{iri: builder.String(), positions: pos}
}

// ResolveUncheckedTo is the allocation-avoiding variant of ResolveUnchecked.
// It writes the resolved IRI into target and returns its component positions.
// It panics on input the parser cannot process.
func (r *Ref) ResolveUncheckedTo(relativeIRI string, target *strings.Builder) Positions {
	b := &base{IRI: r.iri, Pos: r.positions}
	output := &stringOutputBuffer{builder: target}

	pos, err := run(relativeIRI, b, true, output)
	if err != nil {
		panic(fmt.Sprintf("ResolveUncheckedTo called on invalid IRI reference %q: %v", relativeIRI, err))
	}
	return pos
}

// Check validates s as an IRI reference without materializing a Ref,
// using a voidOutputBuffer so no component string is ever allocated.
func Check(s string) error {
	_, err := run(s, nil, false, &voidOutputBuffer{})
	if err != nil {
		return newParseError(err)
	}
	return nil
}

// CheckWithSchemeRules validates s as an IRI reference and, if it carries a
// scheme, applies that scheme's CheckSchemeSpecificRules.
func CheckWithSchemeRules(s string, opts ...Option) error {
	ref, err := ParseRef(s)
	if err != nil {
		return err
	}
	if !ref.HasScheme() {
		return nil
	}
	iri, err := NewIriFromRef(ref)
	if err != nil {
		return err
	}
	return iri.CheckSchemeSpecificRules(opts...)
}

// ParseURIToRef converts a URI string into an IRI reference by decoding
// percent-encoded octets that form valid UTF-8 sequences. This is the
// reverse of the As3986 method and follows RFC 3987, Section 3.2.
//
// It cautiously decodes only valid sequences and re-validates the final
// string to ensure it forms a syntactically correct IRI reference. Any
// percent-encoded octets that do not form a valid UTF-8 sequence or that
// represent characters not permitted in IRIs (such as bidi control characters)
// are left in their percent-encoded form.
func ParseURIToRef(s string) (*Ref, error) {
	var builder strings.Builder
	builder.Grow(len(s))

	i := 0
	for i < len(s) {
		if s[i] != '%' {
			builder.WriteByte(s[i])
			i++
			continue
		}

		start := i
		var decodedBytes []byte
		// Find a contiguous block of percent-encoded octets.
		for i < len(s) && s[i] == '%' {
			if i+2 >= len(s) || !isASCIIHexDigit(rune(s[i+1])) || !isASCIIHexDigit(rune(s[i+2])) {
				// Incomplete or invalid encoding, stop processing this block.
				break
			}
			b, _ := hex.DecodeString(s[i+1 : i+3])
			decodedBytes = append(decodedBytes, b[0])
			i += 3
		}

		// If the inner loop didn't advance, we found an invalid/incomplete sequence.
		if i == start {
			// Write the original '%' and advance past it to prevent an infinite loop.
			builder.WriteByte(s[start])
			i++
			continue
		}

		if validateDecodedBytes(decodedBytes) {
			builder.Write(decodedBytes)
		} else {
			// Not valid UTF-8 or contains forbidden characters, so keep original encoding.
			builder.WriteString(s[start:i])
		}
	}

	// The decoded string must be re-parsed to ensure it is a valid IRI.
	return ParseRef(builder.String())
}

// Resolve resolves a relative IRI reference against the current Ref (which acts as the base IRI).
// It returns a new, absolute Ref. This operation is equivalent to resolving a hyperlink.
func (r *Ref) Resolve(relativeIRI string) (*Ref, error) {
	builder := &strings.Builder{}
	builder.Grow(len(r.iri) + len(relativeIRI)) // Pre-allocate for efficiency.
	pos, err := r.ResolveTo(relativeIRI, builder)
	if err != nil {
		return nil, err
	}
	return &Ref{iri: builder.String(), positions: pos}, nil
}

// ResolveTo resolves a relative IRI reference and writes the result directly into
// the provided strings.Builder, avoiding extra allocations. It returns the positions
// of the components in the resulting IRI. This is useful for performance-critical code.
func (r *Ref) ResolveTo(relativeIRI string, target *strings.Builder) (Positions, error) {
	b := &base{IRI: r.iri, Pos: r.positions}
	output := &stringOutputBuffer{builder: target}

	pos, err := run(relativeIRI, b, false, output)

	if err != nil {
		return Positions{}, newParseError(err)
	}
	return pos, nil
}

// String returns the underlying string representation of the IRI reference.
func (r *Ref) String() string {
	return r.iri
}

// Rebuild recomposes the IRI reference from its component parts. For a Ref
// produced by ParseRef this is always equal to String(); it exists so that
// Builder and Normalize share one recomposition path.
func (r *Ref) Rebuild() string {
	scheme, hasScheme := r.Scheme()
	// The authority is passed through unsplit so that an empty userinfo
	// ("//@host") or an empty port ("//host:") keeps its separator.
	authority, hasAuthority := r.Authority()
	query, hasQuery := r.Query()
	fragment, hasFragment := r.Fragment()
	return recomposeNormalizedIRI(
		scheme, hasScheme,
		"", authority, "", hasAuthority,
		r.Path(),
		query, hasQuery,
		fragment, hasFragment,
	)
}

// As3986 converts the IRI reference to its RFC 3986 URI-reference form by
// percent-encoding any non-ASCII octet using its UTF-8 representation. It
// performs no Unicode normalization and no IDNA host-to-ASCII encoding.
func (r *Ref) As3986() string {
	var builder strings.Builder
	builder.Grow(len(r.iri))

	scheme, hasScheme := r.Scheme()
	authority, hasAuthority := r.Authority()
	path := r.Path()
	query, hasQuery := r.Query()
	fragment, hasFragment := r.Fragment()

	if hasScheme {
		builder.WriteString(scheme)
		builder.WriteRune(':')
	}

	if hasAuthority {
		builder.WriteString("//")
		userinfo, host, port := splitAuthority(authority)

		percentEncode(userinfo, &builder)
		if userinfo != "" {
			builder.WriteRune('@')
		}

		percentEncode(host, &builder)

		if port != "" {
			builder.WriteRune(':')
			builder.WriteString(port)
		}
	}

	percentEncode(path, &builder)
	if hasQuery {
		builder.WriteRune('?')
		percentEncode(query, &builder)
	}
	if hasFragment {
		builder.WriteRune('#')
		percentEncode(fragment, &builder)
	}

	return builder.String()
}

// Normalize applies syntax-based normalization to the IRI reference according
// to RFC 3986, Section 6.2.2: case-normalization of scheme and host,
// percent-encoding normalization, dot-segment removal, default-port
// stripping, and empty-path promotion. It returns a new, normalized Ref.
func (r *Ref) Normalize() *Ref {
	if r.iri == "" {
		return &Ref{}
	}

	scheme, hasScheme := r.Scheme()
	authority, hasAuthority := r.Authority()
	path := r.Path()
	query, hasQuery := r.Query()
	fragment, hasFragment := r.Fragment()

	// 1. Case Normalization
	if hasScheme {
		scheme = strings.ToLower(scheme)
	}
	var userinfo, host, port string
	if hasAuthority {
		userinfo, host, port = splitAuthority(authority)
		host, port = normalizeHostAndPort(host, port, scheme)
	}

	// 2. Percent-Encoding Normalization
	userinfo = normalizePercentEncoding(userinfo)
	host = normalizePercentEncoding(host)
	path = normalizePercentEncoding(path)
	query = normalizePercentEncoding(query)
	fragment = normalizePercentEncoding(fragment)

	// 3. Path Segment Normalization
	path = removeDotSegments(path)

	// 4. Scheme-based normalization for path
	if hasAuthority && path == "" {
		path = "/"
	}

	// Recompose and re-parse
	recomposedStr := recomposeNormalizedIRI(
		scheme, hasScheme,
		userinfo, host, port, hasAuthority,
		path,
		query, hasQuery,
		fragment, hasFragment,
	)

	if recomposedStr == r.iri {
		return r
	}
	// An error is not expected here as we are building from valid components.
	newRef, _ := ParseRef(recomposedStr)
	return newRef
}

// IsAbsolute returns true if the IRI reference is an absolute IRI per
// RFC 3987's absolute-IRI production: it carries a scheme and no fragment.
// A scheme-carrying reference with a fragment is a full IRI but not an
// absolute one; use HasScheme to test for the scheme alone.
func (r *Ref) IsAbsolute() bool {
	return r.HasScheme() && !r.HasFragment()
}

// Scheme returns the scheme component of the IRI (e.g., "http") and a boolean
// indicating whether it was present.
func (r *Ref) Scheme() (string, bool) {
	if !r.HasScheme() {
		return "", false
	}
	// The scheme ends one character before the colon.
	return r.iri[:r.positions.SchemeEnd-1], true
}

// Authority returns the authority component of the IRI (e.g., "example.com:80")
// and a boolean indicating whether it was present. The leading "//" is not included.
func (r *Ref) Authority() (string, bool) {
	if r.positions.AuthorityEnd <= r.positions.SchemeEnd {
		return "", false
	}

	authorityComponent := r.iri[r.positions.SchemeEnd:r.positions.AuthorityEnd]
	return strings.TrimPrefix(authorityComponent, "//"), true
}

// Path returns the path component of the IRI. A path is always present,
// though it may be an empty string.
func (r *Ref) Path() string {
	return r.iri[r.positions.AuthorityEnd:r.positions.PathEnd]
}

// Query returns the query component of the IRI (the part after "?", without the "?")
// and a boolean indicating whether it was present.
func (r *Ref) Query() (string, bool) {
	if r.positions.PathEnd >= r.positions.QueryEnd {
		return "", false
	}
	// The query starts one character after the '?'.
	return r.iri[r.positions.PathEnd+1 : r.positions.QueryEnd], true
}

// Fragment returns the fragment component of the IRI (the part after "#", without the "#")
// and a boolean indicating whether it was present.
func (r *Ref) Fragment() (string, bool) {
	if r.positions.QueryEnd >= len(r.iri) {
		return "", false
	}
	// The fragment starts one character after the '#'.
	return r.iri[r.positions.QueryEnd+1:], true
}

// UserInfo returns the userinfo subcomponent of the authority (the part
// before "@", without the "@") and whether it was present.
func (r *Ref) UserInfo() (string, bool) {
	authority, hasAuthority := r.Authority()
	if !hasAuthority {
		return "", false
	}
	userinfo, _, _ := splitAuthority(authority)
	return userinfo, userinfo != ""
}

// Host returns the host subcomponent of the authority and whether an
// authority was present. An authority with an empty host (e.g. "http://")
// returns ("", true).
func (r *Ref) Host() (string, bool) {
	authority, hasAuthority := r.Authority()
	if !hasAuthority {
		return "", false
	}
	_, host, _ := splitAuthority(authority)
	return host, true
}

// Port returns the port subcomponent of the authority and whether it was present.
func (r *Ref) Port() (string, bool) {
	authority, hasAuthority := r.Authority()
	if !hasAuthority {
		return "", false
	}
	_, _, port := splitAuthority(authority)
	return port, port != ""
}

// PathSegments splits the path on "/" into its segments. A leading "/"
// yields a leading empty segment, matching the hierarchical-path grammar.
func (r *Ref) PathSegments() []string {
	path := r.Path()
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// HasScheme reports whether the IRI reference carries a scheme.
func (r *Ref) HasScheme() bool {
	return r.positions.SchemeEnd != 0
}

// HasAuthority reports whether the IRI reference carries an authority.
func (r *Ref) HasAuthority() bool {
	_, ok := r.Authority()
	return ok
}

// HasUserInfo reports whether the authority carries a non-empty userinfo.
func (r *Ref) HasUserInfo() bool {
	_, ok := r.UserInfo()
	return ok
}

// HasHost reports whether the IRI reference carries an authority (and
// therefore a host subcomponent, possibly empty).
func (r *Ref) HasHost() bool {
	_, ok := r.Host()
	return ok
}

// HasPort reports whether the authority carries a non-empty port.
func (r *Ref) HasPort() bool {
	_, ok := r.Port()
	return ok
}

// HasQuery reports whether the IRI reference carries a query.
func (r *Ref) HasQuery() bool {
	_, ok := r.Query()
	return ok
}

// HasFragment reports whether the IRI reference carries a fragment.
func (r *Ref) HasFragment() bool {
	_, ok := r.Fragment()
	return ok
}

// IsRelative returns true if the IRI reference has no scheme.
func (r *Ref) IsRelative() bool {
	return !r.HasScheme()
}

// IsHierarchical returns true if the reference has a scheme, an authority,
// and a path beginning with "/".
func (r *Ref) IsHierarchical() bool {
	return r.HasScheme() && r.HasAuthority() && strings.HasPrefix(r.Path(), "/")
}

// IsRootless returns true if the reference has a scheme, no authority, and
// a path that does not begin with "/" (a "path-rootless" form per
// RFC 3986, Section 3.3).
func (r *Ref) IsRootless() bool {
	return r.HasScheme() && !r.HasAuthority() && !strings.HasPrefix(r.Path(), "/")
}

// MarshalJSON implements the json.Marshaler interface, encoding the Ref as a JSON string.
func (r *Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.iri)
}

// UnmarshalJSON implements the json.Unmarshaler interface. It decodes a JSON string
// into a Ref, performing validation in the process. It does not perform NFC normalization.
func (r *Ref) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	newRef, err := ParseRef(s)
	if err != nil {
		return err
	}
	*r = *newRef
	return nil
}

// Iri represents an IRI that is guaranteed to carry a scheme. It embeds a
// Ref and provides convenience methods for working with such IRIs. An Iri
// may still carry a fragment; see Ref.IsAbsolute for the stricter
// absolute-IRI test.
type Iri struct {
	Ref
}

// ParseIri parses and validates a string, ensuring it carries a scheme.
// If the string is a relative reference, it returns an error. The string is
// parsed as-is, without Unicode normalization.
func ParseIri(s string) (*Iri, error) {
	ref, err := ParseRef(s)
	if err != nil {
		return nil, err
	}
	return NewIriFromRef(ref)
}

// ParseIriUnchecked parses a string as a scheme-carrying IRI without
// character validation. It panics if the input is a relative reference or
// cannot be processed.
func ParseIriUnchecked(s string) *Iri {
	ref := ParseRefUnchecked(s)
	if !ref.HasScheme() {
		panic(fmt.Sprintf("ParseIriUnchecked called on relative IRI %q", s))
	}
	return &Iri{Ref: *ref}
}

// NewIriFromRef attempts to create an Iri from an existing Ref. It returns
// an error if the provided Ref carries no scheme.
func NewIriFromRef(ref *Ref) (*Iri, error) {
	if !ref.HasScheme() {
		return nil, newParseError(errNoScheme)
	}
	return &Iri{Ref: *ref}, nil
}

// Scheme returns the scheme component of the IRI. It is guaranteed to be present.
func (i *Iri) Scheme() string {
	s, _ := i.Ref.Scheme()
	return s
}

// Resolve resolves a relative IRI reference against the current Iri and
// returns a new Iri.
func (i *Iri) Resolve(relativeIRI string) (*Iri, error) {
	ref, err := i.Ref.Resolve(relativeIRI)
	if err != nil {
		return nil, err
	}
	// The result of a resolution always carries a scheme: the reference's
	// own, or else the base's.
	return &Iri{Ref: *ref}, nil
}

// ResolveTo resolves a relative IRI and writes the resulting absolute IRI
// to the provided strings.Builder, avoiding allocations.
func (i *Iri) ResolveTo(relativeIRI string, target *strings.Builder) error {
	_, err := i.Ref.ResolveTo(relativeIRI, target)
	return err
}

// ResolveUnchecked resolves a relative IRI reference against the current Iri
// without character validation. It panics on input the parser cannot process.
func (i *Iri) ResolveUnchecked(relativeIRI string) *Iri {
	ref := i.Ref.ResolveUnchecked(relativeIRI)
	return &Iri{Ref: *ref}
}

// ResolveUncheckedTo resolves a relative IRI without character validation and
// writes the resulting absolute IRI to the provided strings.Builder. It
// panics on input the parser cannot process.
func (i *Iri) ResolveUncheckedTo(relativeIRI string, target *strings.Builder) {
	i.Ref.ResolveUncheckedTo(relativeIRI, target)
}

// MarshalJSON implements the json.Marshaler interface.
func (i *Iri) MarshalJSON() ([]byte, error) {
	return i.Ref.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface, ensuring the
// decoded IRI carries a scheme.
func (i *Iri) UnmarshalJSON(data []byte) error {
	var ref Ref
	if err := ref.UnmarshalJSON(data); err != nil {
		return err
	}
	newIri, err := NewIriFromRef(&ref)
	if err != nil {
		return err
	}
	*i = *newIri
	return nil
}

// Relativize computes a relative IRI reference that, when resolved against the
// base IRI `i`, will result in the target IRI `abs`. This is the inverse of the
// Resolve operation.
//
// The method will return the full target IRI or a scheme-relative IRI if the
// schemes or authorities differ. It returns `ErrIriRelativize` if the target
// IRI's path contains dot-segments ("." or "..").
func (i *Iri) Relativize(abs *Iri) (*Ref, error) {
	base := i
	absPath := abs.Path()

	for _, segment := range strings.Split(absPath, "/") {
		if segment == "." || segment == ".." {
			return nil, ErrIriRelativize
		}
	}

	if base.Scheme() != abs.Scheme() {
		return base.absoluteFallback(abs)
	}

	baseAuthority, hasBaseAuthority := base.Authority()
	absAuthority, hasAbsAuthority := abs.Authority()

	if hasBaseAuthority != hasAbsAuthority || (hasBaseAuthority && baseAuthority != absAuthority) {
		if !hasAbsAuthority {
			return base.absoluteFallback(abs)
		}
		return ParseRef(abs.String()[abs.positions.SchemeEnd:])
	}

	basePath := base.Path()

	if absPath == "" && basePath != "" {
		if !hasAbsAuthority {
			return base.absoluteFallback(abs)
		}
		return ParseRef(abs.String()[abs.positions.SchemeEnd:])
	}

	if basePath == absPath {
		return i.relativizeForSamePath(abs)
	}

	if !hasBaseAuthority {
		return i.relativizeForNoAuthority(abs)
	}

	return i.relativizeWithAuthority(abs)
}
