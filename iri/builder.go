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

package iri

// Builder assembles an IRI reference one component at a time. Each With*
// method returns the same *Builder for chaining and stores its component
// without validating it; an invalid component is reported by Build, which
// parses the assembled string.
type Builder struct {
	scheme, userinfo, host, port, path, query, fragment string
	hasScheme, hasAuthority, hasQuery, hasFragment       bool
	err                                                  error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithScheme sets the scheme component (without the trailing colon).
func (b *Builder) WithScheme(scheme string) *Builder {
	if b.err != nil {
		return b
	}
	b.scheme = scheme
	b.hasScheme = true
	return b
}

// WithAuthority sets userinfo, host, and port in one call from a raw
// "[userinfo@]host[:port]" string, splitting it the same way the parser
// splits an already-scanned authority.
func (b *Builder) WithAuthority(authority string) *Builder {
	if b.err != nil {
		return b
	}
	b.userinfo, b.host, b.port = splitAuthority(authority)
	b.hasAuthority = true
	return b
}

// WithUserInfo sets the userinfo component and ensures an authority is present.
func (b *Builder) WithUserInfo(userinfo string) *Builder {
	if b.err != nil {
		return b
	}
	b.userinfo = userinfo
	b.hasAuthority = true
	return b
}

// WithHost sets the host component and ensures an authority is present.
func (b *Builder) WithHost(host string) *Builder {
	if b.err != nil {
		return b
	}
	b.host = host
	b.hasAuthority = true
	return b
}

// WithPort sets the port component and ensures an authority is present.
func (b *Builder) WithPort(port string) *Builder {
	if b.err != nil {
		return b
	}
	b.port = port
	b.hasAuthority = true
	return b
}

// WithPath sets the path component.
func (b *Builder) WithPath(path string) *Builder {
	if b.err != nil {
		return b
	}
	b.path = path
	return b
}

// WithQuery sets the query component.
func (b *Builder) WithQuery(query string) *Builder {
	if b.err != nil {
		return b
	}
	b.query = query
	b.hasQuery = true
	return b
}

// WithFragment sets the fragment component.
func (b *Builder) WithFragment(fragment string) *Builder {
	if b.err != nil {
		return b
	}
	b.fragment = fragment
	b.hasFragment = true
	return b
}

// Build recomposes the accumulated components into an IRI-reference string
// and re-parses it, so the result is guaranteed to satisfy the same
// invariants as any other Ref.
func (b *Builder) Build() (*Ref, error) {
	if b.err != nil {
		return nil, b.err
	}
	raw := recomposeNormalizedIRI(
		b.scheme, b.hasScheme,
		b.userinfo, b.host, b.port, b.hasAuthority,
		b.path,
		b.query, b.hasQuery,
		b.fragment, b.hasFragment,
	)
	return ParseRef(raw)
}
