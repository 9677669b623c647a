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

package profiling

// iriFixtures is the corpus driven through Check/ParseRef/Resolve when
// collecting profiles. It mixes plain URIs, internationalized references,
// IP literals, and relative forms so the profile covers the scheme, authority,
// path, query, and fragment scanners as well as percent-decoding.
var iriFixtures = []string{
	"http://example.com",
	"http://example.com/",
	"http://user@host:8081/abc/def?qs=ghi#jkl",
	"https://example.com/a/b/c?query=value&other=1#frag",
	"http://[::1]:8080/",
	"http://[2001:db8::ff00:42:8329]/path",
	"http://[v7.future:form]/x",
	"mailto:support@example.com",
	"urn:example:a123,z456",
	"urn:uuid:f81d4fae-7dec-11d0-a765-00a0c91e6bf6",
	"file:///C:/DEV/examples/",
	"ftp://ftp.is.co.za/rfc/rfc1808.txt",
	"http://example.com/%20with%2Fencoding",
	"http://ex%C3%A4mple.com/p%C3%A4th",
	"http://example.org/D%C3%BCrst",
	"http://www.example.org/r%C3%A9sum%C3%A9.html",
	"http://example/Andr\u0217",
	"http://a/?\uE000",
	"//network/path/reference",
	"/absolute/path?q=1",
	"relative/path#frag",
	"../up/one/level",
	".",
	"..",
	"?query-only",
	"#fragment-only",
	"",
}

// relativeFixtures pairs with resolveBase to exercise reference resolution.
var (
	resolveBase      = "http://a/b/c/d;p?q"
	relativeFixtures = []string{
		"g", "./g", "g/", "/g", "//g", "?y", "g?y", "#s", "g#s", "g?y#s",
		";x", "g;x", "g;x?y#s", "", ".", "./", "..", "../", "../g",
		"../..", "../../", "../../g", "../../../g", "g.", ".g", "g..",
		"..g", "./../g", "./g/.", "g/./h", "g/../h", "g;x=1/./y",
		"g;x=1/../y", "g?y/./x", "g?y/../x", "g#s/./x", "g#s/../x",
	}
)
