// Package core defines the pipeline data model and stage interfaces for
// sitehash. Each stage of the pipeline is a clean, testable interface.
package core

import "context"

// RawContent holds the undecoded bytes of a fetched resource together with
// the transport-declared metadata needed to interpret them.
type RawContent struct {
	Bytes []byte
	// ContentType is the declared media type, lowercased, with any
	// parameters stripped (e.g. "text/html"). Empty when the origin sent
	// no Content-Type header.
	ContentType string
	// Charset is the charset parameter of the Content-Type header, if one
	// was present (e.g. "iso-8859-1").
	Charset string
}

// FetchResult is RawContent plus the HTTP response metadata from a fetch.
type FetchResult struct {
	RawContent
	// URL is the final URL after any redirects were followed.
	URL        string
	StatusCode int
	Redirected bool
}

// DecodedContent is the result of encoding resolution over RawContent.
type DecodedContent struct {
	// Text is the content decoded to UTF-8. Empty when Binary is true.
	Text string
	// Encoding names the source encoding the text was decoded from.
	Encoding string
	// Binary marks content with no recognizable textual encoding; such
	// content bypasses canonicalization and is hashed as raw bytes.
	Binary bool
}

// ContentKind selects which canonicalizer applies to a piece of content.
type ContentKind int

const (
	// KindOther is content with no dedicated canonicalizer; its raw bytes
	// pass through to hashing unchanged.
	KindOther ContentKind = iota
	// KindHTML is content canonicalized by rendering and visible-text
	// reduction.
	KindHTML
	// KindJSON is content canonicalized per RFC 8785.
	KindJSON
	// KindText is plain text, canonicalized by UTF-8 transcoding only.
	KindText
)

// String returns the kind as a short lowercase label.
func (k ContentKind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindJSON:
		return "json"
	case KindText:
		return "text"
	default:
		return "other"
	}
}

// CanonicalForm is the deterministic byte sequence that gets hashed.
// For fixed logical content it is identical across runs regardless of
// incidental formatting or source encoding.
type CanonicalForm struct {
	Bytes []byte
}

// Result is the outcome of one pipeline invocation.
type Result struct {
	RequestedURL string `json:"requested_url,omitempty"`
	VisitedURL   string `json:"retrieved_url,omitempty"`
	StatusCode   int    `json:"status_code,omitempty"`
	Redirected   bool   `json:"is_redirected"`
	ContentType  string `json:"content_type"`
	Kind         string `json:"content_kind"`
	Algorithm    string `json:"hash_algorithm"`
	Digest       string `json:"contents_hash"`
	// Canonical is the canonical byte form, kept for diagnostics. It is
	// excluded from JSON output since it is not guaranteed serializable.
	Canonical []byte `json:"-"`
}

// Fetcher retrieves the raw content of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Resolver determines the character encoding of raw content and decodes it
// to UTF-8. Resolution is best-effort and never fails.
type Resolver interface {
	Resolve(raw RawContent) DecodedContent
}

// Classifier selects the ContentKind for decoded content. Pure: no I/O.
type Classifier interface {
	Classify(decoded DecodedContent, contentType string) ContentKind
}

// Canonicalizer reduces decoded content to its canonical byte form.
type Canonicalizer interface {
	Canonicalize(ctx context.Context, decoded DecodedContent, raw RawContent) (CanonicalForm, error)
}

// Hasher produces a digest over canonical bytes.
type Hasher interface {
	Sum(b []byte) string
	// Algorithm returns the name of the hash algorithm in use.
	Algorithm() string
}
