// Package encoding implements the Resolver interface.
// It turns encoding-ambiguous raw bytes into UTF-8 text so that the source
// charset can never influence the digest. Resolution is best-effort: an
// undecodable sequence degrades to the Unicode replacement character, it
// never fails the pipeline.
package encoding

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/gaurav-prasanna/sitehash/core"
)

// CharsetResolver resolves character encodings using the WHATWG sniffing
// rules from golang.org/x/net/html/charset: byte-order mark, then the
// transport-declared charset, then an in-document declaration, then
// statistical detection, then a safe fallback.
type CharsetResolver struct{}

// New creates a CharsetResolver.
func New() *CharsetResolver {
	return &CharsetResolver{}
}

// Resolve decodes raw content to UTF-8 text, or marks it binary when no
// textual encoding applies.
func (r *CharsetResolver) Resolve(raw core.RawContent) core.DecodedContent {
	if !isTextual(raw) {
		return core.DecodedContent{Binary: true}
	}
	if len(raw.Bytes) == 0 {
		return core.DecodedContent{Encoding: "utf-8"}
	}

	enc, name, certain := charset.DetermineEncoding(raw.Bytes, contentTypeLabel(raw))

	// The WHATWG sniffer falls back to windows-1252 when nothing declared
	// an encoding. Valid UTF-8 that merely lacks a declaration must not be
	// mangled by that fallback, so UTF-8 wins whenever detection was
	// uncertain and the bytes check out.
	if !certain && utf8.Valid(raw.Bytes) {
		return core.DecodedContent{Text: string(raw.Bytes), Encoding: "utf-8"}
	}

	decoded, err := enc.NewDecoder().Bytes(raw.Bytes)
	if err != nil {
		// Decoder hiccup: keep the bytes, replacing anything invalid.
		decoded = raw.Bytes
	}

	text := strings.ToValidUTF8(string(decoded), "\uFFFD")
	// Some decoders keep the byte-order mark as U+FEFF; it carries no
	// content and must not influence the canonical form.
	text = strings.TrimPrefix(text, "\uFEFF")

	return core.DecodedContent{
		Text:     text,
		Encoding: name,
	}
}

// contentTypeLabel rebuilds the Content-Type header value that the charset
// sniffer expects, reattaching the charset parameter if one was declared.
func contentTypeLabel(raw core.RawContent) string {
	if raw.Charset == "" {
		return raw.ContentType
	}
	return raw.ContentType + "; charset=" + raw.Charset
}

// textualTypeMarkers identify media types that carry decodable text even
// though they are not under text/.
var textualTypeMarkers = []string{"html", "xml", "json", "javascript", "ecmascript", "+xml", "+json"}

// isTextual reports whether the content should be treated as text. The
// declared media type wins; absent or generic declarations fall back to
// sniffing the bytes themselves.
func isTextual(raw core.RawContent) bool {
	contentType := raw.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		sniffed, _, _ := strings.Cut(http.DetectContentType(raw.Bytes), ";")
		contentType = strings.TrimSpace(strings.ToLower(sniffed))
	}
	if strings.HasPrefix(contentType, "text/") {
		return true
	}
	for _, marker := range textualTypeMarkers {
		if strings.Contains(contentType, marker) {
			return true
		}
	}
	return false
}
