// Package classify implements the Classifier interface.
// It maps decoded content to the canonicalizer that applies: the declared
// media type when it is unambiguous, content sniffing otherwise.
package classify

import (
	"encoding/json"
	"strings"

	"github.com/gaurav-prasanna/sitehash/core"
)

// htmlMarkers are structural patterns that identify HTML during sniffing.
var htmlMarkers = []string{"<!doctype html", "<html", "<head", "<body"}

// MediaTypeClassifier classifies content by declared media type with a
// sniffing fallback. Pure and deterministic; no I/O.
type MediaTypeClassifier struct{}

// New creates a MediaTypeClassifier.
func New() *MediaTypeClassifier {
	return &MediaTypeClassifier{}
}

// Classify selects the ContentKind for the given content. Binary content is
// always KindOther.
func (c *MediaTypeClassifier) Classify(decoded core.DecodedContent, contentType string) core.ContentKind {
	if decoded.Binary {
		return core.KindOther
	}

	switch {
	case isHTMLType(contentType):
		return core.KindHTML
	case isJSONType(contentType):
		return core.KindJSON
	case contentType == "text/plain":
		return core.KindText
	}

	if contentType == "" || contentType == "application/octet-stream" {
		return sniff(decoded.Text)
	}
	return core.KindOther
}

func isHTMLType(contentType string) bool {
	return contentType == "text/html" || contentType == "application/xhtml+xml"
}

func isJSONType(contentType string) bool {
	return contentType == "application/json" ||
		contentType == "text/json" ||
		strings.HasSuffix(contentType, "+json")
}

// sniff infers a kind from the content itself: a successful JSON parse wins,
// then HTML structural markers, then KindOther.
func sniff(text string) core.ContentKind {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return core.KindOther
	}

	if json.Valid([]byte(trimmed)) {
		return core.KindJSON
	}

	lowered := strings.ToLower(trimmed)
	for _, marker := range htmlMarkers {
		if strings.Contains(lowered, marker) {
			return core.KindHTML
		}
	}
	return core.KindOther
}
