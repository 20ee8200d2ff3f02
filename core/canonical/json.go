package canonical

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gowebpki/jcs"

	"github.com/gaurav-prasanna/sitehash/core"
)

// JSON canonicalizes JSON content per RFC 8785 (JCS): object keys sorted
// lexicographically, canonical number formatting, no insignificant
// whitespace. Array element order is semantically significant and is
// preserved.
type JSON struct{}

// NewJSON creates a JSON canonicalizer.
func NewJSON() *JSON {
	return &JSON{}
}

// Canonicalize transforms the text into its RFC 8785 form. Invalid JSON has
// no canonical form and is a hard *core.MalformedContentError; there is no
// permissive repair.
func (c *JSON) Canonicalize(_ context.Context, decoded core.DecodedContent, _ core.RawContent) (core.CanonicalForm, error) {
	data := []byte(decoded.Text)
	if !json.Valid(data) {
		return core.CanonicalForm{}, &core.MalformedContentError{Err: errors.New("invalid JSON syntax")}
	}
	canonical, err := jcs.Transform(data)
	if err != nil {
		return core.CanonicalForm{}, &core.MalformedContentError{Err: err}
	}
	return core.CanonicalForm{Bytes: canonical}, nil
}
