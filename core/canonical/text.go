package canonical

import (
	"context"

	"github.com/gaurav-prasanna/sitehash/core"
)

// Text canonicalizes plain text. The encoding resolver has already
// re-expressed the content as UTF-8, which is the entire normalization for
// this kind; the text itself is not reflowed.
type Text struct{}

// NewText creates a Text canonicalizer.
func NewText() *Text {
	return &Text{}
}

// Canonicalize returns the UTF-8 bytes of the decoded text.
func (c *Text) Canonicalize(_ context.Context, decoded core.DecodedContent, _ core.RawContent) (core.CanonicalForm, error) {
	return core.CanonicalForm{Bytes: []byte(decoded.Text)}, nil
}

// Identity passes raw bytes through untouched. It serves binary content and
// any kind with no dedicated canonicalizer.
type Identity struct{}

// NewIdentity creates an Identity canonicalizer.
func NewIdentity() *Identity {
	return &Identity{}
}

// Canonicalize returns the raw bytes unchanged.
func (c *Identity) Canonicalize(_ context.Context, _ core.DecodedContent, raw core.RawContent) (core.CanonicalForm, error) {
	return core.CanonicalForm{Bytes: raw.Bytes}, nil
}
