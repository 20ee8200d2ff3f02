package canonical

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/sitehash/core"
)

func TestTextCanonicalize(t *testing.T) {
	t.Parallel()

	// The resolver already transcoded to UTF-8; the text itself is not
	// reflowed.
	form, err := NewText().Canonicalize(context.Background(),
		core.DecodedContent{Text: "line one\n  line two\n"}, core.RawContent{})
	require.NoError(t, err)
	assert.Equal(t, "line one\n  line two\n", string(form.Bytes))
}

func TestIdentityCanonicalize(t *testing.T) {
	t.Parallel()

	raw := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0xff}
	form, err := NewIdentity().Canonicalize(context.Background(),
		core.DecodedContent{Binary: true}, core.RawContent{Bytes: raw})
	require.NoError(t, err)
	assert.Equal(t, raw, form.Bytes)
}
