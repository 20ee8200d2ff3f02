// Package canonical implements the Canonicalizer interface for each
// supported content kind. A canonicalizer reduces decoded content to the
// unique byte form that represents it regardless of incidental formatting.
package canonical

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/sitehash/core"
	"github.com/gaurav-prasanna/sitehash/core/render"
)

// invisibleSelectors match elements that contribute no human-perceivable
// content: script and metadata elements, embedded execution contexts, and
// elements explicitly marked hidden. Inline display:none/visibility:hidden
// styles are handled separately. Layout-dependent states (zero size,
// off-screen position) are deliberately not considered; they require a
// layout engine, which only the render collaborator has.
var invisibleSelectors = []string{
	"script", "style", "noscript", "template",
	"iframe", "object", "embed",
	"meta", "link", "base",
	"[hidden]", `[aria-hidden="true"]`,
}

// HTML canonicalizes HTML content: render through the browser collaborator
// to execute embedded script, then reduce the settled DOM to its visible
// text with whitespace normalized.
type HTML struct {
	renderer render.Renderer
}

// NewHTML creates an HTML canonicalizer backed by the given renderer.
func NewHTML(renderer render.Renderer) *HTML {
	return &HTML{renderer: renderer}
}

// Canonicalize renders the document and reduces it to visible text.
// Rendering is the only stage allowed to fail hard; reduction repairs
// malformed markup permissively and never errors. An empty body yields an
// empty form.
func (c *HTML) Canonicalize(ctx context.Context, decoded core.DecodedContent, _ core.RawContent) (core.CanonicalForm, error) {
	rendered, err := c.renderer.Render(ctx, decoded.Text)
	if err != nil {
		return core.CanonicalForm{}, err
	}
	return core.CanonicalForm{Bytes: []byte(Reduce(rendered))}, nil
}

// Reduce parses rendered HTML and returns its visible text: invisible
// elements and comments dropped, each remaining text node trimmed with
// internal whitespace runs collapsed, nodes joined by single spaces in
// document order.
func Reduce(rendered string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		// The tree builder itself repairs malformed markup, so this only
		// trips on reader failure; fall back to a plain token scan.
		return tokenizeText(rendered)
	}

	for _, sel := range invisibleSelectors {
		doc.Find(sel).Remove()
	}
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		if style, ok := s.Attr("style"); ok && isHiddenStyle(style) {
			s.Remove()
		}
	})

	var parts []string
	for _, node := range doc.Selection.Nodes {
		collectText(node, &parts)
	}
	return strings.Join(parts, " ")
}

// collectText appends the normalized text of every text node under n.
// Comment nodes carry no visible content and are skipped.
func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if fields := strings.Fields(n.Data); len(fields) > 0 {
			*parts = append(*parts, strings.Join(fields, " "))
		}
		return
	}
	if n.Type == html.CommentNode {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// tokenizeText is the last-resort reduction: scan tokens, keep text outside
// script/style/noscript, normalize whitespace.
func tokenizeText(raw string) string {
	z := html.NewTokenizer(strings.NewReader(raw))
	var b strings.Builder
	skipDepth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			if name, _ := z.TagName(); skipTag(name) {
				skipDepth++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); skipTag(name) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func skipTag(name []byte) bool {
	switch string(name) {
	case "script", "style", "noscript", "template":
		return true
	}
	return false
}

// isHiddenStyle reports whether an inline style hides the element.
func isHiddenStyle(style string) bool {
	compact := strings.ToLower(strings.Join(strings.Fields(style), ""))
	return strings.Contains(compact, "display:none") ||
		strings.Contains(compact, "visibility:hidden")
}
