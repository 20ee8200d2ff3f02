// Package pipeline composes the stages into the hash-a-URL operation:
// fetch → decode → classify → canonicalize → hash. The flow is strictly
// linear; a stage failure aborts the invocation with that stage's typed
// error. Each invocation is stateless and self-contained, so a single
// Pipeline is safe for concurrent use across URLs.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/sitehash/core"
	"github.com/gaurav-prasanna/sitehash/core/canonical"
	"github.com/gaurav-prasanna/sitehash/core/classify"
	"github.com/gaurav-prasanna/sitehash/core/digest"
	"github.com/gaurav-prasanna/sitehash/core/encoding"
	"github.com/gaurav-prasanna/sitehash/core/fetch"
	"github.com/gaurav-prasanna/sitehash/core/render"
)

// Pipeline turns a URL (or raw content) into a content digest.
type Pipeline struct {
	fetcher        core.Fetcher
	resolver       core.Resolver
	classifier     core.Classifier
	canonicalizers map[core.ContentKind]core.Canonicalizer
	hasher         core.Hasher
	logger         zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithFetcher replaces the default HTTP fetcher.
func WithFetcher(f core.Fetcher) Option {
	return func(p *Pipeline) error {
		p.fetcher = f
		return nil
	}
}

// WithRenderer sets the browser-execution collaborator used for HTML
// content. The default is the static renderer (no script execution).
func WithRenderer(r render.Renderer) Option {
	return func(p *Pipeline) error {
		p.canonicalizers[core.KindHTML] = canonical.NewHTML(r)
		return nil
	}
}

// WithAlgorithm selects the hash algorithm by name.
func WithAlgorithm(name string) Option {
	return func(p *Pipeline) error {
		d, err := digest.New(name)
		if err != nil {
			return err
		}
		p.hasher = d
		return nil
	}
}

// WithLogger sets the structured logger. The default logger is disabled.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) error {
		p.logger = logger
		return nil
	}
}

// New creates a Pipeline with default stages: HTTP fetcher, charset
// resolver, media-type classifier, static renderer, and sha256.
func New(opts ...Option) (*Pipeline, error) {
	defaultHasher, err := digest.New(digest.DefaultAlgorithm)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		fetcher:    fetch.New(),
		resolver:   encoding.New(),
		classifier: classify.New(),
		canonicalizers: map[core.ContentKind]core.Canonicalizer{
			core.KindHTML:  canonical.NewHTML(render.NewStatic()),
			core.KindJSON:  canonical.NewJSON(),
			core.KindText:  canonical.NewText(),
			core.KindOther: canonical.NewIdentity(),
		},
		hasher: defaultHasher,
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// HashURL fetches the URL and hashes its canonical content.
func (p *Pipeline) HashURL(ctx context.Context, url string) (*core.Result, error) {
	fetched, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		p.logger.Error().Err(err).Str("url", url).Msg("fetch failed")
		return nil, err
	}
	p.logger.Debug().
		Str("url", url).
		Int("status", fetched.StatusCode).
		Str("content_type", fetched.ContentType).
		Int("bytes", len(fetched.Bytes)).
		Msg("fetched")

	result, err := p.HashContent(ctx, fetched.RawContent)
	if err != nil {
		return nil, err
	}

	result.RequestedURL = url
	result.VisitedURL = fetched.URL
	result.StatusCode = fetched.StatusCode
	result.Redirected = fetched.Redirected
	return result, nil
}

// HashContent hashes directly supplied raw content. This is the offline
// entry point; it runs every stage except the fetch.
func (p *Pipeline) HashContent(ctx context.Context, raw core.RawContent) (*core.Result, error) {
	decoded := p.resolver.Resolve(raw)
	p.logger.Debug().
		Str("encoding", decoded.Encoding).
		Bool("binary", decoded.Binary).
		Msg("decoded")

	kind := p.classifier.Classify(decoded, raw.ContentType)
	p.logger.Debug().Stringer("kind", kind).Msg("classified")

	form, err := p.canonicalizers[kind].Canonicalize(ctx, decoded, raw)
	if err != nil {
		p.logger.Error().Err(err).Stringer("kind", kind).Msg("canonicalization failed")
		return nil, err
	}

	return &core.Result{
		ContentType: raw.ContentType,
		Kind:        kind.String(),
		Algorithm:   p.hasher.Algorithm(),
		Digest:      p.hasher.Sum(form.Bytes),
		Canonical:   form.Bytes,
	}, nil
}
