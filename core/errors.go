package core

import "fmt"

// FetchError reports a transport failure or a non-success HTTP status.
// The pipeline never retries; transient-failure policy belongs to callers.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RenderTimeoutError reports that the render collaborator did not produce a
// settled DOM within the configured timeout.
type RenderTimeoutError struct {
	Err error
}

func (e *RenderTimeoutError) Error() string {
	return fmt.Sprintf("render timed out: %v", e.Err)
}

func (e *RenderTimeoutError) Unwrap() error { return e.Err }

// RenderFailure reports any non-timeout failure of the render collaborator.
type RenderFailure struct {
	Err error
}

func (e *RenderFailure) Error() string {
	return fmt.Sprintf("render failed: %v", e.Err)
}

func (e *RenderFailure) Unwrap() error { return e.Err }

// MalformedContentError reports content that has no defined canonical form,
// such as invalid JSON. There is no best-effort repair for these.
type MalformedContentError struct {
	Err error
}

func (e *MalformedContentError) Error() string {
	return fmt.Sprintf("malformed content: %v", e.Err)
}

func (e *MalformedContentError) Unwrap() error { return e.Err }
