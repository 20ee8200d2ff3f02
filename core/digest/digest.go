// Package digest implements the Hasher interface over the standard crypto
// registry. The hash primitive itself is a collaborator; this package only
// selects an algorithm by name and hex-encodes its output.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"sort"
)

// DefaultAlgorithm is used when no algorithm is requested.
const DefaultAlgorithm = "sha256"

// constructors maps algorithm names to their hash constructors. md5 and
// sha1 are kept for parity with existing fingerprint stores, not for
// collision resistance.
var constructors = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha224": sha256.New224,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// Digest hashes canonical bytes with a named algorithm. Stateless and safe
// for concurrent use.
type Digest struct {
	algorithm string
	newHash   func() hash.Hash
}

// New creates a Digest for the named algorithm. An empty name selects
// DefaultAlgorithm; an unknown name is an error.
func New(algorithm string) (*Digest, error) {
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	constructor, ok := constructors[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported hash algorithm %q (supported: %v)", algorithm, Algorithms())
	}
	return &Digest{algorithm: algorithm, newHash: constructor}, nil
}

// Sum returns the lowercase hex digest of b.
func (d *Digest) Sum(b []byte) string {
	h := d.newHash()
	h.Write(b)
	return hex.EncodeToString(h.Sum(nil))
}

// Algorithm returns the name of the algorithm in use.
func (d *Digest) Algorithm() string {
	return d.algorithm
}

// Algorithms lists the supported algorithm names, sorted.
func Algorithms() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
