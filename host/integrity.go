package host

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"hash"
	"strings"
)

var integrityHashes = map[string]func() hash.Hash{
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// checkIntegrity verifies data against subresource integrity metadata such
// as "sha256-<base64> sha512-<base64>". Metadata naming no known algorithm
// passes; otherwise at least one digest must match.
func checkIntegrity(metadata string, data []byte) error {
	var known bool
	for token := range strings.FieldsSeq(metadata) {
		alg, digest, ok := strings.Cut(token, "-")
		if !ok {
			continue
		}
		newHash, ok := integrityHashes[alg]
		if !ok {
			continue
		}
		known = true

		digest, _, _ = strings.Cut(digest, "?")
		want, err := base64.StdEncoding.DecodeString(digest)
		if err != nil {
			continue
		}

		h := newHash()
		h.Write(data)
		if subtle.ConstantTimeCompare(h.Sum(nil), want) == 1 {
			return nil
		}
	}

	if !known {
		return nil
	}

	return fmt.Errorf("%w: no digest in %q matches the body", ErrIntegrity, metadata)
}
