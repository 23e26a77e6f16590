package idhash

import (
	"crypto/sha256"
	"sort"

	"github.com/mr-tron/base58"
)

// FileDigest pairs a source file name with the SHA256 of its content.
type FileDigest struct {
	Name   string
	SHA256 [32]byte
}

// ComputeFileDigest hashes raw file content.
func ComputeFileDigest(name string, content []byte) FileDigest {
	return FileDigest{Name: name, SHA256: sha256.Sum256(content)}
}

// ComputeFingerprint derives a location fingerprint from the digests of
// the files present at load time. The result is independent of digest
// order, so callers need not pre-sort. Base58-encoded for compact cache
// keys and report provenance.
func ComputeFingerprint(digests []FileDigest) string {
	sorted := make([]FileDigest, len(digests))
	copy(sorted, digests)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	h := sha256.New()
	for _, d := range sorted {
		h.Write([]byte(d.Name))
		h.Write([]byte{0})
		h.Write(d.SHA256[:])
	}
	return base58.Encode(h.Sum(nil))
}
