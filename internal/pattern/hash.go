package pattern

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for a future algorithm migration.
const (
	DomainPattern    = "mbqc/pattern/v1"
	DomainConversion = "mbqc/conversion/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash computes the content hash of a pattern.
// Two patterns with the same inputs, outputs and commands hash equally
// regardless of their names.
func Hash(p *Pattern) (string, error) {
	form, err := canonicalForm(p)
	if err != nil {
		return "", fmt.Errorf("Hash: %w", err)
	}
	canonical, err := MarshalCanonical(form)
	if err != nil {
		return "", fmt.Errorf("Hash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainPattern, canonical), nil
}

// ConversionID computes the content-addressed id of one lowering of a
// pattern to a target at logical time seq.
func ConversionID(patternHash, target string, seq int64) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"pattern_hash": patternHash,
		"target":       target,
		"seq":          seq,
	})
	if err != nil {
		return "", fmt.Errorf("ConversionID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainConversion, canonical), nil
}

// MustHash is like Hash but panics on error.
// Use only in tests or when the pattern is known to be valid.
func MustHash(p *Pattern) string {
	h, err := Hash(p)
	if err != nil {
		panic(err)
	}
	return h
}
