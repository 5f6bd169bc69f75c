package ir

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainClause   = "minidsl/clause/v1"
	DomainSnapshot = "minidsl/snapshot/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ClauseHash computes the content-addressed hash of a canonical clause string.
// The string is NFC normalized first, so clauses that differ only in Unicode
// composition hash identically. Equal canonical strings always hash equally.
func ClauseHash(canonical string) string {
	return hashWithDomain(DomainClause, []byte(norm.NFC.String(canonical)))
}

// SnapshotHash computes the content-addressed hash of a serialized filter set.
// data must already be canonical JSON (see MarshalCanonical).
func SnapshotHash(data []byte) string {
	return hashWithDomain(DomainSnapshot, data)
}
