package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed fingerprints. The version suffix
// leaves room for algorithm migration.
const (
	DomainPlan     = "relcore/plan/v1"
	DomainRelation = "relcore/relation/v1"
)

// HashWithDomain computes SHA-256 over domain || 0x00 || data. The null
// separator removes domain/data boundary ambiguity.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RelationFingerprint returns a stable content hash of a relation. Equal
// relations always share a fingerprint; the converse does not hold, since
// the canonical encoding NFC-normalizes strings while Equal compares them
// byte for byte.
func RelationFingerprint(r Relation) (string, error) {
	canonical, err := MarshalCanonical(r)
	if err != nil {
		return "", fmt.Errorf("relation fingerprint: %w", err)
	}
	return HashWithDomain(DomainRelation, canonical), nil
}

// MustRelationFingerprint is RelationFingerprint for inputs known valid.
func MustRelationFingerprint(r Relation) string {
	fp, err := RelationFingerprint(r)
	if err != nil {
		panic(err)
	}
	return fp
}
