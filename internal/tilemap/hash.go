package tilemap

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed fingerprints. The version suffix
// leaves room for future algorithm migration.
const (
	DomainMap    = "automap/map/v1"
	DomainConfig = "automap/config/v1"
)

// Fingerprint computes a domain-separated SHA-256 over data.
// Format: SHA256(domain + 0x00 + data). The null separator prevents
// domain/data boundary ambiguity.
func Fingerprint(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// MapFingerprint computes the content fingerprint of a map.
// The fingerprint is stable across load/save round trips because it is
// taken over canonical JSON, not the on-disk document.
func MapFingerprint(m *Map) (string, error) {
	canonical, err := CanonicalJSON(m)
	if err != nil {
		return "", fmt.Errorf("map fingerprint: %w", err)
	}
	return Fingerprint(DomainMap, canonical), nil
}

// MustMapFingerprint is like MapFingerprint but panics on error.
// Use only in tests or when the map is known to be valid.
func MustMapFingerprint(m *Map) string {
	fp, err := MapFingerprint(m)
	if err != nil {
		panic(err)
	}
	return fp
}
