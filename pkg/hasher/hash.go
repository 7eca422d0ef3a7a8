package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// SumBytes возвращает SHA-256 хэш в виде hex.
func SumBytes(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// SumJSON hashes the JSON encoding of v. encoding/json sorts map keys, so
// equal values always give the same digest.
func SumJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hasher: marshal: %w", err)
	}
	return SumBytes(b), nil
}

// Short returns the first n hex characters of a digest.
func Short(digest string, n int) string {
	if n <= 0 || n >= len(digest) {
		return digest
	}
	return digest[:n]
}
