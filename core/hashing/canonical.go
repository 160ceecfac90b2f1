// Package hashing provides canonical serialization, content hashing, and
// audit-trace construction for the pricing pipeline.
package hashing

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"part-cost/internal/errors"
)

// Canonicalize serializes a value to JSON with its top-level object keys
// sorted. Nested objects keep their marshal order: cache-key stability
// depends on this staying shallow, so deepening the sort is a breaking
// change for every stored key.
func Canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Internal("canonicalize input", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return nil, errors.Internal("canonicalize top-level object", err)
	}

	keys := make([]string, 0, len(top))
	for k := range top {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, errors.Internal("canonicalize key", err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(top[k])
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Hash returns the lowercase SHA-256 hex digest of the canonical form of v.
func Hash(v any) string {
	canonical, err := Canonicalize(v)
	if err != nil {
		// Unmarshalable inputs (channels, cycles) do not occur in the
		// pipeline; hash the error text so the failure is still stable.
		canonical = []byte(err.Error())
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
