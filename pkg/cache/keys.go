package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Canonical serializes params with a stable key order so that equal
// parameter sets always produce identical bytes. Struct params are
// round-tripped through a map because encoding/json sorts map keys.
func Canonical(params interface{}) ([]byte, error) {
	if params == nil {
		return []byte("{}"), nil
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("canonical marshal: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		// Non-object params (scalars, arrays) are already stable.
		return raw, nil
	}
	out, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("canonical remarshal: %w", err)
	}
	return out, nil
}

// Key derives the deterministic cache key for (ticker, stage, params).
// Identical inputs always yield the same key; no date component is
// embedded, so staleness is governed by TTLs alone.
func Key(ticker, stage string, params interface{}) (string, error) {
	canon, err := Canonical(params)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(ticker))
	h.Write([]byte{'|'})
	h.Write([]byte(stage))
	h.Write([]byte{'|'})
	h.Write(canon)
	return hex.EncodeToString(h.Sum(nil)), nil
}
