// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// ErrNotCanonicalizable is returned when a payload is not valid JSON.
var ErrNotCanonicalizable = errors.New("payload is not valid JSON")

// CanonicalJSON re-encodes payload so that equal documents produce equal
// bytes: object keys are sorted, insignificant whitespace is dropped and
// numbers keep their literal form.
func CanonicalJSON(payload []byte) ([]byte, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotCanonicalizable, err)
	}
	if dec.More() {
		return nil, ErrNotCanonicalizable
	}

	// encoding/json writes map keys in sorted order.
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotCanonicalizable, err)
	}
	return out, nil
}

// PayloadHash returns the hex encoded BLAKE2b-256 digest of the canonical
// form of payload. An empty payload hashes to the empty string.
func PayloadHash(payload []byte) (string, error) {
	canonical, err := CanonicalJSON(payload)
	if err != nil {
		return "", err
	}
	if canonical == nil {
		return "", nil
	}

	sum := blake2b.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// PayloadsEqual reports whether a and b are the same JSON document. Payloads
// that are not valid JSON are compared byte-wise.
func PayloadsEqual(a, b []byte) bool {
	ca, errA := CanonicalJSON(a)
	cb, errB := CanonicalJSON(b)
	if errA != nil || errB != nil {
		return bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b))
	}
	return bytes.Equal(ca, cb)
}
