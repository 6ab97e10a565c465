// Package id generates opaque identifiers for stories, units and labels.
package id

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a random version 4 UUID encoded as lowercase unpadded base32,
// 26 characters that are safe inside URL path segments.
func NewID() (string, error) {
	var raw [16]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	raw[6] = raw[6]&0x0f | 0x40
	raw[8] = raw[8]&0x3f | 0x80
	return strings.ToLower(encoding.EncodeToString(raw[:])), nil
}
