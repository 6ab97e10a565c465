package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDShape(t *testing.T) {
	value, err := NewID()
	require.NoError(t, err)
	assert.Len(t, value, 26)
	assert.Regexp(t, `^[a-z2-7]+$`, value)

	raw, err := encoding.DecodeString(strings.ToUpper(value))
	require.NoError(t, err)
	require.Len(t, raw, 16)
	assert.Equal(t, byte(4), raw[6]>>4, "uuid version")
	assert.Equal(t, byte(0x80), raw[8]&0xc0, "uuid variant")
}

func TestNewIDIsUnique(t *testing.T) {
	seen := make(map[string]struct{}, 500)
	for range 500 {
		value, err := NewID()
		require.NoError(t, err)
		_, dup := seen[value]
		require.False(t, dup, "duplicate id %s", value)
		seen[value] = struct{}{}
	}
}
