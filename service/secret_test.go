package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretBox_RoundTrip(t *testing.T) {
	box := NewSecretBox("unit-test-key")

	sealed, err := box.Seal("Commercial Bank 8001234567")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "8001234567")

	plain, err := box.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "Commercial Bank 8001234567", plain)

	// 每次加密的 nonce 不同
	again, _ := box.Seal("Commercial Bank 8001234567")
	assert.NotEqual(t, sealed, again)
}

func TestSecretBox_WrongKey(t *testing.T) {
	sealed, err := NewSecretBox("key-a").Seal("secret")
	require.NoError(t, err)

	_, err = NewSecretBox("key-b").Open(sealed)
	assert.Error(t, err)
}

func TestSecretBox_MissingKey(t *testing.T) {
	box := NewSecretBox("")

	_, err := box.Seal("secret")
	assert.ErrorIs(t, err, ErrSecretKeyMissing)

	// 空值不需要密钥
	out, err := box.Seal("")
	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestSecretBox_Malformed(t *testing.T) {
	box := NewSecretBox("k")
	_, err := box.Open("not base64!!")
	assert.Error(t, err)
	_, err = box.Open("c2hvcnQ=")
	assert.Error(t, err)
}
