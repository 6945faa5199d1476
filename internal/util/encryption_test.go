package util

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, SealKeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestSealUnseal(t *testing.T) {
	key := testKey(t)

	t.Run("round trip", func(t *testing.T) {
		sealed, err := Seal(key, "eyJhbGciOiJIUzI1NiJ9.token")
		require.NoError(t, err)
		assert.NotEqual(t, "eyJhbGciOiJIUzI1NiJ9.token", sealed)

		token, err := Unseal(key, sealed)
		require.NoError(t, err)
		assert.Equal(t, "eyJhbGciOiJIUzI1NiJ9.token", token)
	})

	t.Run("distinct nonce per call", func(t *testing.T) {
		a, err := Seal(key, "same input")
		require.NoError(t, err)
		b, err := Seal(key, "same input")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("wrong key fails", func(t *testing.T) {
		sealed, err := Seal(key, "secret")
		require.NoError(t, err)

		_, err = Unseal(testKey(t), sealed)
		assert.Error(t, err)
	})

	t.Run("short key rejected", func(t *testing.T) {
		_, err := Seal([]byte("short"), "secret")
		assert.Error(t, err)
	})

	t.Run("garbage payload rejected", func(t *testing.T) {
		_, err := Unseal(key, "not base64!!")
		assert.Error(t, err)
	})

	t.Run("truncated payload rejected", func(t *testing.T) {
		_, err := Unseal(key, "AAAA")
		assert.Error(t, err)
	})
}
