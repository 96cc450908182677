package utils

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestKey(t *testing.T) {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	t.Setenv("ENCRYPTION_KEY", base64.StdEncoding.EncodeToString(key))
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	setTestKey(t)

	ciphertext, err := Encrypt("sarah@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "sarah@example.com", ciphertext)

	plaintext, err := Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "sarah@example.com", plaintext)
}

func TestEncryptRequiresKey(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "")
	_, err := Encrypt("secret")
	assert.Error(t, err)
}

func TestEncryptOptionalWithoutKeyPassesThrough(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "")
	assert.Equal(t, "sarah@example.com", EncryptOptional("sarah@example.com"))
	assert.Equal(t, "sarah@example.com", DecryptOptional("sarah@example.com"))
}

func TestEncryptOptionalWithKey(t *testing.T) {
	setTestKey(t)

	stored := EncryptOptional("sarah@example.com")
	assert.NotEqual(t, "sarah@example.com", stored)
	assert.Equal(t, "sarah@example.com", DecryptOptional(stored))
}

func TestDecryptOptionalKeepsPreKeyValues(t *testing.T) {
	// Rows written before a key was configured hold plaintext; reads must
	// not mangle them once a key appears.
	setTestKey(t)
	assert.Equal(t, "james@example.com", DecryptOptional("james@example.com"))
}

func TestEmptyValues(t *testing.T) {
	setTestKey(t)
	assert.Equal(t, "", EncryptOptional(""))
	assert.Equal(t, "", DecryptOptional(""))
}
