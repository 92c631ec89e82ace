package crypto

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "4c0883a69102937d6231471b5dbb6204fe512961708279f1d7b1b8e3e2a4c5d6"

func TestEncryptDecryptRoundtrip(t *testing.T) {
	blob, err := EncryptKey(testKeyHex, "correct horse battery staple")
	require.NoError(t, err)
	assert.NotContains(t, string(blob), testKeyHex, "plaintext key must not appear in the blob")

	got, err := DecryptKey(blob, "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, testKeyHex, got)
}

func TestDecryptWrongPassword(t *testing.T) {
	blob, err := EncryptKey(testKeyHex, "right")
	require.NoError(t, err)

	_, err = DecryptKey(blob, "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decryption failed")
}

func TestEncryptKeyRejectsBadInput(t *testing.T) {
	_, err := EncryptKey(testKeyHex, "")
	assert.Error(t, err, "empty password")

	_, err = EncryptKey("zzzz", "pw")
	assert.Error(t, err, "non-hex key")

	_, err = EncryptKey("abcd", "pw")
	assert.Error(t, err, "key shorter than 32 bytes")
}

func TestResolveKeyRawTakesPriority(t *testing.T) {
	got, err := ResolveKey(KeySource{RawPrivateKey: "0x" + testKeyHex, EncryptedKeyPath: "/nonexistent"})
	require.NoError(t, err)
	assert.Equal(t, testKeyHex, got, "0x prefix stripped, file never touched")
}

func TestResolveKeyRejectsNonHexRaw(t *testing.T) {
	_, err := ResolveKey(KeySource{RawPrivateKey: "not hex"})
	assert.Error(t, err)
}

func TestResolveKeyFromEncryptedFile(t *testing.T) {
	blob, err := EncryptKey(testKeyHex, "pw")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, blob, 0o600))

	got, err := ResolveKey(KeySource{EncryptedKeyPath: path, KeyPassword: "pw"})
	require.NoError(t, err)
	assert.Equal(t, testKeyHex, got)
}

func TestResolveKeyNoSource(t *testing.T) {
	_, err := ResolveKey(KeySource{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no private key source"))
}
