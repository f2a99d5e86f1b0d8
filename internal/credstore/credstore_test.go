// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package credstore

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEncryptDecrypt_RoundTrip verifies that a sealed document decrypts back
// to the original plaintext with the right passphrase.
func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	t.Parallel()
	passphrase := "test-passphrase"
	plaintext := []byte(`{"github":{"token":"ghp_abc123"}}`)

	sealed, err := Encrypt(plaintext, passphrase)
	require.NoError(t, err)

	result, err := Decrypt(sealed, passphrase)

	assert.NoError(t, err)
	assert.Equal(t, plaintext, result)
}

// TestDecrypt_WrongPassphrase verifies that decryption fails with the wrong
// passphrase.
func TestDecrypt_WrongPassphrase(t *testing.T) {
	t.Parallel()
	sealed, err := Encrypt([]byte(`{}`), "correct-passphrase")
	require.NoError(t, err)

	_, err = Decrypt(sealed, "wrong-passphrase")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decrypt")
}

// TestDecrypt_InvalidJSON verifies that a non-JSON credentials file returns
// an error.
func TestDecrypt_InvalidJSON(t *testing.T) {
	t.Parallel()
	result, err := Decrypt([]byte("not valid json"), "passphrase")

	assert.Error(t, err)
	assert.Nil(t, result)
}

// TestDecrypt_UnsupportedHashFunction verifies that an envelope declaring an
// unknown KDF hash is rejected rather than silently misread.
func TestDecrypt_UnsupportedHashFunction(t *testing.T) {
	t.Parallel()
	sealed, err := Encrypt([]byte(`{}`), "passphrase")
	require.NoError(t, err)

	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(sealed, &env))
	env["kdf"].(map[string]interface{})["hash_function"] = "md5"

	tampered, err := json.Marshal(env)
	require.NoError(t, err)

	_, err = Decrypt(tampered, "passphrase")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "hash function")
}

// TestDecrypt_CorruptedCiphertext verifies error on truncated ciphertext.
func TestDecrypt_CorruptedCiphertext(t *testing.T) {
	t.Parallel()
	sealed, err := Encrypt([]byte(`{"a":"b"}`), "passphrase")
	require.NoError(t, err)

	var env struct {
		KDF           json.RawMessage `json:"kdf"`
		EncryptedData string          `json:"encrypted_data"`
	}
	require.NoError(t, json.Unmarshal(sealed, &env))
	env.EncryptedData = env.EncryptedData[:len(env.EncryptedData)-10]

	corrupted, err := json.Marshal(env)
	require.NoError(t, err)

	result, err := Decrypt(corrupted, "passphrase")

	assert.Error(t, err)
	assert.Nil(t, result)
}

// TestSave_CreatesAndMerges verifies that Save creates the credentials file
// with tight permissions and merges fields across calls.
func TestSave_CreatesAndMerges(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := Save("pass", "github", map[string]string{"token": "ghp_abc"})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Second service lands in the same file without clobbering the first.
	_, err = Save("pass", "bitwarden", map[string]string{
		"client_id":     "organization.xyz",
		"client_secret": "shhh",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	plain, err := Decrypt(data, "pass")
	require.NoError(t, err)

	var store map[string]map[string]string
	require.NoError(t, json.Unmarshal(plain, &store))
	assert.Equal(t, "ghp_abc", store["github"]["token"])
	assert.Equal(t, "organization.xyz", store["bitwarden"]["client_id"])
	assert.Equal(t, "shhh", store["bitwarden"]["client_secret"])
}

// TestSave_WrongPassphraseOnExisting verifies that Save refuses to clobber a
// file it cannot decrypt.
func TestSave_WrongPassphraseOnExisting(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := Save("pass", "github", map[string]string{"token": "ghp_abc"})
	require.NoError(t, err)

	_, err = Save("other", "github", map[string]string{"token": "ghp_def"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decrypt")
}

// TestGitHubToken_EnvWins verifies GITHUB_TOKEN short-circuits the file.
func TestGitHubToken_EnvWins(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "ghp_env")

	token, err := GitHubToken(nil)

	assert.NoError(t, err)
	assert.Equal(t, "ghp_env", token)
}

// TestGitHubToken_FromStore verifies the encrypted file is consulted when
// the environment is empty.
func TestGitHubToken_FromStore(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("ORGCTL_PASSPHRASE", "pass")

	_, err := Save("pass", "github", map[string]string{"token": "ghp_stored"})
	require.NoError(t, err)

	token, err := GitHubToken(nil)

	assert.NoError(t, err)
	assert.Equal(t, "ghp_stored", token)
}

// TestGitHubToken_NothingConfigured verifies the error names both sources.
func TestGitHubToken_NothingConfigured(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")

	_, err := GitHubToken(nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
	assert.Contains(t, err.Error(), "orgctl auth github")
}

// TestBitwardenCredentials_MixedSources verifies the two halves of the key
// pair may come from different sources.
func TestBitwardenCredentials_MixedSources(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ORGCTL_PASSPHRASE", "pass")
	t.Setenv("BITWARDEN_CLIENT_ID", "organization.env")
	t.Setenv("BITWARDEN_CLIENT_SECRET", "")

	_, err := Save("pass", "bitwarden", map[string]string{"client_secret": "stored-secret"})
	require.NoError(t, err)

	creds, err := BitwardenCredentials(nil)

	assert.NoError(t, err)
	assert.Equal(t, "organization.env", creds.ClientID)
	assert.Equal(t, "stored-secret", creds.ClientSecret)
}

// TestBitwardenCredentials_MissingHalf verifies the error names the missing
// variable.
func TestBitwardenCredentials_MissingHalf(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("BITWARDEN_CLIENT_ID", "organization.env")
	t.Setenv("BITWARDEN_CLIENT_SECRET", "")

	_, err := BitwardenCredentials(nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "BITWARDEN_CLIENT_SECRET")
}

// TestResolvePassphrase_Env verifies the environment fallback with no flag.
func TestResolvePassphrase_Env(t *testing.T) {
	t.Setenv("ORGCTL_PASSPHRASE", "from-env")

	passphrase, err := ResolvePassphrase(nil)

	assert.NoError(t, err)
	assert.Equal(t, "from-env", passphrase)
}
