// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package credstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

const (
	kdfIterations = 600_000
	kdfKeyLength  = 32
	kdfHashFunc   = "sha512"
	saltLength    = 16
)

// envelope is the on-disk form of the credentials file: the KDF parameters
// in the clear, the credentials JSON sealed.
type envelope struct {
	KDF struct {
		Salt       string `json:"salt"`
		Iterations int    `json:"iterations"`
		HashFunc   string `json:"hash_function"`
		KeyLength  int    `json:"key_length"`
	} `json:"kdf"`
	EncryptedData string `json:"encrypted_data"`
}

// Path returns the credentials file location under the user config dir.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "orgctl", "credentials.json"), nil
}

// Decrypt unseals an encrypted credentials document using the provided
// passphrase.
func Decrypt(data []byte, passphrase string) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	if env.KDF.HashFunc != kdfHashFunc {
		return nil, fmt.Errorf("unsupported hash function %q", env.KDF.HashFunc)
	}

	salt, err := base64.StdEncoding.DecodeString(env.KDF.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	sealed, err := base64.StdEncoding.DecodeString(env.EncryptedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	// The file's own KDF parameters govern, so already-written files keep
	// decrypting after the defaults change.
	gcm, err := newGCM(deriveKey(passphrase, salt, env.KDF.Iterations, env.KDF.KeyLength))
	if err != nil {
		return nil, err
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, fmt.Errorf(
			"ciphertext too short: expected at least %d bytes, got %d",
			gcm.NonceSize(), len(sealed))
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plain, nil
}

// Encrypt seals a credentials document under a fresh salt and nonce.
func Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := newGCM(deriveKey(passphrase, salt, kdfIterations, kdfKeyLength))
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// The nonce rides in front of the ciphertext.
	sealed := gcm.Seal(nonce, nonce, plaintext, nil)

	var env envelope
	env.KDF.Salt = base64.StdEncoding.EncodeToString(salt)
	env.KDF.Iterations = kdfIterations
	env.KDF.HashFunc = kdfHashFunc
	env.KDF.KeyLength = kdfKeyLength
	env.EncryptedData = base64.StdEncoding.EncodeToString(sealed)

	return json.MarshalIndent(env, "", "  ")
}

// Save merges the given fields into the service's section of the credentials
// file, creating the file if needed, and returns the path written.
func Save(passphrase, service string, fields map[string]string) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	store := map[string]map[string]string{}
	if data, err := os.ReadFile(path); err == nil {
		plain, err := Decrypt(data, passphrase)
		if err != nil {
			return "", fmt.Errorf("failed to decrypt %s: %w", path, err)
		}
		if err := json.Unmarshal(plain, &store); err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	if store[service] == nil {
		store[service] = map[string]string{}
	}
	for k, v := range fields {
		store[service][k] = v
	}

	plain, err := json.Marshal(store)
	if err != nil {
		return "", err
	}

	sealed, err := Encrypt(plain, passphrase)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, sealed, 0o600); err != nil {
		return "", err
	}

	return path, nil
}

func deriveKey(passphrase string, salt []byte, iterations, length int) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, iterations, length, sha512.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
