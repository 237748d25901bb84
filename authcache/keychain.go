// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package authcache

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const saltLen = 16

// keychain encrypts credential payloads at rest with a key derived from
// the user passphrase.
type keychain struct {
	passphrase string

	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. mobile vs. desktop).
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// newKeychain constructs a keychain with the Argon2id parameters
// recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func newKeychain(passphrase string) *keychain {
	return &keychain{
		passphrase:   passphrase,
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
}

// seal encrypts plaintext with AES-256-GCM under a key derived from the
// passphrase and a fresh random salt. The output layout is
// salt ‖ nonce ‖ ciphertext so that open can recover both without any
// side channel.
func (k *keychain) seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	gcm, err := k.newGCM(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	blob := make([]byte, 0, saltLen+len(nonce)+len(plaintext)+gcm.Overhead())
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	return gcm.Seal(blob, nonce, plaintext, nil), nil
}

// open decrypts a blob produced by seal. Returns an error if the blob is
// too short, the passphrase is wrong, or the ciphertext is corrupted
// (authentication-tag mismatch).
func (k *keychain) open(blob []byte) ([]byte, error) {
	if len(blob) < saltLen {
		return nil, fmt.Errorf("ciphertext too short")
	}
	salt, rest := blob[:saltLen], blob[saltLen:]

	gcm, err := k.newGCM(salt)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(rest) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := rest[:nonceSize], rest[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt credentials: %w", err)
	}
	return plaintext, nil
}

func (k *keychain) newGCM(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(
		[]byte(k.passphrase),
		salt,
		k.argonTime,
		k.argonMemory,
		k.argonThreads,
		k.argonKeyLen,
	)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
