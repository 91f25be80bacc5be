package storage

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// Vault ciphertext is self-describing: "v1:<base64 nonce>:<base64 sealed>".
// The version prefix lets a future format change coexist with old files.
const sealVersion = "v1"

// loadOrCreateKey reads the symmetric vault key from path, generating and
// persisting a fresh one (mode 0600) on first run.
func loadOrCreateKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key, err := hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil || len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("vault key file %s is malformed", path)
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read vault key: %w", err)
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate vault key: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)+"\n"), 0600); err != nil {
		return nil, fmt.Errorf("failed to persist vault key: %w", err)
	}
	return key, nil
}

// seal encrypts plaintext with XChaCha20-Poly1305 under key.
func seal(key, plaintext []byte) (string, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("failed to init cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)
	return sealVersion + ":" +
		base64.StdEncoding.EncodeToString(nonce) + ":" +
		base64.StdEncoding.EncodeToString(sealed), nil
}

// open decrypts a sealed string produced by seal. Any tampering, wrong key,
// or truncation surfaces as an error; open never returns partial data.
func open(key []byte, ciphertext string) ([]byte, error) {
	parts := strings.Split(strings.TrimSpace(ciphertext), ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("vault ciphertext is malformed: expected 3 segments, got %d", len(parts))
	}
	if parts[0] != sealVersion {
		return nil, fmt.Errorf("unsupported vault format version %q", parts[0])
	}

	nonce, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("vault nonce is malformed: %w", err)
	}
	sealed, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("vault payload is malformed: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("vault nonce has wrong size %d", len(nonce))
	}

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("vault decryption failed: %w", err)
	}
	return plaintext, nil
}
