// Package credentials resolves API token secrets, transparently
// decrypting values stored with the envelope format
// "enc:v1:<iv>.<tag>.<ciphertext>" (base64url parts, AES-256-GCM,
// key derived from the configured passphrase with SHA-256).
package credentials

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const encryptedPrefix = "enc:v1:"

var (
	ErrCiphertextNotValid = errors.New("ciphertext is not valid")
)

type Codec struct {
	key []byte // nil means passthrough
}

// NewCodec derives a stable 32 byte key from the passphrase. An empty
// passphrase disables encryption: values pass through unchanged.
func NewCodec(passphrase string) *Codec {
	passphrase = strings.TrimSpace(passphrase)
	if passphrase == "" {
		return &Codec{}
	}
	key := sha256.Sum256([]byte(passphrase))
	return &Codec{key: key[:]}
}

func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, encryptedPrefix)
}

func (c *Codec) Encrypt(value string) (encrypted string, err error) {
	if value == "" || c.key == nil || IsEncrypted(value) {
		return value, nil
	}

	aead, err := newAEAD(c.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	_, err = rand.Read(nonce)
	if err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := aead.Seal(nil, nonce, []byte(value), nil)
	tagStart := len(sealed) - aead.Overhead()
	ciphertext, tag := sealed[:tagStart], sealed[tagStart:]

	encoding := base64.RawURLEncoding
	return encryptedPrefix + encoding.EncodeToString(nonce) +
		"." + encoding.EncodeToString(tag) +
		"." + encoding.EncodeToString(ciphertext), nil
}

func (c *Codec) Decrypt(value string) (decrypted string, err error) {
	if !IsEncrypted(value) {
		return value, nil
	}
	if c.key == nil {
		return "", fmt.Errorf("%w: value is encrypted but no key is configured",
			ErrCiphertextNotValid)
	}

	payload := strings.TrimPrefix(value, encryptedPrefix)
	parts := strings.Split(payload, ".")
	const payloadParts = 3
	if len(parts) != payloadParts {
		return "", fmt.Errorf("%w: expected %d dot separated parts, got %d",
			ErrCiphertextNotValid, payloadParts, len(parts))
	}

	encoding := base64.RawURLEncoding
	nonce, err := encoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("%w: decoding nonce: %w", ErrCiphertextNotValid, err)
	}
	tag, err := encoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: decoding tag: %w", ErrCiphertextNotValid, err)
	}
	ciphertext, err := encoding.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("%w: decoding ciphertext: %w", ErrCiphertextNotValid, err)
	}

	aead, err := newAEAD(c.key)
	if err != nil {
		return "", err
	}

	// Open panics on a wrong sized nonce instead of erroring.
	if len(nonce) != aead.NonceSize() {
		return "", fmt.Errorf("%w: nonce is %d bytes instead of %d",
			ErrCiphertextNotValid, len(nonce), aead.NonceSize())
	}
	if len(tag) != aead.Overhead() {
		return "", fmt.Errorf("%w: tag is %d bytes instead of %d",
			ErrCiphertextNotValid, len(tag), aead.Overhead())
	}

	plaintext, err := aead.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCiphertextNotValid, err)
	}
	return string(plaintext), nil
}

func newAEAD(key []byte) (aead cipher.AEAD, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err = cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return aead, nil
}
