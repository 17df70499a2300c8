// Package store persists encrypted inventory snapshots to local storage.
package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// PasswordMinLength is the minimum required password length.
	PasswordMinLength = 8
	// saltLength is the length of the random salt for key derivation.
	saltLength = 32
	// nonceLength is the standard GCM nonce size.
	nonceLength = 12
	// kdfIterations is the PBKDF2-SHA256 iteration count (NIST SP 800-132).
	kdfIterations = 100000
	// keyLength is the AES-256 key size.
	keyLength = 32
)

// fileMagic identifies a ToluStock store file.
const fileMagic = "TSTOCK"

// fileFormatVersion is the store container format written by this build.
// Distinct from the snapshot schema version carried inside the payload.
const fileFormatVersion = 1

// sealPayload encrypts the payload with AES-256-GCM under a key derived
// from the password. The password itself is never stored; the returned
// bytes are [magic][version][salt len][salt][nonce len][nonce][ciphertext].
func sealPayload(payload []byte, password string) ([]byte, error) {
	if len(password) < PasswordMinLength {
		return nil, fmt.Errorf("password must be at least %d characters", PasswordMinLength)
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	gcm, err := newGCM(password, salt)
	if err != nil {
		return nil, err
	}
	ciphertext := gcm.Seal(nil, nonce, payload, nil)

	out := make([]byte, 0, len(fileMagic)+3+len(salt)+len(nonce)+len(ciphertext))
	out = append(out, fileMagic...)
	out = append(out, fileFormatVersion)
	out = append(out, byte(len(salt)))
	out = append(out, salt...)
	out = append(out, byte(len(nonce)))
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// errWrongKey marks a GCM authentication failure so Load can distinguish a
// wrong password or tampered ciphertext from a malformed container.
type errWrongKey struct{ err error }

func (e *errWrongKey) Error() string { return fmt.Sprintf("authentication failed: %v", e.err) }
func (e *errWrongKey) Unwrap() error { return e.err }

// errBadContainer marks a structurally invalid store file.
type errBadContainer struct{ reason string }

func (e *errBadContainer) Error() string { return e.reason }

// openPayload parses the container and decrypts the payload.
func openPayload(data []byte, password string) ([]byte, error) {
	if len(data) < len(fileMagic)+1 || string(data[:len(fileMagic)]) != fileMagic {
		return nil, &errBadContainer{reason: "not a ToluStock store file"}
	}
	rest := data[len(fileMagic):]

	version := rest[0]
	if version != fileFormatVersion {
		return nil, &errBadContainer{reason: fmt.Sprintf("unsupported store format version %d", version)}
	}
	rest = rest[1:]

	salt, rest, err := readLengthPrefixed(rest, "salt")
	if err != nil {
		return nil, err
	}
	nonce, rest, err := readLengthPrefixed(rest, "nonce")
	if err != nil {
		return nil, err
	}
	if len(nonce) != nonceLength {
		return nil, &errBadContainer{reason: fmt.Sprintf("unexpected nonce length %d", len(nonce))}
	}

	gcm, err := newGCM(password, salt)
	if err != nil {
		return nil, err
	}
	payload, err := gcm.Open(nil, nonce, rest, nil)
	if err != nil {
		// GCM failure means wrong password or tampered ciphertext.
		return nil, &errWrongKey{err: err}
	}
	return payload, nil
}

// newGCM derives the AES-256 key with PBKDF2-SHA256 and builds the cipher.
func newGCM(password string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(password), salt, kdfIterations, keyLength, sha256.New)
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

// readLengthPrefixed consumes one [len byte][bytes] field.
func readLengthPrefixed(data []byte, field string) (value, rest []byte, err error) {
	if len(data) < 1 {
		return nil, nil, &errBadContainer{reason: fmt.Sprintf("truncated before %s", field)}
	}
	n := int(data[0])
	data = data[1:]
	if len(data) < n {
		return nil, nil, &errBadContainer{reason: fmt.Sprintf("truncated %s", field)}
	}
	return data[:n], data[n:], nil
}
