package store

import (
	"encoding/json"
	goerrors "errors"
	"os"
	"path/filepath"

	"github.com/tolaoye/tolustock/internal/errors"
	"github.com/tolaoye/tolustock/internal/models"
)

// Save serializes and encrypts the snapshot, then writes it atomically:
// the bytes go to a temp file in the same directory which is renamed over
// the target, so a crash mid-write never corrupts the prior durable copy.
func Save(path string, snap *models.InventorySnapshot, password string) error {
	if snap == nil {
		return errors.New(errors.ErrValidation, "snapshot must not be nil")
	}
	if err := snap.Validate(); err != nil {
		return errors.Wrap(errors.ErrValidation, "snapshot failed invariant check", err)
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "failed to encode snapshot", err)
	}
	sealed, err := sealPayload(payload, password)
	if err != nil {
		return errors.Wrap(errors.ErrValidation, "failed to encrypt snapshot", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrIO, "failed to create store directory", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(errors.ErrIO, "failed to create temp file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(sealed); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(errors.ErrIO, "failed to write snapshot", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(errors.ErrIO, "failed to sync snapshot", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(errors.ErrIO, "failed to close temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(errors.ErrIO, "failed to replace store file", err)
	}
	return nil
}

// Load reads and decrypts a snapshot from disk. A wrong password or
// tampered ciphertext surfaces as a decryption error; a malformed
// container, unknown schema version or violated snapshot invariant
// surfaces as a format error. The caller's state is never touched.
func Load(path, password string) (*models.InventorySnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrIO, "failed to read store file", err)
	}

	payload, err := openPayload(data, password)
	if err != nil {
		var wrongKey *errWrongKey
		if goerrors.As(err, &wrongKey) {
			return nil, errors.Wrap(errors.ErrDecryption, "wrong password or corrupted ciphertext", err)
		}
		return nil, errors.Wrap(errors.ErrFormat, "malformed store file", err)
	}

	var snap models.InventorySnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, errors.Wrap(errors.ErrFormat, "failed to decode snapshot payload", err)
	}
	if snap.SchemaVersion != models.CurrentSchemaVersion {
		return nil, errors.Newf(errors.ErrFormat, "unsupported snapshot schema version %d", snap.SchemaVersion)
	}
	if err := snap.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrFormat, "snapshot failed invariant check", err)
	}
	return &snap, nil
}
