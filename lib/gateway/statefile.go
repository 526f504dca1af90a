// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sikuli-go/sikuli/lib/codec"
)

// record is the on-disk description of a running backend, one file
// per port.
type record struct {
	PID       int       `cbor:"pid"`
	Port      int       `cbor:"port"`
	StartedAt time.Time `cbor:"started_at"`
	Argv      []string  `cbor:"argv"`
	Jar       string    `cbor:"jar,omitempty"`
	Digest    string    `cbor:"digest,omitempty"`
}

// writeRecord replaces the file at path with rec. The data is written
// to a sibling temporary file, synced, and renamed, so readers see
// either the old record or the new one.
func writeRecord(path string, rec record) error {
	data, err := codec.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding gateway record: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	temporary, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary record: %w", err)
	}
	temporaryPath := temporary.Name()
	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary record: %w", err)
	}
	if err := temporary.Sync(); err != nil {
		temporary.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary record: %w", err)
	}
	if err := temporary.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary record: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming record into place: %w", err)
	}

	if parent, err := os.Open(dir); err == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}

// readRecord loads the record at path. A missing file returns an error
// satisfying errors.Is(err, os.ErrNotExist).
func readRecord(path string) (record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return record{}, err
	}
	var rec record
	if err := codec.Unmarshal(data, &rec); err != nil {
		return record{}, fmt.Errorf("decoding gateway record %s%s: %w", path, diagnosis(data), err)
	}
	if rec.PID <= 0 {
		return record{}, fmt.Errorf("gateway record %s has no pid%s", path, diagnosis(data))
	}
	return rec, nil
}

// diagnosis renders well-formed CBOR that is not a record, so the
// warning logged for a discarded file shows what was in it.
func diagnosis(data []byte) string {
	const limit = 120
	text, err := codec.Diagnose(data)
	if err != nil {
		return ""
	}
	if len(text) > limit {
		text = text[:limit] + "..."
	}
	return " (contents " + text + ")"
}

// removeRecord deletes the record. A missing file is not an error.
func removeRecord(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing gateway record: %w", err)
	}
	return nil
}
