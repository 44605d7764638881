package jsonstore

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"

	"github.com/idilsaglam/feedpager/internal/model"
)

// Export format for fetched records: a single indented JSON array, the same
// shape the endpoint serves. Nothing here is read back by feedpager.

// Write encodes records to w.
func Write(w io.Writer, records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "json marshal")
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		return errors.Wrap(err, "write")
	}
	return nil
}

// Save writes records to path, replacing any existing file. The file is
// written next to its destination first and renamed into place.
func Save(path string, records []model.Record) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".feedpager-*.json")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(err, "chmod")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "rename")
	}
	return nil
}
