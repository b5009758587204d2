package store

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/telephono/persistent-loadout/internal/models"
)

// readFile returns the file content, or nil with exists=false if the file
// does not exist.
func readFile(path string) (data []byte, exists bool, err error) {
	data, err = os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, models.IOError(path, err)
	}
	return data, true, nil
}

// writeAtomic replaces path with data. The content goes to a temp file
// first and is renamed over the target, so readers see either the old or
// the new file, never a partial one.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return models.IOError(path, err)
	}

	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return models.IOError(tmpPath, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return models.IOError(tmpPath, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return models.IOError(tmpPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return models.IOError(tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return models.IOError(path, err)
	}
	return nil
}
