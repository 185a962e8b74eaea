// Package fileutil holds the small file helpers shared by the state store,
// settings writer and export: atomic replacement and bounded reads.
package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/duplifolder/internal/errors"
)

// AtomicWriteFile replaces path with data. The bytes go to a temp file in
// the same directory which is synced and renamed over path, so readers see
// either the old or the new content. The parent directory must exist.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpName, err := writeTemp(dir, data, perm)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "renaming temp file")
	}

	// Persist the rename itself. Not every platform can sync a directory.
	syncDir(dir)
	return nil
}

func writeTemp(dir string, data []byte, perm os.FileMode) (name string, err error) {
	tmp, err := os.CreateTemp(dir, ".duplifolder-*.tmp")
	if err != nil {
		return "", errors.Wrap(err, "creating temp file")
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return "", errors.Wrap(err, "writing temp file")
	}
	if err = tmp.Chmod(perm); err != nil {
		return "", errors.Wrap(err, "setting file permissions")
	}
	if err = tmp.Sync(); err != nil {
		return "", errors.Wrap(err, "syncing temp file")
	}
	if err = tmp.Close(); err != nil {
		return "", errors.Wrap(err, "closing temp file")
	}
	return tmp.Name(), nil
}

func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	d.Close()
}

// AtomicWriteJSON writes v as 2-space indented JSON ending in a newline.
func AtomicWriteJSON(path string, v any, perm os.FileMode) error {
	return atomicEncode(path, perm, "JSON", func() ([]byte, error) {
		return json.MarshalIndent(v, "", "  ")
	})
}

// AtomicWriteYAML writes v as YAML ending in a newline.
func AtomicWriteYAML(path string, v any, perm os.FileMode) error {
	return atomicEncode(path, perm, "YAML", func() (data []byte, err error) {
		// yaml.Marshal panics on values it cannot represent, e.g. funcs.
		defer func() {
			if r := recover(); r != nil {
				err = errors.Newf("%v", r)
			}
		}()
		return yaml.Marshal(v)
	})
}

func atomicEncode(path string, perm os.FileMode, format string, marshal func() ([]byte, error)) error {
	data, err := marshal()
	if err != nil {
		return errors.Wrapf(err, "marshaling %s", format)
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return AtomicWriteFile(path, data, perm)
}
