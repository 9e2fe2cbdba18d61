// Package storage provides atomic JSON files and file locks for the state
// kept in ~/.prj/ (registry and recent-project history).
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// EnvHome overrides the state directory.
const EnvHome = "PRJ_HOME"

// StateDir returns $PRJ_HOME or ~/.prj/, creating it if needed.
func StateDir() (string, error) {
	dir := os.Getenv(EnvHome)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".prj")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// StateFile returns the path of name inside StateDir.
func StateFile(name string) (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// SaveJSON writes data as indented JSON to path. The data goes to a temp file
// in the same directory first, so readers never see a partial file.
func SaveJSON(path string, data any) error {
	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(buf, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadJSON decodes the JSON file at path into dest.
// A missing file is reported as an os.ErrNotExist error for the caller to handle.
func LoadJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
