package file

import (
	"fmt"
	"os"

	"github.com/mensylisir/xmansible/common"
)

// PathExists checks if a path exists.
// It distinguishes between "not exist" and other errors. If an error other than "not exist" occurs,
// it returns false and the error.
func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// CreateDir creates a directory and all its parents if they don't exist.
// It uses common.FileMode0755 for directory permissions.
func CreateDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("path %s exists but is not a directory", path)
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(path, common.FileMode0755)
	}

	return fmt.Errorf("failed to check directory %s: %w", path, err)
}

// WriteTempFile creates a new file in dir (created if missing) whose name
// matches pattern as in os.CreateTemp, writes content to it with mode perm
// and returns its path. On any error the partially written file is removed.
func WriteTempFile(dir, pattern string, content []byte, perm os.FileMode) (string, error) {
	if dir != "" {
		if err := CreateDir(dir); err != nil {
			return "", err
		}
	}

	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file in %q: %w", dir, err)
	}
	path := f.Name()

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write temp file %s: %w", path, err)
	}
	if err := f.Chmod(perm); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to chmod temp file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close temp file %s: %w", path, err)
	}
	return path, nil
}

// RemoveIfExists deletes path. A path that is already gone is not an error.
func RemoveIfExists(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
