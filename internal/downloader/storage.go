package downloader

import (
	"errors"
	"path/filepath"
)

// DefaultSubdir is the folder under the files dir that holds downloaded audio.
const DefaultSubdir = "media_cache"

// Dir is a StorageLocationProvider backed by a fixed directory.
type Dir string

func (d Dir) FilesDir() (string, error) {
	if d == "" {
		return "", errors.New("storage directory is not configured")
	}
	return filepath.Abs(string(d))
}
