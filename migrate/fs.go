package migrate

import (
	"os"
	"path/filepath"
	"strings"
)

// FileSystem is the host's view of the project assets.
type FileSystem interface {
	// Exists reports whether a file or directory exists. A path ending in
	// "/*" exists when its directory does.
	Exists(path string) bool
	Remove(path string) error
	// Refresh tells the host that assets changed on disk.
	Refresh() error
}

// OSFileSystem resolves paths relative to Root, the Unity project directory.
type OSFileSystem struct {
	Root string
	// OnRefresh, if set, is called by Refresh.
	OnRefresh func() error
}

func (f OSFileSystem) abs(p string) string {
	return filepath.Join(f.Root, filepath.FromSlash(p))
}

func (f OSFileSystem) Exists(p string) bool {
	if strings.HasSuffix(p, "/*") {
		fi, err := os.Stat(f.abs(strings.TrimSuffix(p, "/*")))
		return err == nil && fi.IsDir()
	}
	_, err := os.Stat(f.abs(p))
	return err == nil
}

func (f OSFileSystem) Remove(p string) error {
	return os.RemoveAll(f.abs(p))
}

func (f OSFileSystem) Refresh() error {
	if f.OnRefresh == nil {
		return nil
	}
	return f.OnRefresh()
}
