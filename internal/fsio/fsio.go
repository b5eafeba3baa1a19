package fsio

import (
	"io/fs"
	"os"
)

// Stat holds the filesystem metadata tracked for a snapshot node.
// Creation falls back to the modification time on platforms without a ctime.
type Stat struct {
	Size         int64
	Creation     int64 // unix seconds
	Modification int64 // unix seconds
	UID          uint32
	GID          uint32
	Perm         fs.FileMode
}

// FS abstracts the filesystem operations the snapshot core depends on.
type FS interface {
	Exists(path string) bool
	IsSymlink(path string) bool
	IsDir(path string) bool
	ListEntries(path string) ([]string, error)
	Stat(path string) (Stat, error)
	ReadFile(path string) ([]byte, error)
}

// OS is the production implementation of FS using the standard library.
type OS struct{}

func NewOS() *OS {
	return &OS{}
}

func (o *OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (o *OS) IsSymlink(path string) bool {
	fi, err := os.Lstat(path)
	return err == nil && fi.Mode()&os.ModeSymlink != 0
}

func (o *OS) IsDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// ListEntries returns the names of the immediate entries of a directory,
// sorted by filename.
func (o *OS) ListEntries(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

func (o *OS) Stat(path string) (Stat, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Stat{}, err
	}
	st := Stat{
		Size:         fi.Size(),
		Modification: fi.ModTime().Unix(),
		Perm:         fi.Mode().Perm(),
	}
	fillPlatform(fi, &st)
	return st, nil
}

func (o *OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
