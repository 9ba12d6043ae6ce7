package backup

import (
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/afero"

	"github.com/sidkik/dirbackup/pkg/digest"
	"github.com/sidkik/dirbackup/pkg/errors"
)

// FileEntry is a file directly inside a directory, identified by its
// contents.
type FileEntry struct {
	// Name is the base name of the file. It never contains a path
	// separator.
	Name string

	// Digest is the content digest of the file at the time the snapshot was
	// taken.
	Digest string
}

// Listing is the set of regular files directly inside a directory.
type Listing struct {
	Dir string

	// Names is in the order the directory was listed.
	Names []string

	index mapset.Set[string]
}

// Contains returns whether `name` was a regular file in the directory.
func (l Listing) Contains(name string) bool {
	return l.index.Contains(name)
}

// Path returns the full path of `name` within the listed directory.
func (l Listing) Path(name string) string {
	return filepath.Join(l.Dir, name)
}

// List returns the regular files directly inside `dir`. Subdirectories,
// symlinks and other special files are skipped.
func List(fs afero.Fs, dir string) (Listing, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return Listing{}, errors.FileIOError{Op: "list", Path: dir, Err: err}
	}

	listing := Listing{Dir: dir, index: mapset.NewThreadUnsafeSet[string]()}
	for _, fi := range infos {
		if !fi.Mode().IsRegular() {
			continue
		}
		listing.Names = append(listing.Names, fi.Name())
		listing.index.Add(fi.Name())
	}
	return listing, nil
}

// Snapshot is a Listing whose files have all been hashed.
type Snapshot struct {
	Listing
	Entries map[string]FileEntry
}

// Digest returns the digest recorded for `name`.
func (s Snapshot) Digest(name string) (string, bool) {
	entry, ok := s.Entries[name]
	return entry.Digest, ok
}

// SnapshotDir lists `dir` and hashes every regular file in it.
func SnapshotDir(fs afero.Fs, hasher digest.Hasher, dir string) (Snapshot, error) {
	listing, err := List(fs, dir)
	if err != nil {
		return Snapshot{}, err
	}

	snapshot := Snapshot{Listing: listing, Entries: map[string]FileEntry{}}
	for _, name := range listing.Names {
		path := listing.Path(name)
		sum, err := hasher.File(path)
		if err != nil {
			return Snapshot{}, errors.FileIOError{Op: "hash", Path: path, Err: err}
		}
		snapshot.Entries[name] = FileEntry{Name: name, Digest: sum}
	}
	return snapshot, nil
}

// Orphans returns the files in `backup` that have no counterpart in the
// snapshot, in the order they were listed.
func (s Snapshot) Orphans(backup Listing) (orphans []string) {
	for _, name := range backup.Names {
		if !s.Contains(name) {
			orphans = append(orphans, name)
		}
	}
	return orphans
}
