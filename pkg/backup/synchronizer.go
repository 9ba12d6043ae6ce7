package backup

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/dirbackup/pkg/digest"
	"github.com/sidkik/dirbackup/pkg/errors"
)

// Synchronizer makes a backup directory match a source directory.
type Synchronizer struct {
	fs      afero.Fs
	hasher  digest.Hasher
	clock   clockwork.Clock
	console io.Writer
}

// New returns a Synchronizer that operates on `fs`. Journal lines are
// timestamped with `clock` and mirrored to `console`.
func New(fs afero.Fs, clock clockwork.Clock, console io.Writer) *Synchronizer {
	return &Synchronizer{
		fs:      fs,
		hasher:  digest.New(fs),
		clock:   clock,
		console: console,
	}
}

// Summary describes the changes made by a pass.
type Summary struct {
	// Actions is in the order the changes were made.
	Actions []Action

	// BytesCopied is the total size of the files that were created or
	// updated.
	BytesCopied int64
}

// Count returns the number of actions of the given kind.
func (s Summary) Count(kind ActionKind) (n int) {
	for _, action := range s.Actions {
		if action.Kind == kind {
			n++
		}
	}
	return n
}

// Run performs a single synchronization pass from `sourceDir` to
// `backupDir`, appending a record to the log at `logPath` for every change.
// The first error aborts the pass. Changes made before the error are kept,
// and are returned in the Summary.
func (s *Synchronizer) Run(sourceDir, backupDir, logPath string) (Summary, error) {
	var summary Summary

	if err := s.ensureDir(backupDir); err != nil {
		return summary, err
	}

	source, err := SnapshotDir(s.fs, s.hasher, sourceDir)
	if err != nil {
		return summary, errors.WithContext(err, "snapshot source")
	}

	backup, err := List(s.fs, backupDir)
	if err != nil {
		return summary, errors.WithContext(err, "list backup")
	}

	journal := NewJournal(s.fs, logPath, s.console)
	record := func(kind ActionKind, name string) error {
		action := Action{Kind: kind, Name: name, Time: s.clock.Now()}
		summary.Actions = append(summary.Actions, action)
		return journal.Record(action)
	}

	apply := func(kind ActionKind, name string) error {
		if kind == Removed {
			if err := s.fs.Remove(backup.Path(name)); err != nil {
				return errors.FileIOError{Op: "remove", Path: backup.Path(name), Err: err}
			}
			return record(kind, name)
		}

		dst := backup.Path(name)
		fi, n, err := copyContents(s.fs, source.Path(name), dst)
		summary.BytesCopied += n
		if err != nil {
			return err
		}

		// The contents changed, so the action is recorded even if the
		// metadata can't be copied.
		if err := record(kind, name); err != nil {
			return err
		}
		return copyMetadata(s.fs, fi, dst)
	}

	for _, name := range source.Names {
		kind, changed, err := s.classify(source, backup, name)
		if err != nil {
			return summary, err
		}
		if !changed {
			continue
		}

		if err := apply(kind, name); err != nil {
			return summary, err
		}
	}

	for _, name := range source.Orphans(backup) {
		if err := apply(Removed, name); err != nil {
			return summary, err
		}
	}

	log.WithFields(log.Fields{
		"source":  sourceDir,
		"backup":  backupDir,
		"created": summary.Count(Created),
		"updated": summary.Count(Updated),
		"removed": summary.Count(Removed),
	}).Debugf("Finished pass. Copied %s.", humanize.Bytes(uint64(summary.BytesCopied)))
	return summary, nil
}

// classify decides what needs to happen to the backup copy of `name`. The
// backup copy is hashed now, rather than when the backup was listed, so
// that the decision reflects its current contents.
func (s *Synchronizer) classify(source Snapshot, backup Listing, name string) (
	kind ActionKind, changed bool, err error) {

	if !backup.Contains(name) {
		return Created, true, nil
	}

	path := backup.Path(name)
	backupDigest, err := s.hasher.File(path)
	if err != nil {
		return 0, false, errors.FileIOError{Op: "hash", Path: path, Err: err}
	}

	sourceDigest, _ := source.Digest(name)
	if backupDigest != sourceDigest {
		return Updated, true, nil
	}
	return 0, false, nil
}

func (s *Synchronizer) ensureDir(dir string) error {
	exists, err := afero.DirExists(s.fs, dir)
	if err == nil && exists {
		return nil
	}

	log.WithField("path", dir).Debug("Creating backup directory")
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return errors.DirectoryCreationError{Path: dir, Err: err}
	}
	return nil
}
