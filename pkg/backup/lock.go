package backup

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/sidkik/dirbackup/pkg/errors"
)

// Mocked out for unit testing.
var lockDir = os.TempDir

// Lock takes an exclusive lock on `backupDir` for the lifetime of the
// process, so that only one process ever synchronizes into it. The lock
// file lives outside the backup directory so that it's never mistaken for
// a backup file. Call Unlock on the result to release it.
func Lock(backupDir string) (*flock.Flock, error) {
	abs, err := filepath.Abs(backupDir)
	if err != nil {
		return nil, errors.WithContext(err, "resolve backup path")
	}

	path := filepath.Join(lockDir(), fmt.Sprintf("dirbackup-%x.lock", md5.Sum([]byte(abs))))
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.WithContext(err, fmt.Sprintf("lock %q", path))
	}

	if !locked {
		return nil, errors.NewFriendlyError("Another process is already "+
			"backing up into %q.\nStop it before starting a new one.", backupDir)
	}
	return lock, nil
}
