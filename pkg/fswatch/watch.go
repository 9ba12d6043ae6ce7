package fswatch

import (
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/sidkik/dirbackup/pkg/errors"
)

// Watch watches for changes to the files directly inside `dir`. It sends an
// event on the returned channel whenever a file in the directory is created,
// written, removed or renamed. Events that arrive while a previous one is
// still pending are combined. Subdirectories aren't watched.
// The returned Closer stops the watcher and closes the channel.
func Watch(dir string) (<-chan struct{}, io.Closer, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.FileNotFound{Path: dir}
		}
		return nil, nil, errors.WithContext(err, "stat")
	}
	if !fi.IsDir() {
		return nil, nil, errors.New(fmt.Sprintf("%q is not a directory", dir))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, errors.WithContext(err, "create watcher")
	}

	if err := watcher.Add(dir); err != nil {
		// Close the watcher so that we release its file handle.
		if err := watcher.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file watcher")
		}
		return nil, nil, errors.WithContext(err, fmt.Sprintf("watch %q", dir))
	}

	go logErrors(watcher.Errors)
	return combineUpdates(watcher.Events), watcher, nil
}

func combineUpdates(updates <-chan fsnotify.Event) chan struct{} {
	combined := make(chan struct{}, 1)
	go func() {
		defer close(combined)
		for event := range updates {
			if event.Op == fsnotify.Chmod {
				continue
			}

			select {
			case combined <- struct{}{}:
			default:
			}
		}
	}()
	return combined
}

func logErrors(errs <-chan error) {
	for err := range errs {
		log.WithError(err).Debug("File watcher error")
	}
}
