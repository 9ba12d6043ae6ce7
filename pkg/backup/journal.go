package backup

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/sidkik/dirbackup/pkg/errors"
)

// Journal appends action records to the log file and mirrors them to the
// console.
type Journal struct {
	fs      afero.Fs
	path    string
	console io.Writer
}

// NewJournal returns a Journal that appends to the file at `path`. The file
// is created on the first Record.
func NewJournal(fs afero.Fs, path string, console io.Writer) Journal {
	return Journal{fs: fs, path: path, console: console}
}

// Record appends `action` to the log file, and then prints the same line to
// the console.
func (j Journal) Record(action Action) error {
	line := action.String()

	f, err := j.fs.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.FileIOError{Op: "open log", Path: j.path, Err: err}
	}

	if _, err := io.WriteString(f, line+"\n"); err != nil {
		f.Close()
		return errors.FileIOError{Op: "append log", Path: j.path, Err: err}
	}

	if err := f.Close(); err != nil {
		return errors.FileIOError{Op: "close log", Path: j.path, Err: err}
	}

	if j.console != nil {
		fmt.Fprintln(j.console, line)
	}
	return nil
}
