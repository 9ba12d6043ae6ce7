package backup

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/sidkik/dirbackup/pkg/errors"
)

// copyContents replaces the contents of `dst` with the contents of `src`.
// It returns the source's FileInfo, for use by copyMetadata, and the number
// of bytes copied.
func copyContents(fs afero.Fs, src, dst string) (os.FileInfo, int64, error) {
	fi, err := fs.Stat(src)
	if err != nil {
		return nil, 0, errors.FileIOError{Op: "stat", Path: src, Err: err}
	}

	if err := clearNonRegular(fs, dst); err != nil {
		return nil, 0, err
	}

	in, err := fs.Open(src)
	if err != nil {
		return nil, 0, errors.FileIOError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return nil, 0, errors.FileIOError{Op: "create", Path: dst, Err: err}
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return nil, n, errors.FileIOError{Op: "copy", Path: dst, Err: err}
	}

	if err := out.Close(); err != nil {
		return nil, n, errors.FileIOError{Op: "close", Path: dst, Err: err}
	}
	return fi, n, nil
}

// copyMetadata gives `dst` the permissions and modification time in `fi`.
func copyMetadata(fs afero.Fs, fi os.FileInfo, dst string) error {
	// OpenFile doesn't change the mode of a file that already exists.
	if err := fs.Chmod(dst, fi.Mode().Perm()); err != nil {
		return errors.FileIOError{Op: "chmod", Path: dst, Err: err}
	}

	if err := fs.Chtimes(dst, fi.ModTime(), fi.ModTime()); err != nil {
		return errors.FileIOError{Op: "chtimes", Path: dst, Err: err}
	}
	return nil
}

// clearNonRegular removes `path` if it's a symlink, so that writing to it
// creates a regular file instead of following the link. Other non-regular
// files, such as directories, are left alone and reported as an error.
func clearNonRegular(fs afero.Fs, path string) error {
	lstater, ok := fs.(afero.Lstater)
	if !ok {
		return nil
	}

	fi, _, err := lstater.LstatIfPossible(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.FileIOError{Op: "lstat", Path: path, Err: err}
	}

	switch {
	case fi.Mode().IsRegular():
		return nil
	case fi.Mode()&os.ModeSymlink != 0:
		if err := fs.Remove(path); err != nil {
			return errors.FileIOError{Op: "remove symlink", Path: path, Err: err}
		}
		return nil
	default:
		return errors.FileIOError{Op: "replace", Path: path,
			Err: errors.New(fmt.Sprintf("not a regular file (%s)", fi.Mode().Type()))}
	}
}
