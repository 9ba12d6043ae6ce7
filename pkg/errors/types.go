package errors

import (
	"fmt"
)

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// InvalidArguments is returned when the command line doesn't match the
// expected invocation.
type InvalidArguments struct {
	Reason string
	Usage  string
}

func (err InvalidArguments) Error() string {
	return fmt.Sprintf("invalid arguments: %s", err.Reason)
}

// FriendlyMessage implements the interface used by GetPrintableMessage.
func (err InvalidArguments) FriendlyMessage() string {
	if err.Usage == "" {
		return err.Reason
	}
	return fmt.Sprintf("%s\n%s", err.Reason, err.Usage)
}

// SourceDirectoryMissing is returned at startup when the directory to back
// up doesn't exist.
type SourceDirectoryMissing struct {
	Path string
}

func (err SourceDirectoryMissing) Error() string {
	return fmt.Sprintf("source directory %q does not exist", err.Path)
}

// FriendlyMessage implements the interface used by GetPrintableMessage.
func (err SourceDirectoryMissing) FriendlyMessage() string {
	return fmt.Sprintf("The source directory does not exist!\n%s", err.Path)
}

// FileIOError is a failure to open, read, copy or remove a file during a
// synchronization pass.
type FileIOError struct {
	Op   string
	Path string
	Err  error
}

func (err FileIOError) Error() string {
	return fmt.Sprintf("%s %q: %s", err.Op, err.Path, err.Err)
}

func (err FileIOError) Unwrap() error {
	return err.Err
}

// DirectoryCreationError is a failure to create the backup directory.
type DirectoryCreationError struct {
	Path string
	Err  error
}

func (err DirectoryCreationError) Error() string {
	return fmt.Sprintf("create directory %q: %s", err.Path, err.Err)
}

func (err DirectoryCreationError) Unwrap() error {
	return err.Err
}
