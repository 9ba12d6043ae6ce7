// Package digest computes the content digests used to decide whether a
// backup copy is up to date.
package digest

import (
	"crypto/md5"
	"encoding/hex"
	"io"

	"github.com/spf13/afero"

	"github.com/sidkik/dirbackup/pkg/errors"
)

// BlockSize is the number of bytes read from a file at a time.
const BlockSize = 4096

// Hasher computes digests of files on a filesystem.
type Hasher struct {
	fs afero.Fs
}

// New returns a Hasher that reads from `fs`.
func New(fs afero.Fs) Hasher {
	return Hasher{fs: fs}
}

// File returns the MD5 digest of the file at the given path as 32 lowercase
// hex characters.
func (h Hasher) File(path string) (string, error) {
	f, err := h.fs.Open(path)
	if err != nil {
		return "", errors.WithContext(err, "open")
	}
	defer f.Close()

	sum, err := Reader(f)
	if err != nil {
		return "", errors.WithContext(err, "read")
	}
	return sum, nil
}

// Reader returns the digest of everything remaining in `r`. The result only
// depends on the bytes read, not on how the reader splits them up.
func Reader(r io.Reader) (string, error) {
	hasher := md5.New()
	block := make([]byte, BlockSize)
	for {
		n, err := r.Read(block)
		hasher.Write(block[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
