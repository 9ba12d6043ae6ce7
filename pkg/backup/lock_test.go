package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/dirbackup/pkg/errors"
)

func TestLock(t *testing.T) {
	tmp := t.TempDir()
	lockDir = func() string { return tmp }

	first, err := Lock("/backups/photos")
	require.NoError(t, err)

	_, err = Lock("/backups/photos")
	assert.IsType(t, errors.FriendlyError{}, err)

	other, err := Lock("/backups/music")
	require.NoError(t, err)
	assert.NoError(t, other.Unlock())

	require.NoError(t, first.Unlock())
	again, err := Lock("/backups/photos")
	require.NoError(t, err)
	assert.NoError(t, again.Unlock())
}
