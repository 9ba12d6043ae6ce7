package backup

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalRecord(t *testing.T) {
	fs := afero.NewMemMapFs()
	var console bytes.Buffer
	journal := NewJournal(fs, "/logs/backup.log", &console)

	require.NoError(t, fs.MkdirAll("/logs", 0755))
	require.NoError(t, journal.Record(Action{Kind: Created, Name: "a", Time: passTime}))
	require.NoError(t, journal.Record(Action{Kind: Removed, Name: "b", Time: passTime}))

	exp := "<2024-03-01 12:30:05> File created: a\n" +
		"<2024-03-01 12:30:05> File removed: b\n"

	contents, err := afero.ReadFile(fs, "/logs/backup.log")
	require.NoError(t, err)
	assert.Equal(t, exp, string(contents))
	assert.Equal(t, exp, console.String())
}

func TestJournalRecordFailure(t *testing.T) {
	var console bytes.Buffer
	journal := NewJournal(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/backup.log", &console)

	err := journal.Record(Action{Kind: Created, Name: "a", Time: passTime})
	assert.Error(t, err)
	assert.Empty(t, console.String(), "nothing is printed unless it was logged")
}
