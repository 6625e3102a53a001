package changelog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalAppendRecent(t *testing.T) {
	journal, err := Open(filepath.Join(t.TempDir(), "changelog.db"))
	require.NoError(t, err)
	defer journal.Close()

	for rev := uint64(1); rev <= 5; rev++ {
		require.NoError(t, journal.Append(rev, int(rev)*2))
	}

	entries, err := journal.Recent(3)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// newest first
	assert.Equal(t, uint64(5), entries[0].Revision)
	assert.Equal(t, uint64(4), entries[1].Revision)
	assert.Equal(t, uint64(3), entries[2].Revision)
	assert.Equal(t, 10, entries[0].Products)
	assert.NotZero(t, entries[0].Timestamp)
}

func TestJournalRecentDefaultLimit(t *testing.T) {
	journal, err := Open(filepath.Join(t.TempDir(), "changelog.db"))
	require.NoError(t, err)
	defer journal.Close()

	require.NoError(t, journal.Append(1, 0))
	entries, err := journal.Recent(0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
