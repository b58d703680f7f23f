package mega65

import (
	"database/sql"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestHistory(t *testing.T) (*History, string) {
	dir, err := ioutil.TempDir("", "history")
	require.NoError(t, err)

	h, err := OpenHistory(filepath.Join(dir, "ic65.db"))
	require.NoError(t, err)

	return h, dir
}

func TestHistoryRecordList(t *testing.T) {
	h, dir := openTestHistory(t)
	defer os.RemoveAll(dir)
	defer h.Close()

	older := Conversion{
		SHA1:    "AAAA",
		Source:  "first.jpg",
		Colors:  sql.NullInt64{Int64: 64, Valid: true},
		Bitmap:  "first.iff",
		Disk:    "first.d81",
		Loader:  "first.prg",
		Created: time.Unix(1000, 0),
	}
	newer := Conversion{
		SHA1:    "BBBB",
		Source:  "second.jpg",
		Reduced: true,
		Bitmap:  "second.iff",
		Disk:    "second.d81",
		Created: time.Unix(2000, 0),
	}

	require.NoError(t, h.Record(older))
	require.NoError(t, h.Record(newer))

	convs, err := h.List()
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, "BBBB", convs[0].SHA1)
	assert.False(t, convs[0].Colors.Valid)
	assert.True(t, convs[0].Reduced)
	assert.Empty(t, convs[0].Loader)

	assert.Equal(t, "AAAA", convs[1].SHA1)
	assert.True(t, convs[1].Colors.Valid)
	assert.Equal(t, int64(64), convs[1].Colors.Int64)
	assert.False(t, convs[1].Reduced)
	assert.Equal(t, "first.prg", convs[1].Loader)
	assert.Equal(t, time.Unix(1000, 0).Unix(), convs[1].Created.Unix())
}

func TestHistoryUpsert(t *testing.T) {
	h, dir := openTestHistory(t)
	defer os.RemoveAll(dir)
	defer h.Close()

	conv := Conversion{
		SHA1:    "CCCC",
		Source:  "photo.jpg",
		Bitmap:  "photo.iff",
		Disk:    "photo.d81",
		Created: time.Unix(1000, 0),
	}
	require.NoError(t, h.Record(conv))

	conv.Reduced = true
	conv.Created = time.Unix(2000, 0)
	require.NoError(t, h.Record(conv))

	convs, err := h.List()
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.True(t, convs[0].Reduced)
	assert.Equal(t, int64(2000), convs[0].Created.Unix())
}

func TestHistoryDefaultTimestamp(t *testing.T) {
	h, dir := openTestHistory(t)
	defer os.RemoveAll(dir)
	defer h.Close()

	require.NoError(t, h.Record(Conversion{
		SHA1:   "DDDD",
		Source: "photo.jpg",
		Bitmap: "photo.iff",
		Disk:   "photo.d81",
	}))

	convs, err := h.List()
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.False(t, convs[0].Created.IsZero())
}

func TestRunRecordsHistory(t *testing.T) {
	job, dir := testJob(t)
	defer os.RemoveAll(dir)

	h, err := OpenHistory(filepath.Join(dir, "ic65.db"))
	require.NoError(t, err)
	defer h.Close()

	tools := newStubTools("ppmtoilbm: 64 colors found")
	c := New(tools.toolchain(), h, discard(), nil)

	require.NoError(t, c.Run(job))

	convs, err := h.List()
	require.NoError(t, err)
	require.Len(t, convs, 1)

	conv := convs[0]
	assert.Equal(t, job.Image, conv.Source)
	assert.True(t, conv.Colors.Valid)
	assert.Equal(t, int64(64), conv.Colors.Int64)
	assert.False(t, conv.Reduced)
	assert.Equal(t, DeriveFilenames(job.Image).IFF, conv.Bitmap)
	assert.Equal(t, DiskImage(job.Disk), conv.Disk)
	assert.Equal(t, DeriveFilenames(job.Image).PRG, conv.Loader)

	sha, err := hashFile(job.Image)
	require.NoError(t, err)
	assert.Equal(t, sha, conv.SHA1)

	// Running the same source again replaces the row instead of adding
	// one.
	require.NoError(t, c.Run(job))
	convs, err = h.List()
	require.NoError(t, err)
	assert.Len(t, convs, 1)
}
