package mega65

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchTree(t *testing.T, files ...string) string {
	dir, err := ioutil.TempDir("", "batch")
	require.NoError(t, err)

	for _, file := range files {
		path := filepath.Join(dir, file)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, ioutil.WriteFile(path, []byte("image bytes"), 0644))
	}

	return dir
}

func TestBatch(t *testing.T) {
	dir := batchTree(t,
		"a.jpg",
		filepath.Join("sub", "b.png"),
		"notes.txt",
		filepath.Join(".hidden", "c.jpg"),
	)
	defer os.RemoveAll(dir)

	tools := newStubTools()
	c := New(tools.toolchain(), nil, discard(), nil)

	require.NoError(t, c.Batch(dir, Job{Loader: true}))

	// Two sources qualify; the text file and the hidden directory do
	// not.
	assert.Equal(t, 2, tools.raster.calls)

	for _, artifact := range []string{
		filepath.Join(dir, "a.ppm"),
		filepath.Join(dir, "a.iff"),
		filepath.Join(dir, "a.d81"),
		filepath.Join(dir, "a.prg"),
		filepath.Join(dir, "sub", "b.iff"),
		filepath.Join(dir, "sub", "b.d81"),
	} {
		_, err := os.Stat(artifact)
		assert.NoError(t, err, artifact)
	}
}

func TestBatchDuplicateStems(t *testing.T) {
	dir := batchTree(t,
		"x.jpg",
		"x.png",
	)
	defer os.RemoveAll(dir)

	tools := newStubTools()
	c := New(tools.toolchain(), nil, discard(), nil)

	err := c.Batch(dir, Job{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "same artifacts")
	assert.Zero(t, tools.raster.calls)
}

func TestBatchSameStemAcrossDirs(t *testing.T) {
	dir := batchTree(t,
		"x.jpg",
		filepath.Join("sub", "x.png"),
	)
	defer os.RemoveAll(dir)

	tools := newStubTools()
	c := New(tools.toolchain(), nil, discard(), nil)

	// Each artifact lands beside its own source, so a repeated stem in
	// another directory clobbers nothing.
	require.NoError(t, c.Batch(dir, Job{}))
	assert.Equal(t, 2, tools.raster.calls)

	for _, artifact := range []string{
		filepath.Join(dir, "x.d81"),
		filepath.Join(dir, "sub", "x.d81"),
	} {
		_, err := os.Stat(artifact)
		assert.NoError(t, err, artifact)
	}
}

func TestBatchEmpty(t *testing.T) {
	dir := batchTree(t, "readme.md")
	defer os.RemoveAll(dir)

	c := New(newStubTools().toolchain(), nil, discard(), nil)

	err := c.Batch(dir, Job{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no images")
}

func TestBatchWorkerFailure(t *testing.T) {
	dir := batchTree(t, "good.jpg", "bad.jpg", "fine.png")
	defer os.RemoveAll(dir)

	tools := newStubTools()
	tools.encoder.failOn = "bad"
	c := New(tools.toolchain(), nil, discard(), nil)

	err := c.Batch(dir, Job{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.jpg")
}
