package mega65

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionInput(answers ...string) *strings.Reader {
	return strings.NewReader(strings.Join(answers, "\n") + "\n")
}

func TestSession(t *testing.T) {
	job, dir := testJob(t)
	defer os.RemoveAll(dir)

	second := filepath.Join(dir, "second.png")
	require.NoError(t, ioutil.WriteFile(second, []byte("not really a png"), 0644))

	tools := newStubTools()
	out := new(bytes.Buffer)
	c := New(tools.toolchain(), nil, discard(), out)

	in := sessionInput(
		job.Image, filepath.Join(dir, "disk1"),
		"y",
		second, filepath.Join(dir, "disk2"),
		"n",
	)

	require.NoError(t, c.Session(in, Job{Loader: true}))

	assert.Equal(t, 2, tools.raster.calls)

	s := out.String()
	assert.Contains(t, s, promptImage)
	assert.Contains(t, s, promptDisk)
	assert.Contains(t, s, promptAgain)
	assert.Contains(t, s, "Goodbye!")
}

func TestSessionDecline(t *testing.T) {
	job, dir := testJob(t)
	defer os.RemoveAll(dir)

	tools := newStubTools()
	c := New(tools.toolchain(), nil, discard(), nil)

	// Anything that is not a y ends the loop.
	in := sessionInput(job.Image, filepath.Join(dir, "disk1"), "quit")

	require.NoError(t, c.Session(in, Job{}))
	assert.Equal(t, 1, tools.raster.calls)
}

func TestSessionUppercaseYes(t *testing.T) {
	job, dir := testJob(t)
	defer os.RemoveAll(dir)

	tools := newStubTools()
	c := New(tools.toolchain(), nil, discard(), nil)

	in := sessionInput(
		job.Image, filepath.Join(dir, "disk1"),
		"Y",
		job.Image, filepath.Join(dir, "disk1"),
		"n",
	)

	require.NoError(t, c.Session(in, Job{}))
	assert.Equal(t, 2, tools.raster.calls)
}

func TestSessionEOF(t *testing.T) {
	tools := newStubTools()
	c := New(tools.toolchain(), nil, discard(), nil)

	// Input dries up before the disk prompt is answered.
	require.NoError(t, c.Session(strings.NewReader("photo.jpg\n"), Job{}))
	assert.Zero(t, tools.raster.calls)
}

func TestSessionFailureContinues(t *testing.T) {
	job, dir := testJob(t)
	defer os.RemoveAll(dir)

	tools := newStubTools()
	tools.encoder.err = errors.New("boom")
	out := new(bytes.Buffer)
	c := New(tools.toolchain(), nil, discard(), out)

	in := sessionInput(
		job.Image, filepath.Join(dir, "disk1"),
		"y",
		job.Image, filepath.Join(dir, "disk1"),
		"n",
	)

	require.NoError(t, c.Session(in, Job{}))

	// A failed conversion is reported but the loop carries on.
	assert.Equal(t, 2, tools.raster.calls)
	assert.Contains(t, out.String(), "Conversion failed:")
}

func TestAffirmative(t *testing.T) {
	assert.True(t, affirmative("y"))
	assert.True(t, affirmative("Y"))
	assert.False(t, affirmative("yes"))
	assert.False(t, affirmative("n"))
	assert.False(t, affirmative(""))
}
