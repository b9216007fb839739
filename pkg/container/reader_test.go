package container

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybrush-io/skyb-go/pkg/buffer"
	"github.com/skybrush-io/skyb-go/pkg/errkind"
)

// buildContainer assembles a container with one comment and one trajectory
// block for traversal tests.
func buildContainer(t *testing.T, version int, withChecksum bool) []byte {
	t.Helper()
	w, err := NewWriter(version, withChecksum)
	require.NoError(t, err)
	require.NoError(t, w.AddBlock(BlockComment, []byte("test show")))
	require.NoError(t, w.AddBlock(BlockTrajectory, []byte{1, 0, 0, 0, 0, 0, 0, 0, 0}))
	return w.Bytes()
}

func TestReaderTraversal(t *testing.T) {
	for _, tc := range []struct {
		name     string
		version  int
		checksum bool
	}{
		{"version 1", 1, false},
		{"version 2 without checksum", 2, false},
		{"version 2 with checksum", 2, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewReaderFromBytes(buildContainer(t, tc.version, tc.checksum))
			require.NoError(t, err)
			assert.Equal(t, tc.version, r.Version())
			assert.Equal(t, tc.checksum, r.HasChecksum())

			first, err := r.Next()
			require.NoError(t, err)
			assert.Equal(t, BlockComment, first.Type)
			assert.Equal(t, 9, first.Length)

			second, err := r.Next()
			require.NoError(t, err)
			assert.Equal(t, BlockTrajectory, second.Type)

			_, err = r.Next()
			assert.Equal(t, io.EOF, err)

			// Rewind makes the sequence repeatable.
			r.Rewind()
			again, err := r.Next()
			require.NoError(t, err)
			assert.Equal(t, first, again)
		})
	}
}

func TestReaderFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "show.skyb")
	require.NoError(t, os.WriteFile(path, buildContainer(t, 2, true), 0600))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := NewReader(f)
	require.NoError(t, err)

	block, err := r.Find(BlockTrajectory)
	require.NoError(t, err)

	body, err := r.ReadBodyBytes(block)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0, 0}, body)
}

func TestReaderFind(t *testing.T) {
	r, err := NewReaderFromBytes(buildContainer(t, 2, false))
	require.NoError(t, err)

	// Find rewinds, so order of calls does not matter.
	traj, err := r.Find(BlockTrajectory)
	require.NoError(t, err)
	assert.Equal(t, BlockTrajectory, traj.Type)

	comment, err := r.Find(BlockComment)
	require.NoError(t, err)
	assert.Equal(t, BlockComment, comment.Type)

	_, err = r.Find(BlockYawControl)
	assert.True(t, errors.Is(err, errkind.ErrNotFound))
}

func TestReaderReadBody(t *testing.T) {
	r, err := NewReaderFromBytes(buildContainer(t, 1, false))
	require.NoError(t, err)

	block, err := r.Find(BlockComment)
	require.NoError(t, err)

	buf, err := buffer.New(0)
	require.NoError(t, err)
	require.NoError(t, r.ReadBody(block, buf))
	assert.Equal(t, "test show", string(buf.Bytes()))

	// A view of exactly the right size is accepted.
	backing := make([]byte, block.Length)
	view := buffer.View(backing)
	require.NoError(t, r.ReadBody(block, view))
	assert.Equal(t, "test show", string(backing))

	// A mis-sized view cannot be resized.
	shortView := buffer.View(make([]byte, 1))
	assert.True(t, errors.Is(r.ReadBody(block, shortView), errkind.ErrFailure))
}

func TestReaderHeaderValidation(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		_, err := NewReaderFromBytes([]byte("nope\x01"))
		assert.True(t, errors.Is(err, errkind.ErrParse))
	})

	t.Run("unsupported version", func(t *testing.T) {
		_, err := NewReaderFromBytes([]byte("skyb\x03"))
		assert.True(t, errors.Is(err, errkind.ErrParse))
	})

	t.Run("truncated header", func(t *testing.T) {
		_, err := NewReaderFromBytes([]byte("sky"))
		assert.True(t, errors.Is(err, errkind.ErrParse))
	})

	t.Run("truncated block header", func(t *testing.T) {
		data := buildContainer(t, 1, false)
		r, err := NewReaderFromBytes(data[:len(data)-11]) // cut into the second header
		require.NoError(t, err)
		_, err = r.Next()
		require.NoError(t, err)
		_, err = r.Next()
		assert.True(t, errors.Is(err, errkind.ErrParse))
	})

	t.Run("truncated block body", func(t *testing.T) {
		data := buildContainer(t, 1, false)
		r, err := NewReaderFromBytes(data[:len(data)-2])
		require.NoError(t, err)
		_, err = r.Next()
		require.NoError(t, err)
		_, err = r.Next()
		assert.True(t, errors.Is(err, errkind.ErrParse))
	})
}

func TestReaderChecksumIntegrity(t *testing.T) {
	data := buildContainer(t, 2, true)

	t.Run("intact file loads", func(t *testing.T) {
		_, err := NewReaderFromBytes(data)
		assert.NoError(t, err)
	})

	t.Run("corrupted checksum field rejected eagerly", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[6] ^= 0xFF // first checksum byte
		_, err := NewReaderFromBytes(bad)
		assert.True(t, errors.Is(err, errkind.ErrCorrupted))
	})

	t.Run("corrupted body rejected eagerly", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[len(bad)-1] ^= 0xFF
		_, err := NewReaderFromBytes(bad)
		assert.True(t, errors.Is(err, errkind.ErrCorrupted))
	})

	t.Run("same bytes with checksum feature disabled load", func(t *testing.T) {
		// Rebuild the same blocks without the checksum feature; flipping
		// body bytes is then invisible to the loader.
		w, err := NewWriter(2, false)
		require.NoError(t, err)
		require.NoError(t, w.AddBlock(BlockComment, []byte("test show")))
		plain := w.Bytes()
		plain[len(plain)-1] ^= 0xFF

		_, err = NewReaderFromBytes(plain)
		assert.NoError(t, err)
	})
}

func TestWriterValidation(t *testing.T) {
	_, err := NewWriter(3, false)
	assert.True(t, errors.Is(err, errkind.ErrInvalidArgument))

	_, err = NewWriter(1, true)
	assert.True(t, errors.Is(err, errkind.ErrInvalidArgument))

	w, err := NewWriter(2, false)
	require.NoError(t, err)
	err = w.AddBlock(BlockComment, make([]byte, 70000))
	assert.True(t, errors.Is(err, errkind.ErrOverflow))
}

func TestBlockTypeString(t *testing.T) {
	assert.Equal(t, "trajectory", BlockTrajectory.String())
	assert.Equal(t, "light program", BlockLightProgram.String())
	assert.Equal(t, "comment", BlockComment.String())
	assert.Equal(t, "yaw control", BlockYawControl.String())
	assert.Equal(t, "unknown", BlockType(99).String())
}
