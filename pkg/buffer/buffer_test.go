package buffer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybrush-io/skyb-go/pkg/errkind"
)

func TestNewZeroFills(t *testing.T) {
	b, err := New(16)
	require.NoError(t, err)
	assert.Equal(t, 16, b.Len())
	assert.True(t, bytes.Equal(b.Bytes(), make([]byte, 16)))

	_, err = New(-1)
	assert.True(t, errors.Is(err, errkind.ErrInvalidArgument))
}

func TestResizeGrowsByDoubling(t *testing.T) {
	b, err := New(4)
	require.NoError(t, err)
	require.NoError(t, b.Fill(0xAA))

	require.NoError(t, b.Resize(5))
	assert.Equal(t, 5, b.Len())
	assert.GreaterOrEqual(t, b.Cap(), 8, "capacity should double, not grow to fit")

	// Grown region is zero-filled, existing bytes preserved.
	assert.Equal(t, []byte{0xAA, 0xAA, 0xAA, 0xAA, 0x00}, b.Bytes())
}

func TestResizeShrinkKeepsCapacity(t *testing.T) {
	b, err := New(64)
	require.NoError(t, err)

	require.NoError(t, b.Resize(8))
	assert.Equal(t, 8, b.Len())
	assert.Equal(t, 64, b.Cap())

	b.Prune()
	assert.Equal(t, 8, b.Cap())
}

func TestResizeZeroFillsReusedRegion(t *testing.T) {
	b := FromBytes([]byte{1, 2, 3, 4})
	require.NoError(t, b.Resize(2))
	require.NoError(t, b.Resize(4))
	assert.Equal(t, []byte{1, 2, 0, 0}, b.Bytes())
}

func TestAppendAndConcat(t *testing.T) {
	b := FromBytes([]byte("sky"))
	require.NoError(t, b.AppendByte('b'))
	require.NoError(t, b.AppendBytes([]byte("rush")))

	other := FromBytes([]byte("!"))
	require.NoError(t, b.Concat(other))

	assert.Equal(t, "skybrush!", string(b.Bytes()))
}

func TestViewsRejectOwnershipOperations(t *testing.T) {
	backing := []byte{1, 2, 3}

	v := View(backing)
	assert.True(t, v.IsView())
	assert.True(t, errors.Is(v.Resize(10), errkind.ErrFailure))
	assert.True(t, errors.Is(v.Clear(), errkind.ErrFailure))
	assert.True(t, errors.Is(v.AppendByte(0), errkind.ErrFailure))

	// Writable view may fill in place.
	require.NoError(t, v.Fill(7))
	assert.Equal(t, []byte{7, 7, 7}, backing)

	ro := ReadOnlyView(backing)
	assert.True(t, errors.Is(ro.Fill(0), errkind.ErrFailure))
}

func TestGrownCapacityOverflow(t *testing.T) {
	const huge = int(^uint(0) >> 1) // max int
	_, err := grownCapacity(1, huge)
	assert.True(t, errors.Is(err, errkind.ErrOutOfMemory))
}
