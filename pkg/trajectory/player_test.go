package trajectory

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const posTol = 1e-6

func assertVector4(t *testing.T, want Vector4, got Vector4) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, posTol)
	assert.InDelta(t, want.Y, got.Y, posTol)
	assert.InDelta(t, want.Z, got.Z, posTol)
	assert.InDelta(t, want.Yaw, got.Yaw, posTol)
}

func TestPlayerEndToEndExample(t *testing.T) {
	traj := squareShow(t)
	player := traj.NewPlayer()

	total, err := traj.TotalDurationMsec()
	require.NoError(t, err)
	assert.Equal(t, int64(50000), total)

	pos, err := player.PositionAt(25)
	require.NoError(t, err)
	assertVector4(t, Vector4{X: 10000, Y: 5000, Z: 10000}, pos)

	vel, err := player.VelocityAt(5)
	require.NoError(t, err)
	assertVector4(t, Vector4{Z: 1000}, vel)

	// Diagonal leg moves -10000 in x and y over 10 s.
	vel, err = player.VelocityAt(35)
	require.NoError(t, err)
	assertVector4(t, Vector4{X: -1000, Y: -1000}, vel)

	// Linear legs have zero acceleration inside the segment.
	acc, err := player.AccelerationAt(25)
	require.NoError(t, err)
	assertVector4(t, Vector4{}, acc)
}

func TestPlayerBoundaryClamping(t *testing.T) {
	traj := squareShow(t)
	player := traj.NewPlayer()

	for _, tt := range []float64{-1, -0.001} {
		pos, err := player.PositionAt(tt)
		require.NoError(t, err)
		assertVector4(t, Vector4{}, pos)

		vel, err := player.VelocityAt(tt)
		require.NoError(t, err)
		assertVector4(t, Vector4{}, vel)
	}

	for _, tt := range []float64{50, 50.001, 1e6} {
		pos, err := player.PositionAt(tt)
		require.NoError(t, err)
		// The show ends back at the origin.
		assertVector4(t, Vector4{}, pos)

		vel, err := player.VelocityAt(tt)
		require.NoError(t, err)
		assertVector4(t, Vector4{}, vel)

		acc, err := player.AccelerationAt(tt)
		require.NoError(t, err)
		assertVector4(t, Vector4{}, acc)
	}

	// Clamped high on a show that does not end at the origin.
	enc := NewEncoder(Vector4{})
	require.NoError(t, enc.AppendLine(10*time.Second, Vector4{Z: 10000}))
	body, err := enc.EncodeBlock()
	require.NoError(t, err)
	up, err := FromBlock(body)
	require.NoError(t, err)

	pos, err := up.NewPlayer().PositionAt(11)
	require.NoError(t, err)
	assertVector4(t, Vector4{Z: 10000}, pos)
}

func TestPlayerEmptyTrajectory(t *testing.T) {
	traj, err := FromBlock(nil)
	require.NoError(t, err)
	player := traj.NewPlayer()

	for _, tt := range []float64{-5, 0, 1, 1e9} {
		pos, err := player.PositionAt(tt)
		require.NoError(t, err)
		assertVector4(t, Vector4{}, pos)

		vel, err := player.VelocityAt(tt)
		require.NoError(t, err)
		assertVector4(t, Vector4{}, vel)

		acc, err := player.AccelerationAt(tt)
		require.NoError(t, err)
		assertVector4(t, Vector4{}, acc)
	}
}

func TestPlayerOrderIndependence(t *testing.T) {
	traj := squareShow(t)

	timestamps := []float64{-1, 0, 3.5, 9.999, 10, 15, 25, 25, 42, 49.999, 50, 60, 12, 0.5}

	// Reference: each timestamp queried in isolation by a fresh player.
	reference := make(map[float64][3]Vector4, len(timestamps))
	for _, ts := range timestamps {
		player := traj.NewPlayer()
		pos, err := player.PositionAt(ts)
		require.NoError(t, err)
		player = traj.NewPlayer()
		vel, err := player.VelocityAt(ts)
		require.NoError(t, err)
		player = traj.NewPlayer()
		acc, err := player.AccelerationAt(ts)
		require.NoError(t, err)
		reference[ts] = [3]Vector4{pos, vel, acc}
	}

	check := func(t *testing.T, player *Player, order []float64) {
		t.Helper()
		for _, ts := range order {
			pos, err := player.PositionAt(ts)
			require.NoError(t, err)
			assertVector4(t, reference[ts][0], pos)

			vel, err := player.VelocityAt(ts)
			require.NoError(t, err)
			assertVector4(t, reference[ts][1], vel)

			acc, err := player.AccelerationAt(ts)
			require.NoError(t, err)
			assertVector4(t, reference[ts][2], acc)
		}
	}

	t.Run("forward", func(t *testing.T) {
		order := append([]float64(nil), timestamps...)
		sort.Float64s(order)
		check(t, traj.NewPlayer(), order)
	})

	t.Run("backward", func(t *testing.T) {
		order := append([]float64(nil), timestamps...)
		sort.Sort(sort.Reverse(sort.Float64Slice(order)))
		check(t, traj.NewPlayer(), order)
	})

	t.Run("randomized", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		order := append([]float64(nil), timestamps...)
		player := traj.NewPlayer()
		for i := 0; i < 5; i++ {
			rng.Shuffle(len(order), func(a, b int) { order[a], order[b] = order[b], order[a] })
			check(t, player, order)
		}
	})
}

func TestPlayerClone(t *testing.T) {
	traj := squareShow(t)
	player := traj.NewPlayer()

	// Position the cursor mid-show, then checkpoint.
	pos, err := player.PositionAt(25)
	require.NoError(t, err)
	assertVector4(t, Vector4{X: 10000, Y: 5000, Z: 10000}, pos)

	checkpoint := player.Clone()
	assert.Same(t, traj, checkpoint.Trajectory())

	// Advancing the original does not disturb the clone.
	_, err = player.PositionAt(45)
	require.NoError(t, err)

	pos, err = checkpoint.PositionAt(26)
	require.NoError(t, err)
	assertVector4(t, Vector4{X: 10000, Y: 6000, Z: 10000}, pos)

	// And the clone can seek backward independently.
	pos, err = checkpoint.PositionAt(5)
	require.NoError(t, err)
	assertVector4(t, Vector4{Z: 5000}, pos)
}

func TestPlayerSequentialPlayback(t *testing.T) {
	traj := squareShow(t)
	player := traj.NewPlayer()

	// Dense forward sweep, the dominant real-time pattern.
	prev := Vector4{}
	for ts := 0.0; ts <= 50; ts += 0.25 {
		pos, err := player.PositionAt(ts)
		require.NoError(t, err)
		if ts > 0 {
			// The reference show moves at most 1 m/s per axis.
			assert.LessOrEqual(t, absDiff(pos.X, prev.X), 250+posTol)
			assert.LessOrEqual(t, absDiff(pos.Y, prev.Y), 250+posTol)
			assert.LessOrEqual(t, absDiff(pos.Z, prev.Z), 250+posTol)
		}
		prev = pos
	}
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
