package scene

import (
	"errors"
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/archsim/internal/engine/lighting"
	"github.com/Faultbox/archsim/internal/engine/model"
	"github.com/Faultbox/archsim/internal/engine/shadow"
	"github.com/Faultbox/archsim/pkg/math"
)

type countingPass struct {
	calls []math.Vec3
	err   error
}

func (p *countingPass) Rebuild(v math.Vec3, g shadow.GeometryRenderer) error {
	p.calls = append(p.calls, v)
	g.RenderGeometry()
	return p.err
}

type countingGeometry struct{ draws int }

func (g *countingGeometry) RenderGeometry() { g.draws++ }

func newSync() (*ShadowSync, *countingPass, *countingPass) {
	d, p := &countingPass{}, &countingPass{}
	return NewShadowSync(d, p), d, p
}

func TestShadowSyncRebuildsOnlyOnChange(t *testing.T) {
	sync, dir, point := newSync()
	geom := &countingGeometry{}
	state := NewState(math.Vec3{})

	rebuilt, err := sync.Sync(state, geom)
	require.NoError(t, err)
	assert.True(t, rebuilt, "first sync must render")

	rebuilt, _ = sync.Sync(state, geom)
	assert.False(t, rebuilt, "unchanged light must not re-render")

	state.Light.Position.X += 1
	rebuilt, _ = sync.Sync(state, geom)
	assert.True(t, rebuilt)

	assert.Len(t, point.calls, 2)
	assert.Empty(t, dir.calls, "inactive pass must not run")
	assert.Equal(t, 2, geom.draws)
}

func TestShadowSyncFollowsActiveKind(t *testing.T) {
	sync, dir, point := newSync()
	geom := &countingGeometry{}
	state := NewState(math.Vec3{})
	state.Light.Kind = lighting.Directional

	_, _ = sync.Sync(state, geom)
	require.Len(t, dir.calls, 1)
	assert.Equal(t, lighting.DefaultDirection, dir.calls[0])

	require.True(t, state.Light.SetDirection(math.Vec3{X: 1, Y: -1}))
	_, _ = sync.Sync(state, geom)
	assert.Len(t, dir.calls, 2)

	state.Light.Kind = lighting.None
	rebuilt, err := sync.Sync(state, geom)
	assert.NoError(t, err)
	assert.False(t, rebuilt)

	state.Light.Kind = lighting.Point
	_, _ = sync.Sync(state, geom)
	assert.Len(t, point.calls, 1)
	assert.Len(t, dir.calls, 2)
}

func TestShadowSyncBitExactComparison(t *testing.T) {
	sync, _, point := newSync()
	geom := &countingGeometry{}
	state := NewState(math.Vec3{})
	state.Light.Position = math.Vec3{}

	_, _ = sync.Sync(state, geom)
	state.Light.Position.X = float32(stdmath.Copysign(0, -1))
	rebuilt, _ := sync.Sync(state, geom)
	assert.True(t, rebuilt, "-0 differs from +0")

	nan := float32(stdmath.NaN())
	state.Light.Position.Y = nan
	_, _ = sync.Sync(state, geom)
	rebuilt, _ = sync.Sync(state, geom)
	assert.False(t, rebuilt, "identical NaN bits count as unchanged")
	assert.Len(t, point.calls, 3)
}

func TestShadowSyncInvalidate(t *testing.T) {
	sync, _, point := newSync()
	geom := &countingGeometry{}
	state := NewState(math.Vec3{})

	_, _ = sync.Sync(state, geom)
	sync.Invalidate()
	rebuilt, _ := sync.Sync(state, geom)
	assert.True(t, rebuilt)
	assert.Len(t, point.calls, 2)
}

func TestShadowSyncDisabled(t *testing.T) {
	sync, dir, point := newSync()
	state := NewState(math.Vec3{})
	state.ShadowsEnabled = false

	rebuilt, err := sync.Sync(state, &countingGeometry{})
	assert.NoError(t, err)
	assert.False(t, rebuilt)

	state.ShadowsEnabled = true
	rebuilt, _ = sync.Sync(state, nil)
	assert.False(t, rebuilt, "nothing to draw without geometry")
	assert.Empty(t, dir.calls)
	assert.Empty(t, point.calls)
}

func TestShadowSyncErrorIsNotRetried(t *testing.T) {
	d, p := &countingPass{}, &countingPass{err: shadow.ErrIncompleteTarget}
	sync := NewShadowSync(d, p)
	state := NewState(math.Vec3{})

	rebuilt, err := sync.Sync(state, &countingGeometry{})
	assert.True(t, rebuilt)
	assert.True(t, errors.Is(err, shadow.ErrIncompleteTarget))

	rebuilt, err = sync.Sync(state, &countingGeometry{})
	assert.False(t, rebuilt)
	assert.NoError(t, err)
}

func TestShadowSyncNilPass(t *testing.T) {
	sync := NewShadowSync(nil, nil)
	state := NewState(math.Vec3{})
	rebuilt, err := sync.Sync(state, &countingGeometry{})
	assert.NoError(t, err)
	assert.False(t, rebuilt)
}

func TestVertexLayout(t *testing.T) {
	assert.EqualValues(t, model.FloatsPerVertex*4, vertexStride)

	want := []uintptr{0, 3 * 4, 6 * 4, 8 * 4, 11 * 4}
	for i, a := range vertexAttribs {
		assert.EqualValues(t, i, a.location)
		assert.Equal(t, want[i], a.offset, "attribute %d", i)
	}
}

func TestDrawablePartitionsSkipsEmpty(t *testing.T) {
	parts := []model.Partition{
		{MaterialID: 0, StartIndex: 0, Size: 6},
		{MaterialID: 1, StartIndex: 6, Size: 0},
		{MaterialID: 2, StartIndex: 6, Size: 3},
	}
	got := drawablePartitions(parts)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].MaterialID)
	assert.Equal(t, 2, got[1].MaterialID)
}

func TestStateProjection(t *testing.T) {
	s := NewState(math.Vec3{Z: 10})
	assert.Equal(t, lighting.Point, s.Light.Kind)
	assert.True(t, s.UseTextures)
	assert.Equal(t, DefaultClearColor, s.ClearColor)

	proj := s.Projection(16.0 / 9)
	center := proj.Project(math.Vec3{Z: -100})
	assert.InDelta(t, 0, center.X, 1e-5)
	assert.InDelta(t, 0, center.Y, 1e-5)

	s.FOV = 0
	assert.NotPanics(t, func() { s.Projection(0) })
}
