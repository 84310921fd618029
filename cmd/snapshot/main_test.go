package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/archsim/internal/engine/scene"
	"github.com/Faultbox/archsim/pkg/math"
)

func TestParseVec3(t *testing.T) {
	v, err := parseVec3("1, -2.5,3e2")
	require.NoError(t, err)
	assert.Equal(t, math.Vec3{X: 1, Y: -2.5, Z: 300}, v)

	for _, bad := range []string{"", "1,2", "1,2,3,4", "a,b,c"} {
		_, err := parseVec3(bad)
		assert.Error(t, err, bad)
	}
}

func TestPlaceCameraExplicit(t *testing.T) {
	state := scene.NewState(math.Vec3{})
	err := placeCamera(state, [3]float32{-1, -1, -1}, [3]float32{1, 1, 1}, options{
		camera: "0,0,10",
		target: "0,0,0",
	})
	require.NoError(t, err)
	assert.Equal(t, math.Vec3{Z: 10}, state.Camera.Position)
	assert.True(t, state.Camera.Front().ApproxEqual(math.Vec3{Z: -1}, 1e-5))
}

func TestPlaceCameraFit(t *testing.T) {
	state := scene.NewState(math.Vec3{})
	require.NoError(t, placeCamera(state, [3]float32{-1, -1, -1}, [3]float32{1, 1, 1}, options{}))

	toCenter := math.Vec3{}.Sub(state.Camera.Position).Normalize()
	assert.True(t, state.Camera.Front().ApproxEqual(toCenter, 1e-4), "fitted camera aims at the center")

	err := placeCamera(state, [3]float32{}, [3]float32{1, 1, 1}, options{camera: "x"})
	assert.Error(t, err)
}
