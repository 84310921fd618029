package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Length(t *testing.T) {
	assert.Equal(t, float32(7), Vec3{2, 3, 6}.Length())
}

func TestVec3Cross(t *testing.T) {
	assert.Equal(t, Vec3{0, 0, 1}, Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0}))
}

func TestVec3Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"axis", Vec3{0, 0, 5}, Vec3{0, 0, 1}},
		{"pythagorean", Vec3{3, 0, 4}, Vec3{0.6, 0, 0.8}},
		{"zero stays zero", Vec3{}, Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.True(t, got.ApproxEqual(tt.want, 1e-6), "Normalize(%v) = %v", tt.in, got)
		})
	}
}

func TestV3RoundTrip(t *testing.T) {
	a := [3]float32{1, -2, 3}
	assert.Equal(t, a, V3(a).Arr())
}
