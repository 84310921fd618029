package model

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DegenerateUVThreshold is the smallest |det| of a triangle's texcoord
// deltas that contributes to the tangent frame.
const DegenerateUVThreshold = 1e-4

// BuildTangents computes per-vertex tangents and bitangents from texcoord
// derivatives and writes them into vertices.
//
// Triangle contributions are summed per corner. The summed tangent is then
// made orthogonal to the vertex normal (Gram-Schmidt); the bitangent is only
// normalized. Vertices that receive no contribution keep zero vectors.
func BuildTangents(vertices []Vertex, indices []uint32, opts TangentOptions) (TangentStats, error) {
	var stats TangentStats
	if len(indices)%3 != 0 {
		return stats, fmt.Errorf("%d indices: %w", len(indices), ErrNotTriangulated)
	}

	accT := make([]mgl32.Vec3, len(vertices))
	accB := make([]mgl32.Vec3, len(vertices))

	for i := 0; i < len(indices); i += 3 {
		tri := [3]uint32{indices[i], indices[i+1], indices[i+2]}
		for _, vi := range tri {
			if int(vi) >= len(vertices) {
				return stats, fmt.Errorf("triangle %d: vertex %d of %d: %w", i/3, vi, len(vertices), ErrIndexOutOfRange)
			}
		}
		v0, v1, v2 := &vertices[tri[0]], &vertices[tri[1]], &vertices[tri[2]]

		e1 := mgl32.Vec3(v1.Position).Sub(v0.Position)
		e2 := mgl32.Vec3(v2.Position).Sub(v0.Position)
		du1, dv1 := v1.TexCoord[0]-v0.TexCoord[0], v1.TexCoord[1]-v0.TexCoord[1]
		du2, dv2 := v2.TexCoord[0]-v0.TexCoord[0], v2.TexCoord[1]-v0.TexCoord[1]

		det := du1*dv2 - dv1*du2
		if math32.Abs(det) < DegenerateUVThreshold {
			stats.SkippedTriangles++
			continue
		}

		// [e1; e2] = [du1 dv1; du2 dv2] [T; B], solved with the 2x2 inverse.
		inv := mgl32.Mat2{dv2, -du2, -dv1, du1}.Mul(1 / det)
		t := e1.Mul(inv.At(0, 0)).Add(e2.Mul(inv.At(0, 1)))
		b := e1.Mul(inv.At(1, 0)).Add(e2.Mul(inv.At(1, 1)))

		for _, vi := range tri {
			accT[vi] = accT[vi].Add(t)
			accB[vi] = accB[vi].Add(b)
		}
	}

	for i := range vertices {
		v := &vertices[i]
		t := normalize(accT[i])
		b := normalize(accB[i])
		n := normalize(mgl32.Vec3(v.Normal))

		t = normalize(t.Sub(n.Mul(t.Dot(n))))
		if opts.HandednessCorrection && n.Cross(t).Dot(b) < 0 {
			t = t.Mul(-1)
		}
		if t == (mgl32.Vec3{}) {
			stats.ZeroTangents++
		}

		v.Tangent = t
		v.Bitangent = b
	}
	return stats, nil
}

// normalize returns v scaled to unit length; the zero vector stays zero.
func normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}
