package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/archsim/pkg/math"
)

// SunDirection converts compass angles in degrees to the direction sunlight
// travels. Longitude rotates around Y starting at +Z, latitude is the
// elevation above the horizon.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lon := math.Radians(longitude)
	lat := math.Radians(latitude)

	toSun := math.Vec3{
		X: math32.Cos(lat) * math32.Sin(lon),
		Y: math32.Sin(lat),
		Z: math32.Cos(lat) * math32.Cos(lon),
	}
	return toSun.Neg().Normalize()
}
