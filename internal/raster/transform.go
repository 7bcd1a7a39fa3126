package raster

import (
	"math"

	"github.com/udisondev/huntatlas/internal/model"
)

// Calibrated constants of the reference raster.
const (
	DefaultCenterX    = 32598
	DefaultCenterY    = 32233
	DefaultVisionSize = 2048
)

// Transform maps raster pixels to world tiles:
//
//	worldX = round(px + CenterX - VisionSize/2)
//	worldY = round(py + CenterY - VisionSize/2)
//
// Floor is not encoded in the raster and is supplied by the caller.
type Transform struct {
	CenterX    float64
	CenterY    float64
	VisionSize float64
}

// DefaultTransform returns the calibrated transform.
func DefaultTransform() Transform {
	return Transform{
		CenterX:    DefaultCenterX,
		CenterY:    DefaultCenterY,
		VisionSize: DefaultVisionSize,
	}
}

// ToWorld converts an image position to a world position on floor z.
func (t Transform) ToWorld(px, py int, z int8) model.Position {
	half := t.VisionSize / 2
	return model.NewPosition(
		int32(math.Round(float64(px)+t.CenterX-half)),
		int32(math.Round(float64(py)+t.CenterY-half)),
		z,
	)
}

// offsets returns the integer shift world = image + offset. Exact for
// non-negative centre minus half vision size.
func (t Transform) offsets() (int32, int32) {
	origin := t.ToWorld(0, 0, 0)
	return origin.X, origin.Y
}

// ToImage is the inverse of ToWorld; z is dropped.
func (t Transform) ToImage(pos model.Position) (int, int) {
	ox, oy := t.offsets()
	return int(pos.X - ox), int(pos.Y - oy)
}
