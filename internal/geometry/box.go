// Package geometry provides the axis-aligned bounding-box math used by the
// placement optimizer, collision detector, and dynamics validator.
// All dimensions are in feet.
package geometry

// Vec3 represents a 3D coordinate or direction in vehicle space.
// X runs across the vehicle width, Y from floor to ceiling, Z along the
// length axis (negative Z is the front, positive Z the rear loading door).
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

// Box is an axis-aligned bounding box defined by its min and max corners.
type Box struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// NewBox builds a box from its centroid and outer dimensions
// (width along X, height along Y, length along Z).
func NewBox(center Vec3, width, height, length float64) Box {
	hw, hh, hl := width/2, height/2, length/2
	return Box{
		Min: Vec3{X: center.X - hw, Y: center.Y - hh, Z: center.Z - hl},
		Max: Vec3{X: center.X + hw, Y: center.Y + hh, Z: center.Z + hl},
	}
}

// Overlaps reports whether two boxes share interior volume on all three axes.
// Touching faces do not count as overlap.
func (b Box) Overlaps(o Box) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Y < o.Max.Y && b.Max.Y > o.Min.Y &&
		b.Min.Z < o.Max.Z && b.Max.Z > o.Min.Z
}

// Contains reports whether o lies entirely within b. Shared faces count
// as contained.
func (b Box) Contains(o Box) bool {
	return b.Min.X <= o.Min.X && b.Max.X >= o.Max.X &&
		b.Min.Y <= o.Min.Y && b.Max.Y >= o.Max.Y &&
		b.Min.Z <= o.Min.Z && b.Max.Z >= o.Max.Z
}

// OverlapsXZ reports whether the floor footprints of the two boxes share
// interior area, ignoring the vertical axis. Used for support detection.
func (b Box) OverlapsXZ(o Box) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Z < o.Max.Z && b.Max.Z > o.Min.Z
}

// Expand grows the box outward by margin on every face.
func (b Box) Expand(margin float64) Box {
	return Box{
		Min: Vec3{X: b.Min.X - margin, Y: b.Min.Y - margin, Z: b.Min.Z - margin},
		Max: Vec3{X: b.Max.X + margin, Y: b.Max.Y + margin, Z: b.Max.Z + margin},
	}
}

func (b Box) Width() float64  { return b.Max.X - b.Min.X }
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }
func (b Box) Length() float64 { return b.Max.Z - b.Min.Z }

func (b Box) Volume() float64 {
	return b.Width() * b.Height() * b.Length()
}

// Footprint returns the X and Z extents of the box's floor projection.
func (b Box) Footprint() (xExtent, zExtent float64) {
	return b.Width(), b.Length()
}

func (b Box) Center() Vec3 {
	return Vec3{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}
