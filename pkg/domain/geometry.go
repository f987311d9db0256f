package domain

import "math"

// Vec3 is a point or direction in meters, expressed in a reference frame.
type Vec3 struct {
	X float64 `json:"x" mapstructure:"x" yaml:"x"`
	Y float64 `json:"y" mapstructure:"y" yaml:"y"`
	Z float64 `json:"z" mapstructure:"z" yaml:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Length returns the euclidean norm of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

var (
	// Forward is the default gaze direction (right-handed, -Z forward).
	Forward = Vec3{Z: -1}
	// Up is the default up direction.
	Up = Vec3{Y: 1}
)

// Pose is the location and orientation of a camera at a point in time.
type Pose struct {
	Position Vec3 `json:"position"`
	Forward  Vec3 `json:"forward"`
	Up       Vec3 `json:"up"`
}

// IdentityPose is the pose of a camera at the origin of its reference frame looking forward.
func IdentityPose() Pose {
	return Pose{Forward: Forward, Up: Up}
}

// Ahead returns the point at distance meters along the gaze direction of p.
func (p Pose) Ahead(distance float64) Vec3 {
	dir := p.Forward.Normalize()
	if dir == (Vec3{}) {
		dir = Forward
	}
	return p.Position.Add(dir.Scale(distance))
}

// ReferenceFrame identifies the coordinate basis poses are computed against.
type ReferenceFrame struct {
	ID     string `json:"id"`
	Origin Vec3   `json:"origin"`
}
