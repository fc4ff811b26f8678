package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is the per-entity world transform. Position and Scale are
// mutated freely by systems; there is no rotation in this simulation.
type Transform struct {
	Position mgl64.Vec3
	Scale    mgl64.Vec3
}

func NewTransform(pos mgl64.Vec3) *Transform {
	return &Transform{
		Position: pos,
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}
