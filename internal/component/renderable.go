package component

// Renderable carries the presentation attachment a host renderer and
// collision layer consume. Model and CollisionMask are set once at
// creation; Visible and Collidable toggle with the target's active state
// so a disabled target neither draws nor blocks shots.
type Renderable struct {
	Model         string
	CollisionMask uint32
	Visible       bool
	Collidable    bool
}
