package world

// Vec3 is a 3-component vector used for entity transforms.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the component-wise sum of two vectors.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Scale returns the vector multiplied by a scalar.
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

// Transform holds the spatial state of an entity.
type Transform struct {
	Position Vec3 `json:"position"`
	Rotation Vec3 `json:"rotation"`
	Scale    Vec3 `json:"scale"`
}

// Entity is a uniquely identified game object. The ID is opaque, stable for
// the entity's lifetime, and never reused after removal. Kind is a free-form
// discriminator such as "player" or "crop". All component data lives in Props.
//
// Entities are mutated in place by systems and action handlers; the store's
// single-writer discipline (see engine) makes that safe without locking.
type Entity struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Transform Transform `json:"transform"`
	Props     Props     `json:"props"`
}
