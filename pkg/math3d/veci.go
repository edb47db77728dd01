package math3d

// Vec2i is an integer pixel position.
type Vec2i struct {
	X, Y int
}

// Vec3i is an integer screen point carrying a depth value in Z.
type Vec3i struct {
	X, Y, Z int
}

// Add returns the vector sum a + b.
func (a Vec2i) Add(b Vec2i) Vec2i {
	return Vec2i{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2i) Sub(b Vec2i) Vec2i {
	return Vec2i{a.X - b.X, a.Y - b.Y}
}

// Vec2 converts to floating point.
func (a Vec2i) Vec2() Vec2 {
	return Vec2{float64(a.X), float64(a.Y)}
}

// Add returns the vector sum a + b.
func (a Vec3i) Add(b Vec3i) Vec3i {
	return Vec3i{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3i) Sub(b Vec3i) Vec3i {
	return Vec3i{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Cross returns the integer cross product a × b.
func (a Vec3i) Cross(b Vec3i) Vec3i {
	return Vec3i{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Vec3 converts to floating point.
func (a Vec3i) Vec3() Vec3 {
	return Vec3{float64(a.X), float64(a.Y), float64(a.Z)}
}

// Proj drops the depth component.
func (a Vec3i) Proj() Vec2i {
	return Vec2i{a.X, a.Y}
}
