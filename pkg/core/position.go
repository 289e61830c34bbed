package core

import "fmt"

// Position is either a finite point in space or a direction at infinity.
// Escaped rays end at a Position at infinity; everything involving distance
// must check AtInfinity first.
type Position struct {
	v        Vec3
	infinite bool
}

// PointAt is a finite position
func PointAt(p Vec3) Position {
	return Position{v: p}
}

// DirectionAt is a position infinitely far away along dir
func DirectionAt(dir Vec3) Position {
	return Position{v: dir.Normalize(), infinite: true}
}

// AtInfinity reports whether the position is a direction
func (p Position) AtInfinity() bool {
	return p.infinite
}

// Point returns the finite point; only meaningful when !AtInfinity()
func (p Position) Point() Vec3 {
	return p.v
}

// Direction returns the unit direction; only meaningful when AtInfinity()
func (p Position) Direction() Vec3 {
	return p.v
}

func (p Position) String() string {
	if p.infinite {
		return fmt.Sprintf("dir%v", p.v)
	}
	return fmt.Sprintf("pt%v", p.v)
}
