package model

import "fmt"

// Position задаёт абсолютную координату тайла в мире.
// Value type, comparable, годится как ключ map.
type Position struct {
	X int32
	Y int32
	Z int8
}

// NewPosition создаёт Position с указанными координатами.
func NewPosition(x, y int32, z int8) Position {
	return Position{X: x, Y: y, Z: z}
}

// Offset возвращает позицию, сдвинутую на (dx, dy) в пределах того же этажа.
func (p Position) Offset(dx, dy int32) Position {
	p.X += dx
	p.Y += dy
	return p
}

// WithFloor возвращает копию с другим этажом (immutable pattern).
func (p Position) WithFloor(z int8) Position {
	p.Z = z
	return p
}

// Plane returns the floor-less key used by joins that ignore z.
func (p Position) Plane() PlaneKey {
	return PlaneKey{X: p.X, Y: p.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// PlaneKey это ключ (x, y) без этажа.
type PlaneKey struct {
	X int32
	Y int32
}
