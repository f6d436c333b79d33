package spatial

import "fmt"

// Coord is a two dimensional key. X and Y are ordered independently, there is
// no ordering of the pair as a whole.
type Coord[X, Y any] struct {
	X X
	Y Y
}

// C returns the coordinate (x, y).
func C[X, Y any](x X, y Y) Coord[X, Y] {
	return Coord[X, Y]{X: x, Y: y}
}

func (c Coord[X, Y]) String() string {
	return fmt.Sprintf("x%vy%v", c.X, c.Y)
}

// Entry is a key-value association stored in a Map. Entries are never
// modified: replacing the value of a key stores a new Entry.
type Entry[X, Y, V any] struct {
	key   Coord[X, Y]
	value V
}

func NewEntry[X, Y, V any](key Coord[X, Y], value V) Entry[X, Y, V] {
	return Entry[X, Y, V]{key: key, value: value}
}

func (e Entry[X, Y, V]) Key() Coord[X, Y] {
	return e.key
}

func (e Entry[X, Y, V]) Value() V {
	return e.value
}

func (e Entry[X, Y, V]) String() string {
	return fmt.Sprintf("%s=%v", e.key, e.value)
}
