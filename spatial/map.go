// Package spatial implements a sorted map over two dimensional keys backed by
// a quadrant tree.
//
// Only internal nodes of the tree hold entries; every internal node has
// exactly four children, the terminal ones being external sentinel leaves.
// Inserting a new key turns one sentinel leaf into an internal node with four
// new sentinel children, so the map holds (nodes - 1) / 4 entries.
//
// A Map is not safe for concurrent use. Concurrent reads are fine as long as
// no Put runs at the same time.
package spatial

import (
	"cmp"
	"iter"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/spatialmap/quadtree"
)

const (
	ErrTypeInvalidKey  = "invalid_key"
	ErrTypeUnsupported = quadtree.ErrTypeUnsupported
)

// Map is a map whose keys are coordinates of two independently ordered
// dimensions.
type Map[X, Y, V any] struct {
	tree  *quadtree.Tree[Entry[X, Y, V]]
	compX Comparator[X]
	compY Comparator[Y]
}

// New returns an empty map ordering both dimensions by their natural order.
func New[X, Y cmp.Ordered, V any]() *Map[X, Y, V] {
	return NewWithComparators[X, Y, V](Natural[X](), Natural[Y]())
}

// NewWithComparators returns an empty map ordering the X and Y dimensions
// with the given comparators.
func NewWithComparators[X, Y, V any](compX Comparator[X], compY Comparator[Y]) *Map[X, Y, V] {
	m := &Map[X, Y, V]{
		tree:  quadtree.New[Entry[X, Y, V]](),
		compX: compX,
		compY: compY,
	}

	// The root starts as a sentinel leaf.
	if _, err := m.tree.AddRoot(nil); err != nil {
		panic(err)
	}
	return m
}

// Len returns the number of entries.
func (m *Map[X, Y, V]) Len() int {
	return (m.tree.Len() - 1) / 4
}

// checkKey verifies that both key components can be compared to themselves.
func (m *Map[X, Y, V]) checkKey(key Coord[X, Y]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("incompatible key: %v", r).
				WithType(ErrTypeInvalidKey).
				WithTag("key", key.String())
		}
	}()

	if m.compX.Compare(key.X, key.X) != 0 || m.compY.Compare(key.Y, key.Y) != 0 {
		return errors.New("incompatible key").
			WithType(ErrTypeInvalidKey).
			WithTag("key", key.String())
	}
	return nil
}

// element and child only receive positions issued by m.tree, an error means
// the tree is corrupted.
func (m *Map[X, Y, V]) element(p quadtree.Position) *Entry[X, Y, V] {
	e, err := m.tree.Element(p)
	if err != nil {
		panic(err)
	}
	return e
}

func (m *Map[X, Y, V]) child(p quadtree.Position, q quadtree.Quadrant) quadtree.Position {
	c, err := m.tree.Child(p, q)
	if err != nil {
		panic(err)
	}
	return c
}

// treeSearch descends from p towards key and returns the node holding key, or
// the sentinel leaf where the search ended. The returned entry is nil for a
// sentinel leaf.
func (m *Map[X, Y, V]) treeSearch(p quadtree.Position, key Coord[X, Y]) (quadtree.Position, *Entry[X, Y, V]) {
	for {
		e := m.element(p)
		if e == nil {
			return p, nil
		}

		cx := m.compX.Compare(e.key.X, key.X)
		cy := m.compY.Compare(e.key.Y, key.Y)

		var q quadtree.Quadrant
		switch {
		case cx == 0 && cy == 0:
			return p, e
		case cx < 0 && cy > 0:
			q = quadtree.NW
		case cx >= 0 && cy >= 0:
			q = quadtree.NE
		case cx < 0 && cy <= 0:
			q = quadtree.SW
		default:
			q = quadtree.SE
		}
		p = m.child(p, q)
	}
}

// expandExternal stores entry in the sentinel leaf p and gives it four
// sentinel children.
func (m *Map[X, Y, V]) expandExternal(p quadtree.Position, entry *Entry[X, Y, V]) {
	if _, err := m.tree.Set(p, entry); err != nil {
		panic(err)
	}
	for _, q := range quadtree.Quadrants {
		if _, err := m.tree.AddQuadrant(p, q, nil); err != nil {
			panic(err)
		}
	}
}

// Get returns the value associated with key. The boolean is false when the
// key is not in the map.
func (m *Map[X, Y, V]) Get(key Coord[X, Y]) (V, bool, error) {
	var zero V
	if err := m.checkKey(key); err != nil {
		return zero, false, err
	}

	_, e := m.treeSearch(m.tree.Root(), key)
	if e == nil {
		return zero, false, nil
	}
	return e.value, true, nil
}

// Put associates value with key. When the key was already in the map its
// previous value is returned along with true.
func (m *Map[X, Y, V]) Put(key Coord[X, Y], value V) (V, bool, error) {
	var zero V
	if err := m.checkKey(key); err != nil {
		return zero, false, err
	}

	entry := &Entry[X, Y, V]{key: key, value: value}
	p, prev := m.treeSearch(m.tree.Root(), key)
	if prev == nil {
		m.expandExternal(p, entry)
		return zero, false, nil
	}

	if _, err := m.tree.Set(p, entry); err != nil {
		panic(err)
	}
	return prev.value, true, nil
}

// Remove always fails: the map cannot keep every internal node with four
// children once an entry is taken out.
func (m *Map[X, Y, V]) Remove(key Coord[X, Y]) (V, error) {
	var zero V
	return zero, errors.New("remove is not supported by spatial maps").
		WithType(ErrTypeUnsupported).
		WithTag("key", key.String())
}

// Entries returns every entry of the map in breadth-first order of the
// underlying tree. This order depends on the shape of the tree, it is neither
// sorted by key nor the insertion order.
func (m *Map[X, Y, V]) Entries() []Entry[X, Y, V] {
	entries := make([]Entry[X, Y, V], 0, m.Len())
	for p := range m.tree.BreadthFirst() {
		if e := m.element(p); e != nil {
			entries = append(entries, *e)
		}
	}
	return entries
}

// All returns an iterator over the map entries, in the same order as Entries.
func (m *Map[X, Y, V]) All() iter.Seq2[Coord[X, Y], V] {
	return func(yield func(Coord[X, Y], V) bool) {
		for p := range m.tree.BreadthFirst() {
			e := m.element(p)
			if e == nil {
				continue
			}
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}
