// Package quadtree implements a node-linked tree where every node has up to
// four children named after the quadrants NW, NE, SW and SE.
//
// Nodes live in an arena owned by the tree and are addressed by Position
// handles. Nodes are never removed, so a Position stays valid for the
// lifetime of the tree that issued it.
package quadtree

import (
	"iter"
	"sync/atomic"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	ErrTypeInvalidPosition  = "invalid_position"
	ErrTypeNotEmpty         = "tree_not_empty"
	ErrTypeQuadrantOccupied = "quadrant_occupied"
	ErrTypeUnsupported      = "unsupported_operation"
)

// Quadrant names one of the four children of a node.
type Quadrant int

const (
	NW Quadrant = iota
	NE
	SW
	SE
)

// Quadrants lists the quadrants in traversal order.
var Quadrants = [4]Quadrant{NW, NE, SW, SE}

func (q Quadrant) String() string {
	switch q {
	case NW:
		return "NW"
	case NE:
		return "NE"
	case SW:
		return "SW"
	case SE:
		return "SE"
	default:
		return "unknown"
	}
}

var treeIDs atomic.Uint64

// Position is a handle to a node of a Tree. The zero Position refers to no
// node and is what navigation returns when a neighbour does not exist.
type Position struct {
	tree  uint64
	index int
}

// IsZero reports whether p refers to no node.
func (p Position) IsZero() bool {
	return p.tree == 0
}

type node[E any] struct {
	element  *E
	parent   Position
	children [4]Position
}

// Tree is a quadrant tree holding optional elements of type E. A node with a
// nil element is an external node.
type Tree[E any] struct {
	id    uint64
	nodes []node[E]
}

// New returns an empty tree.
func New[E any]() *Tree[E] {
	return &Tree[E]{id: treeIDs.Add(1)}
}

// Len returns the number of nodes.
func (t *Tree[E]) Len() int {
	return len(t.nodes)
}

func (t *Tree[E]) IsEmpty() bool {
	return len(t.nodes) == 0
}

// Root returns the root position, or the zero Position when the tree is empty.
func (t *Tree[E]) Root() Position {
	if t.IsEmpty() {
		return Position{}
	}
	return Position{tree: t.id}
}

func (t *Tree[E]) validate(p Position) (*node[E], error) {
	if p.IsZero() {
		return nil, errors.New("position refers to no node").
			WithType(ErrTypeInvalidPosition)
	}
	if p.tree != t.id || p.index < 0 || p.index >= len(t.nodes) {
		return nil, errors.New("position does not belong to this tree").
			WithType(ErrTypeInvalidPosition).
			WithTag("index", p.index)
	}

	return &t.nodes[p.index], nil
}

func (t *Tree[E]) newNode(e *E, parent Position) Position {
	t.nodes = append(t.nodes, node[E]{
		element: e,
		parent:  parent,
	})
	return Position{tree: t.id, index: len(t.nodes) - 1}
}

// AddRoot creates the root of an empty tree.
func (t *Tree[E]) AddRoot(e *E) (Position, error) {
	if !t.IsEmpty() {
		return Position{}, errors.New("tree is not empty").
			WithType(ErrTypeNotEmpty).
			WithTag("nodes", len(t.nodes))
	}
	return t.newNode(e, Position{}), nil
}

// AddQuadrant attaches a new childless node holding e as the q child of p.
func (t *Tree[E]) AddQuadrant(p Position, q Quadrant, e *E) (Position, error) {
	if _, err := t.validate(p); err != nil {
		return Position{}, err
	}
	if q < NW || q > SE {
		return Position{}, errors.New("unknown quadrant").
			WithType(ErrTypeInvalidPosition).
			WithTag("quadrant", int(q))
	}
	if !t.nodes[p.index].children[q].IsZero() {
		return Position{}, errors.Newf("position already has a %s child", q).
			WithType(ErrTypeQuadrantOccupied).
			WithTag("index", p.index)
	}

	// newNode may grow the arena, so the parent is indexed again afterwards.
	child := t.newNode(e, p)
	t.nodes[p.index].children[q] = child
	return child, nil
}

func (t *Tree[E]) AddNW(p Position, e *E) (Position, error) { return t.AddQuadrant(p, NW, e) }
func (t *Tree[E]) AddNE(p Position, e *E) (Position, error) { return t.AddQuadrant(p, NE, e) }
func (t *Tree[E]) AddSW(p Position, e *E) (Position, error) { return t.AddQuadrant(p, SW, e) }
func (t *Tree[E]) AddSE(p Position, e *E) (Position, error) { return t.AddQuadrant(p, SE, e) }

// Set replaces the element stored at p and returns the previous one.
func (t *Tree[E]) Set(p Position, e *E) (*E, error) {
	n, err := t.validate(p)
	if err != nil {
		return nil, err
	}
	prev := n.element
	n.element = e
	return prev, nil
}

// Remove is not supported: removing a node would break the four children
// invariant callers rely on.
func (t *Tree[E]) Remove(p Position) (*E, error) {
	return nil, errors.New("quadtree only supports adding nodes").
		WithType(ErrTypeUnsupported)
}

// Element returns the element stored at p, nil for an external node.
func (t *Tree[E]) Element(p Position) (*E, error) {
	n, err := t.validate(p)
	if err != nil {
		return nil, err
	}
	return n.element, nil
}

func (t *Tree[E]) Parent(p Position) (Position, error) {
	n, err := t.validate(p)
	if err != nil {
		return Position{}, err
	}
	return n.parent, nil
}

// Child returns the q child of p, or the zero Position if there is none.
func (t *Tree[E]) Child(p Position, q Quadrant) (Position, error) {
	n, err := t.validate(p)
	if err != nil {
		return Position{}, err
	}
	if q < NW || q > SE {
		return Position{}, errors.New("unknown quadrant").
			WithType(ErrTypeInvalidPosition).
			WithTag("quadrant", int(q))
	}
	return n.children[q], nil
}

func (t *Tree[E]) NW(p Position) (Position, error) { return t.Child(p, NW) }
func (t *Tree[E]) NE(p Position) (Position, error) { return t.Child(p, NE) }
func (t *Tree[E]) SW(p Position) (Position, error) { return t.Child(p, SW) }
func (t *Tree[E]) SE(p Position) (Position, error) { return t.Child(p, SE) }

// Children returns the existing children of p in NW, NE, SW, SE order.
func (t *Tree[E]) Children(p Position) ([]Position, error) {
	n, err := t.validate(p)
	if err != nil {
		return nil, err
	}

	children := make([]Position, 0, len(n.children))
	for _, c := range n.children {
		if !c.IsZero() {
			children = append(children, c)
		}
	}
	return children, nil
}

func (t *Tree[E]) NumChildren(p Position) (int, error) {
	children, err := t.Children(p)
	return len(children), err
}

// IsInternal reports whether p holds an element.
func (t *Tree[E]) IsInternal(p Position) (bool, error) {
	n, err := t.validate(p)
	if err != nil {
		return false, err
	}
	return n.element != nil, nil
}

// IsExternal reports whether p is a sentinel leaf without element.
func (t *Tree[E]) IsExternal(p Position) (bool, error) {
	internal, err := t.IsInternal(p)
	return !internal, err
}

func (t *Tree[E]) IsRoot(p Position) (bool, error) {
	n, err := t.validate(p)
	if err != nil {
		return false, err
	}
	return n.parent.IsZero(), nil
}

// Depth returns the number of ancestors of p.
func (t *Tree[E]) Depth(p Position) (int, error) {
	n, err := t.validate(p)
	if err != nil {
		return 0, err
	}

	depth := 0
	for !n.parent.IsZero() {
		depth++
		n = &t.nodes[n.parent.index]
	}
	return depth, nil
}

// Height returns the height of the subtree rooted at p: 0 for a childless
// node, otherwise 1 plus the height of its tallest child.
func (t *Tree[E]) Height(p Position) (int, error) {
	if _, err := t.validate(p); err != nil {
		return 0, err
	}

	height := 0
	level := []Position{p}
	for {
		var next []Position
		for _, pos := range level {
			for _, c := range t.nodes[pos.index].children {
				if !c.IsZero() {
					next = append(next, c)
				}
			}
		}
		if len(next) == 0 {
			return height, nil
		}
		height++
		level = next
	}
}

// BreadthFirst returns the positions of the tree in level order: the root
// first, then each level with children visited NW, NE, SW, SE. Each range
// over the returned sequence restarts the traversal.
func (t *Tree[E]) BreadthFirst() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		if t.IsEmpty() {
			return
		}

		queue := []Position{t.Root()}
		for len(queue) != 0 {
			p := queue[0]
			queue = queue[1:]

			if !yield(p) {
				return
			}

			for _, c := range t.nodes[p.index].children {
				if !c.IsZero() {
					queue = append(queue, c)
				}
			}
		}
	}
}
