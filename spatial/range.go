package spatial

import "github.com/aukilabs/spatialmap/quadtree"

// inRange reports whether key lies in the rectangle spanned by the nw and se
// corners, boundaries included. North means greater Y, west means lesser X.
func (m *Map[X, Y, V]) inRange(key, nw, se Coord[X, Y]) bool {
	return m.compX.Compare(key.X, nw.X) >= 0 &&
		m.compX.Compare(key.X, se.X) <= 0 &&
		m.compY.Compare(key.Y, nw.Y) <= 0 &&
		m.compY.Compare(key.Y, se.Y) >= 0
}

// SubMapLinear returns the entries whose key lies in the rectangle spanned by
// the nw and se corners, boundaries included, by testing every entry of the
// map. visit is called for each entry tested.
func (m *Map[X, Y, V]) SubMapLinear(nw, se Coord[X, Y], visit Visitor[X, Y, V]) ([]Entry[X, Y, V], error) {
	if err := m.checkKey(nw); err != nil {
		return nil, err
	}
	if err := m.checkKey(se); err != nil {
		return nil, err
	}

	var entries []Entry[X, Y, V]
	for p := range m.tree.BreadthFirst() {
		e := m.element(p)
		if e == nil {
			continue
		}

		visit.call(*e)
		if m.inRange(e.key, nw, se) {
			entries = append(entries, *e)
		}
	}
	return entries, nil
}

// SubMap returns the same entries as SubMapLinear, exploring only the
// subtrees that can intersect the rectangle. visit is called for each entry
// explored.
//
// A rectangle whose nw corner is not strictly west and north of its se corner
// is empty: no entry is explored.
func (m *Map[X, Y, V]) SubMap(nw, se Coord[X, Y], visit Visitor[X, Y, V]) ([]Entry[X, Y, V], error) {
	if err := m.checkKey(nw); err != nil {
		return nil, err
	}
	if err := m.checkKey(se); err != nil {
		return nil, err
	}

	var entries []Entry[X, Y, V]
	if m.compX.Compare(nw.X, se.X) >= 0 || m.compY.Compare(nw.Y, se.Y) <= 0 {
		return entries, nil
	}

	// Children are pushed in reverse so they are popped in the order
	// NE, NW, (SE,) SW.
	stack := []quadtree.Position{m.tree.Root()}
	for len(stack) != 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		e := m.element(p)
		if e == nil {
			continue
		}
		visit.call(*e)

		xNW := m.compX.Compare(e.key.X, nw.X)
		yNW := m.compY.Compare(e.key.Y, nw.Y)

		// The SE subtree only holds keys west of or level with p and strictly
		// north of it: none of them is in range when p is west or north of
		// the nw corner.
		if xNW < 0 || yNW > 0 {
			stack = append(stack,
				m.child(p, quadtree.SW),
				m.child(p, quadtree.NW),
				m.child(p, quadtree.NE),
			)
			continue
		}

		xSE := m.compX.Compare(e.key.X, se.X)
		ySE := m.compY.Compare(e.key.Y, se.Y)
		if xSE <= 0 && ySE >= 0 {
			entries = append(entries, *e)
		}
		stack = append(stack,
			m.child(p, quadtree.SW),
			m.child(p, quadtree.SE),
			m.child(p, quadtree.NW),
			m.child(p, quadtree.NE),
		)
	}
	return entries, nil
}
