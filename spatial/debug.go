package spatial

import (
	"io"

	"github.com/aukilabs/spatialmap/quadtree"
	"github.com/xlab/treeprint"
)

type DebugInfo struct {
	Entries       int `json:"entries"`
	Nodes         int `json:"nodes"`
	ExternalNodes int `json:"external_nodes"`
	Height        int `json:"height"`
	MinHeight     int `json:"min_height"`
}

// Height returns the height of the whole tree, sentinel leaves included.
func (m *Map[X, Y, V]) Height() int {
	h, err := m.tree.Height(m.tree.Root())
	if err != nil {
		panic(err)
	}
	return h
}

// MinHeight returns the smallest height a tree holding n entries could have,
// the ceiling of log4(n).
func MinHeight(n int) int {
	h := 0
	for capacity := 1; capacity < n; capacity *= 4 {
		h++
	}
	return h
}

func (m *Map[X, Y, V]) DebugInfo() DebugInfo {
	entries := m.Len()
	return DebugInfo{
		Entries:       entries,
		Nodes:         m.tree.Len(),
		ExternalNodes: m.tree.Len() - entries,
		Height:        m.Height(),
		MinHeight:     MinHeight(entries),
	}
}

// Dump writes the structure of the tree to w. Internal nodes are labelled with
// their key and the quadrant they hang from, sentinel leaves with "leaf".
func (m *Map[X, Y, V]) Dump(w io.Writer) error {
	root := m.tree.Root()

	var tree treeprint.Tree
	if e := m.element(root); e != nil {
		tree = treeprint.NewWithRoot(e.key.String() + "-ROOT")
		m.dumpChildren(tree, root)
	} else {
		tree = treeprint.NewWithRoot("leaf-ROOT")
	}

	_, err := io.WriteString(w, tree.String())
	return err
}

func (m *Map[X, Y, V]) dumpChildren(branch treeprint.Tree, p quadtree.Position) {
	for _, q := range quadtree.Quadrants {
		c := m.child(p, q)
		e := m.element(c)
		if e == nil {
			branch.AddNode("leaf-" + q.String())
			continue
		}
		m.dumpChildren(branch.AddBranch(e.key.String()+"-"+q.String()), c)
	}
}
