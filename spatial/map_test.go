package spatial

import (
	"math"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/spatialmap/quadtree"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

func smallMap(t *testing.T) *Map[int, int, int] {
	m := New[int, int, int]()
	for i, k := range []Coord[int, int]{
		C(0, 0),
		C(-3, 4),
		C(3, 2),
		C(-5, -6),
		C(6, -5),
		C(10, 12),
		C(7, 7),
	} {
		_, replaced, err := m.Put(k, i)
		require.NoError(t, err)
		require.False(t, replaced)
	}
	requireValidTree(t, m)
	return m
}

func mediumMap(t *testing.T) *Map[int, int, int] {
	m := New[int, int, int]()
	k := 0
	for i := -20; i < 20; i += 8 {
		for j := -20; j < 20; j += 8 {
			_, _, err := m.Put(C(i, j), k)
			require.NoError(t, err)
			k++
		}
	}
	requireValidTree(t, m)
	return m
}

func randomMap(t *testing.T, seed int64, n int) *Map[int, int, int] {
	faker := gofakeit.New(seed)
	m := New[int, int, int]()
	for i := 0; i < n; i++ {
		_, _, err := m.Put(C(faker.IntRange(-1000, 1000), faker.IntRange(-1000, 1000)), i)
		require.NoError(t, err)
	}
	requireValidTree(t, m)
	return m
}

// requireValidTree checks the structural invariants of the tree backing m.
func requireValidTree[X, Y, V any](t *testing.T, m *Map[X, Y, V]) {
	t.Helper()

	nodes := 0
	internal := 0
	for p := range m.tree.BreadthFirst() {
		nodes++

		e, err := m.tree.Element(p)
		require.NoError(t, err)

		children, err := m.tree.Children(p)
		require.NoError(t, err)

		if e == nil {
			require.Empty(t, children, "external nodes have no children")
			continue
		}

		internal++
		require.Len(t, children, 4, "internal nodes have four children")
		for _, c := range children {
			parent, err := m.tree.Parent(c)
			require.NoError(t, err)
			require.Equal(t, p, parent)
		}
	}

	require.Equal(t, m.tree.Len(), nodes)
	require.Equal(t, internal, m.Len())
	require.Equal(t, (m.tree.Len()-1)/4, m.Len())
	require.Zero(t, (m.tree.Len()-1)%4)
}

func TestMapNew(t *testing.T) {
	m := New[float64, float64, string]()
	require.Zero(t, m.Len())
	require.Zero(t, m.Height())
	require.Equal(t, 1, m.tree.Len())
	require.Empty(t, m.Entries())
	requireValidTree(t, m)
}

func TestMapPut(t *testing.T) {
	t.Run("small map", func(t *testing.T) {
		m := smallMap(t)
		require.Equal(t, 7, m.Len())
		require.Equal(t, 4, m.Height())

		v, ok, err := m.Get(C(7, 7))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 6, v)

		prev, replaced, err := m.Put(C(7, 7), 1001)
		require.NoError(t, err)
		require.True(t, replaced)
		require.Equal(t, 6, prev)
		require.Equal(t, 7, m.Len())

		v, ok, err = m.Get(C(7, 7))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 1001, v)
		requireValidTree(t, m)
	})

	t.Run("medium map", func(t *testing.T) {
		m := mediumMap(t)
		require.Equal(t, 25, m.Len())
		require.Equal(t, 9, m.Height())

		_, _, err := m.Put(C(7, 7), 1001)
		require.NoError(t, err)
		_, _, err = m.Put(C(1000, 1000), 1000)
		require.NoError(t, err)
		require.Equal(t, 27, m.Len())

		v, ok, err := m.Get(C(7, 7))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 1001, v)

		v, ok, err = m.Get(C(1000, 1000))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 1000, v)
		requireValidTree(t, m)
	})

	t.Run("new key grows the map by one", func(t *testing.T) {
		m := mediumMap(t)

		prev, replaced, err := m.Put(C(1, 3), 420)
		require.NoError(t, err)
		require.False(t, replaced)
		require.Zero(t, prev)
		require.Equal(t, 26, m.Len())

		prev, replaced, err = m.Put(C(1, 3), 421)
		require.NoError(t, err)
		require.True(t, replaced)
		require.Equal(t, 420, prev)
		require.Equal(t, 26, m.Len())
	})

	t.Run("put then get round trips", func(t *testing.T) {
		faker := gofakeit.New(7)
		m := New[int, int, string]()
		for i := 0; i < 500; i++ {
			k := C(faker.IntRange(-50, 50), faker.IntRange(-50, 50))
			v := faker.LetterN(5)

			_, _, err := m.Put(k, v)
			require.NoError(t, err)

			got, ok, err := m.Get(k)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, v, got)
		}
		requireValidTree(t, m)
	})
}

func TestMapGet(t *testing.T) {
	t.Run("small map", func(t *testing.T) {
		m := smallMap(t)

		for k, want := range map[Coord[int, int]]int{
			C(-5, -6): 3,
			C(7, 7):   6,
			C(0, 0):   0,
		} {
			v, ok, err := m.Get(k)
			require.NoError(t, err)
			require.True(t, ok, k.String())
			require.Equal(t, want, v, k.String())
		}

		for _, k := range []Coord[int, int]{C(0, 2), C(-6, -5)} {
			v, ok, err := m.Get(k)
			require.NoError(t, err)
			require.False(t, ok, k.String())
			require.Zero(t, v)
		}
	})

	t.Run("medium map", func(t *testing.T) {
		m := mediumMap(t)

		for k, want := range map[Coord[int, int]]int{
			C(-20, -12): 1,
			C(-4, -20):  10,
			C(12, -20):  20,
		} {
			v, ok, err := m.Get(k)
			require.NoError(t, err)
			require.True(t, ok, k.String())
			require.Equal(t, want, v, k.String())
		}

		for _, k := range []Coord[int, int]{C(0, 2), C(0, 0)} {
			_, ok, err := m.Get(k)
			require.NoError(t, err)
			require.False(t, ok, k.String())
		}
	})

	t.Run("empty map", func(t *testing.T) {
		m := New[int, int, int]()
		_, ok, err := m.Get(C(0, 0))
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestMapRemove(t *testing.T) {
	m := smallMap(t)
	before := m.Entries()

	for _, k := range []Coord[int, int]{C(0, 0), C(7, 7), C(100, 100)} {
		_, err := m.Remove(k)
		require.Error(t, err)
		require.Equal(t, ErrTypeUnsupported, errors.Type(err))
	}

	require.Equal(t, 7, m.Len())
	require.Equal(t, before, m.Entries())

	_, err := New[int, int, int]().Remove(C(0, 0))
	require.Error(t, err)
	require.Equal(t, ErrTypeUnsupported, errors.Type(err))
}

func TestMapInvalidKey(t *testing.T) {
	t.Run("nan is not a valid key component", func(t *testing.T) {
		m := New[float64, float64, int]()
		_, _, err := m.Put(C(1.0, 2.0), 1)
		require.NoError(t, err)

		for _, k := range []Coord[float64, float64]{
			C(math.NaN(), 2.0),
			C(1.0, math.NaN()),
		} {
			_, _, err := m.Put(k, 2)
			require.Error(t, err)
			require.Equal(t, ErrTypeInvalidKey, errors.Type(err))

			_, _, err = m.Get(k)
			require.Error(t, err)
			require.Equal(t, ErrTypeInvalidKey, errors.Type(err))

			_, err = m.SubMap(k, C(10.0, -10.0), nil)
			require.Error(t, err)
			require.Equal(t, ErrTypeInvalidKey, errors.Type(err))

			_, err = m.SubMapLinear(C(-10.0, 10.0), k, nil)
			require.Error(t, err)
			require.Equal(t, ErrTypeInvalidKey, errors.Type(err))
		}

		require.Equal(t, 1, m.Len())
		requireValidTree(t, m)
	})

	t.Run("comparator failing on a component makes the key invalid", func(t *testing.T) {
		strict := CompareFunc[string](func(a, b string) int {
			if a == "" || b == "" {
				panic("empty strings are not ordered")
			}
			return Natural[string]().Compare(a, b)
		})
		m := NewWithComparators[string, int, int](strict, Natural[int]())

		_, _, err := m.Put(C("", 1), 1)
		require.Error(t, err)
		require.Equal(t, ErrTypeInvalidKey, errors.Type(err))
		require.Zero(t, m.Len())

		_, _, err = m.Put(C("a", 1), 1)
		require.NoError(t, err)
		require.Equal(t, 1, m.Len())
	})
}

func TestMapEntries(t *testing.T) {
	m := smallMap(t)

	// Entries follow the breadth-first order of the tree: (0,0) at the root,
	// then its NW (6,-5), NE (-5,-6), SW (3,2) and SE (-3,4) children, then
	// (10,12) under (3,2) and (7,7) under (10,12).
	var values []int
	for _, e := range m.Entries() {
		values = append(values, e.Value())
	}
	require.Equal(t, []int{0, 4, 3, 2, 1, 5, 6}, values)

	var keys []Coord[int, int]
	for k := range m.All() {
		keys = append(keys, k)
	}
	require.Equal(t, []Coord[int, int]{
		C(0, 0), C(6, -5), C(-5, -6), C(3, 2), C(-3, 4), C(10, 12), C(7, 7),
	}, keys)
}

func TestMapSearchQuadrants(t *testing.T) {
	m := New[int, int, string]()
	_, _, err := m.Put(C(0, 0), "root")
	require.NoError(t, err)

	tests := []struct {
		key      Coord[int, int]
		quadrant quadtree.Quadrant
	}{
		{key: C(1, -1), quadrant: quadtree.NW},
		{key: C(-1, -1), quadrant: quadtree.NE},
		{key: C(1, 1), quadrant: quadtree.SW},
		{key: C(-1, 1), quadrant: quadtree.SE},
	}

	root := m.tree.Root()
	for _, test := range tests {
		t.Run(test.quadrant.String(), func(t *testing.T) {
			_, _, err := m.Put(test.key, test.quadrant.String())
			require.NoError(t, err)

			c, err := m.tree.Child(root, test.quadrant)
			require.NoError(t, err)
			e, err := m.tree.Element(c)
			require.NoError(t, err)
			require.NotNil(t, e)
			require.Equal(t, test.key, e.Key())
		})
	}
}

func TestEntry(t *testing.T) {
	e := NewEntry(C(1.5, -2.0), "quake")
	require.Equal(t, C(1.5, -2.0), e.Key())
	require.Equal(t, "quake", e.Value())
	require.Equal(t, "x1.5y-2=quake", e.String())
}
