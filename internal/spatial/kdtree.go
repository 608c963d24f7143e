package spatial

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
)

// Coord is a planar (longitude, latitude) pair as stored by the index. The
// index operates in raw degree space; callers convert kilometer radii with
// KMToDegrees and recompute reported distances with DistanceKM.
type Coord struct {
	Lon float64
	Lat float64
}

type kdNode struct {
	coord Coord
	idx   int // position in the input slice
	axis  int // 0: lon, 1: lat
	left  *kdNode
	right *kdNode
}

// Index is a KD-tree over a fixed set of points. Immutable after
// construction and safe for concurrent queries.
type Index struct {
	root *kdNode
	size int
}

// NewIndex builds an index over the given points. Building with zero points
// is a configuration error: every downstream metric assumes at least one
// candidate exists.
func NewIndex(coords []Coord) (*Index, error) {
	if len(coords) == 0 {
		return nil, eris.New("spatial: cannot build index over zero points")
	}

	entries := make([]kdNode, len(coords))
	for i, c := range coords {
		entries[i] = kdNode{coord: c, idx: i}
	}

	return &Index{root: build(entries, 0), size: len(coords)}, nil
}

// Len returns the number of indexed points.
func (ix *Index) Len() int { return ix.size }

func build(entries []kdNode, depth int) *kdNode {
	if len(entries) == 0 {
		return nil
	}
	axis := depth % 2
	sort.SliceStable(entries, func(i, j int) bool {
		return axisValue(entries[i].coord, axis) < axisValue(entries[j].coord, axis)
	})
	mid := len(entries) / 2
	node := &entries[mid]
	node.axis = axis
	node.left = build(entries[:mid], depth+1)
	node.right = build(entries[mid+1:], depth+1)
	return node
}

func axisValue(c Coord, axis int) float64 {
	if axis == 0 {
		return c.Lon
	}
	return c.Lat
}

func sqDist(a, b Coord) float64 {
	dx := a.Lon - b.Lon
	dy := a.Lat - b.Lat
	return dx*dx + dy*dy
}

// Nearest returns the index of the stored point closest to q by Euclidean
// distance in degree space, and that planar distance. Equidistant points
// resolve to the lowest index.
func (ix *Index) Nearest(q Coord) (int, float64) {
	bestIdx := -1
	bestSq := math.MaxFloat64

	var walk func(n *kdNode)
	walk = func(n *kdNode) {
		if n == nil {
			return
		}
		d := sqDist(q, n.coord)
		if d < bestSq || (d == bestSq && n.idx < bestIdx) {
			bestSq = d
			bestIdx = n.idx
		}

		delta := axisValue(q, n.axis) - axisValue(n.coord, n.axis)
		near, far := n.left, n.right
		if delta > 0 {
			near, far = n.right, n.left
		}
		walk(near)
		// The far side can still hold the winner when the splitting plane is
		// no farther than the current best, including exact ties where a
		// lower index must win.
		if delta*delta <= bestSq {
			walk(far)
		}
	}
	walk(ix.root)

	return bestIdx, math.Sqrt(bestSq)
}

// WithinRadius returns the indices of all stored points whose degree-space
// Euclidean distance to q is at most radiusDeg. Order is unspecified.
func (ix *Index) WithinRadius(q Coord, radiusDeg float64) []int {
	if radiusDeg < 0 {
		return nil
	}
	rsq := radiusDeg * radiusDeg

	var hits []int
	var walk func(n *kdNode)
	walk = func(n *kdNode) {
		if n == nil {
			return
		}
		if sqDist(q, n.coord) <= rsq {
			hits = append(hits, n.idx)
		}
		delta := axisValue(q, n.axis) - axisValue(n.coord, n.axis)
		if delta <= radiusDeg {
			walk(n.left)
		}
		if -delta <= radiusDeg {
			walk(n.right)
		}
	}
	walk(ix.root)

	return hits
}
