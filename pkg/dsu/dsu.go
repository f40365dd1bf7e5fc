// Package dsu implements a disjoint-set (union-find) forest with union by
// rank and path compression, tracking the live component count in O(1).
package dsu

import "fmt"

// DisjointSet is a forest of n elements indexed 0..n-1.
type DisjointSet struct {
	parent []uint32
	rank   []uint8
	comps  uint32
}

// New constructs a DisjointSet with n singleton sets.
func New(n uint32) *DisjointSet {
	d := &DisjointSet{}
	d.Reset(n)
	return d
}

// Reset discards previous state and initializes n singleton sets.
func (d *DisjointSet) Reset(n uint32) {
	d.parent = make([]uint32, n)
	d.rank = make([]uint8, n)
	for i := range d.parent {
		d.parent[i] = uint32(i)
	}
	d.comps = n
}

// Size returns the number of elements managed.
func (d *DisjointSet) Size() uint32 { return uint32(len(d.parent)) }

func (d *DisjointSet) checkBounds(x uint32) {
	if x >= uint32(len(d.parent)) {
		panic(fmt.Sprintf("dsu: index %d out of range [0,%d)", x, len(d.parent)))
	}
}

// Find returns the root of x, compressing the path traversed.
func (d *DisjointSet) Find(x uint32) uint32 {
	d.checkBounds(x)
	root := x
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[x] != root {
		next := d.parent[x]
		d.parent[x] = root
		x = next
	}
	return root
}

// FindNoCompress returns the root of x without mutating the structure, so
// concurrent read-only callers remain sound.
func (d *DisjointSet) FindNoCompress(x uint32) uint32 {
	d.checkBounds(x)
	root := x
	for d.parent[root] != root {
		root = d.parent[root]
	}
	return root
}

// Unite merges the sets containing a and b, returning the resulting root.
// If a and b are already in the same set, that shared root is returned and
// nothing is mutated.
func (d *DisjointSet) Unite(a, b uint32) uint32 {
	ra, rb := d.Find(a), d.Find(b)
	if ra == rb {
		return ra
	}
	d.comps--
	switch {
	case d.rank[ra] < d.rank[rb]:
		d.parent[ra] = rb
		return rb
	case d.rank[ra] > d.rank[rb]:
		d.parent[rb] = ra
		return ra
	default:
		d.parent[rb] = ra
		d.rank[ra]++
		return ra
	}
}

// Same reports whether a and b belong to the same set.
func (d *DisjointSet) Same(a, b uint32) bool {
	return d.FindNoCompress(a) == d.FindNoCompress(b)
}

// Components returns the current number of disjoint sets.
func (d *DisjointSet) Components() uint32 { return d.comps }

// Roots returns the roots of the current forest, in element order.
func (d *DisjointSet) Roots() []uint32 {
	var roots []uint32
	for x := uint32(0); x < uint32(len(d.parent)); x++ {
		if d.FindNoCompress(x) == x {
			roots = append(roots, x)
		}
	}
	return roots
}
