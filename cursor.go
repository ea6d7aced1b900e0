package crossassoc

import (
	"fmt"
	"iter"
	"slices"
)

// Cursor enumerates coordinate tuples over the Cartesian product of per-axis
// index domains. Axes marked fixed keep the position set by the caller; the
// others advance like an odometer with the last iterated axis as the least
// significant digit.
//
// A domain is an ordered list of unit ids. Positions index into the domain,
// so a cursor can walk an arbitrary subset of an axis (a cluster's members)
// as easily as the full 0..dim-1 range.
//
// Typical use:
//
//	c := NewRangeCursor(dims, fixed)
//	for c.Reset(); !c.End(); c.Forward() {
//		coord := c.Tuple()
//		...
//	}
type Cursor struct {
	domains [][]int
	sizes   []int
	fixed   []bool
	pos     []int

	// last is the rightmost iterated axis, or -1 when every axis is fixed.
	last int
	// done marks the end state of a cursor with no iterated axes.
	done bool
}

// NewCursor returns a cursor over the given per-axis domains. fixed[i]
// excludes axis i from iteration. The cursor starts reset, with every
// position at 0.
func NewCursor(domains [][]int, fixed []bool) *Cursor {
	if len(domains) != len(fixed) {
		panic(fmt.Sprintf("crossassoc: cursor has %d domains but mask of length %d", len(domains), len(fixed)))
	}
	c := &Cursor{
		domains: domains,
		sizes:   make([]int, len(domains)),
		fixed:   slices.Clone(fixed),
		pos:     make([]int, len(domains)),
		last:    -1,
	}
	for i, d := range domains {
		c.sizes[i] = len(d)
		if !fixed[i] {
			c.last = i
		}
	}
	c.Reset()
	return c
}

// NewRangeCursor returns a cursor whose domain on axis i is 0..dims[i]-1.
func NewRangeCursor(dims []int, fixed []bool) *Cursor {
	domains := make([][]int, len(dims))
	for i, d := range dims {
		domains[i] = identity(d)
	}
	return NewCursor(domains, fixed)
}

// identity returns [0, 1, ..., n-1].
func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Reset zeroes every iterated axis. Fixed axes keep their position. If any
// iterated domain is empty the cursor is placed directly at its end state.
func (c *Cursor) Reset() {
	c.done = false
	empty := false
	for i := range c.pos {
		if c.fixed[i] {
			continue
		}
		c.pos[i] = 0
		if c.sizes[i] == 0 {
			empty = true
		}
	}
	if empty {
		c.pos[c.last] = c.sizes[c.last]
	}
}

// Set overwrites the whole position tuple.
func (c *Cursor) Set(pos []int) {
	if len(pos) != len(c.pos) {
		panic(fmt.Sprintf("crossassoc: cursor position of length %d, want %d", len(pos), len(c.pos)))
	}
	copy(c.pos, pos)
	c.done = false
}

// Forward advances to the next tuple. After the last tuple the rightmost
// iterated axis is driven one past its bound, which is the unique end state.
// Forward panics if the cursor is already at the end.
func (c *Cursor) Forward() {
	if c.End() {
		panic("crossassoc: cursor advanced past end")
	}
	if c.last < 0 {
		c.done = true
		return
	}

	if c.atLast() {
		c.pos[c.last]++
		return
	}

	for i := c.last; i >= 0; i-- {
		if c.fixed[i] {
			continue
		}
		if c.pos[i] == c.sizes[i]-1 {
			c.pos[i] = 0
			continue
		}
		c.pos[i]++
		return
	}
}

// atLast reports whether every iterated axis is at its final position.
func (c *Cursor) atLast() bool {
	for i, p := range c.pos {
		if !c.fixed[i] && p != c.sizes[i]-1 {
			return false
		}
	}
	return true
}

// End reports whether the cursor has moved past the last tuple.
func (c *Cursor) End() bool {
	if c.last < 0 {
		return c.done
	}
	return c.pos[c.last] == c.sizes[c.last]
}

// Position returns a copy of the position tuple (indices into the domains).
func (c *Cursor) Position() []int { return slices.Clone(c.pos) }

// Tuple returns the unit ids at the current position.
func (c *Cursor) Tuple() []int {
	return c.TupleInto(make([]int, len(c.pos)))
}

// TupleInto writes the unit ids at the current position into dst and
// returns it.
func (c *Cursor) TupleInto(dst []int) []int {
	for i, p := range c.pos {
		dst[i] = c.domains[i][p]
	}
	return dst
}

// SubTuple returns the unit ids of the iterated axes only.
func (c *Cursor) SubTuple() []int {
	sub := make([]int, 0, len(c.pos))
	for i, p := range c.pos {
		if !c.fixed[i] {
			sub = append(sub, c.domains[i][p])
		}
	}
	return sub
}

// SubDims returns the domain sizes of the iterated axes only.
func (c *Cursor) SubDims() []int {
	sub := make([]int, 0, len(c.pos))
	for i, n := range c.sizes {
		if !c.fixed[i] {
			sub = append(sub, n)
		}
	}
	return sub
}

// SubIndex returns the row-major offset of the current position within the
// reduced shape SubDims. It lets callers address a table sized only by the
// iterated axes.
func (c *Cursor) SubIndex() int {
	idx := 0
	for i, p := range c.pos {
		if !c.fixed[i] {
			idx = idx*c.sizes[i] + p
		}
	}
	return idx
}

// All resets the cursor and returns the enumeration as a sequence. Each
// yielded tuple is a fresh slice of unit ids. The sequence can be ranged over
// again, which restarts it.
func (c *Cursor) All() iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		for c.Reset(); !c.End(); c.Forward() {
			if !yield(c.Tuple()) {
				return
			}
		}
	}
}
