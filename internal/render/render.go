// Package render draws tensors and multiclusterings as text: plain and
// boxed 2D slices, the blocked matrix, the block model, cluster listings and
// block densities.
package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TrevorS/crossassoc"
)

// MaxBoxed is the largest number of rows or columns the boxed views draw.
const MaxBoxed = 25

var (
	// ErrPlane is returned for a plane that does not select exactly two
	// free axes with every other coordinate in range.
	ErrPlane = errors.New("render: invalid plane")

	// ErrTooLarge is returned when a boxed view would exceed MaxBoxed rows
	// or columns.
	ErrTooLarge = errors.New("render: slice too large to draw")
)

// Free marks an axis of a plane that is drawn rather than held fixed.
const Free = -1

// DefaultPlane frees the first two axes and fixes the others at 0.
func DefaultPlane(ways int) []int {
	plane := make([]int, ways)
	for axis := 0; axis < ways && axis < 2; axis++ {
		plane[axis] = Free
	}
	return plane
}

// ParsePlane parses a comma-separated plane such as "-1,-1,3".
func ParsePlane(s string, ways int) ([]int, error) {
	fields := strings.Split(s, ",")
	if len(fields) != ways {
		return nil, fmt.Errorf("%w: %q has %d entries for %d axes", ErrPlane, s, len(fields), ways)
	}
	plane := make([]int, ways)
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrPlane, s, err)
		}
		plane[i] = n
	}
	return plane, nil
}

// axes returns the row and column axes of plane after checking it against
// dims.
func axes(plane, dims []int) (row, col int, err error) {
	if len(plane) != len(dims) {
		return 0, 0, fmt.Errorf("%w: %d entries for %d axes", ErrPlane, len(plane), len(dims))
	}
	var free []int
	for axis, p := range plane {
		switch {
		case p == Free:
			free = append(free, axis)
		case p < 0 || p >= dims[axis]:
			return 0, 0, fmt.Errorf("%w: coordinate %d on axis %d, want [0, %d)", ErrPlane, p, axis, dims[axis])
		}
	}
	if len(free) != 2 {
		return 0, 0, fmt.Errorf("%w: %d free axes, want 2", ErrPlane, len(free))
	}
	return free[0], free[1], nil
}

// Slice writes the 2D slice of t selected by plane, one line per row, with
// the entries of a row run together.
func Slice(w io.Writer, t *crossassoc.Tensor, plane []int) error {
	dims := t.Dims()
	_, col, err := axes(plane, dims)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fixed := make([]bool, len(dims))
	for axis, p := range plane {
		fixed[axis] = p != Free
	}
	c := crossassoc.NewRangeCursor(dims, fixed)
	pos := make([]int, len(dims))
	for axis, p := range plane {
		if p != Free {
			pos[axis] = p
		}
	}
	c.Set(pos)

	for coord := range c.All() {
		fmt.Fprint(bw, t.At(coord))
		if coord[col] == dims[col]-1 {
			bw.WriteString(" \n")
		}
	}
	return bw.Flush()
}

// Blocked writes the first two axes of m's tensor with rows and columns
// grouped by cluster. Column clusters are separated by a space and row
// clusters by a blank line. Any further axes are held at unit 0.
func Blocked(w io.Writer, m *crossassoc.Multiclustering) error {
	t := m.Tensor()
	if t.Ways() < 2 {
		return fmt.Errorf("%w: a blocked matrix needs two axes, tensor has %d", ErrPlane, t.Ways())
	}
	rows, cols := m.Clustering(0), m.Clustering(1)

	bw := bufio.NewWriter(w)
	coord := make([]int, t.Ways())
	for rc, rmembers := range rows {
		for _, r := range rmembers {
			coord[0] = r
			for _, cmembers := range cols {
				for _, c := range cmembers {
					coord[1] = c
					fmt.Fprint(bw, t.At(coord))
				}
				bw.WriteByte(' ')
			}
			bw.WriteByte('\n')
		}
		if rc < len(rows)-1 {
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// Clusterings writes the clusters of axis, one unit per line as its id and
// label, with a blank line between clusters.
func Clusterings(w io.Writer, m *crossassoc.Multiclustering, axis int, labels []string) error {
	clustering := m.Clustering(axis)
	if len(labels) != m.Tensor().Dim(axis) {
		return fmt.Errorf("render: %d labels for %d units on axis %d", len(labels), m.Tensor().Dim(axis), axis)
	}

	bw := bufio.NewWriter(w)
	for c, members := range clustering {
		fmt.Fprintf(bw, "cluster %d\n", c)
		for _, u := range members {
			fmt.Fprintf(bw, "%6d %s\n", u, labels[u])
		}
		if c < len(clustering)-1 {
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// Densities writes one line per block of the grid: the block tuple followed
// by the frequency of every value.
func Densities(w io.Writer, m *crossassoc.Multiclustering) error {
	dims := m.BlockingDims()
	bw := bufio.NewWriter(w)
	c := crossassoc.NewRangeCursor(dims, make([]bool, len(dims)))
	for block := range c.All() {
		fields := make([]string, 0, len(block)+m.Tensor().Values())
		for _, b := range block {
			fields = append(fields, strconv.Itoa(b))
		}
		for _, f := range m.BlockFrequencies(block) {
			fields = append(fields, strconv.FormatFloat(f, 'f', 2, 64))
		}
		bw.WriteString(strings.Join(fields, " "))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
