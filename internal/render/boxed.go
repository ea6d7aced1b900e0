package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TrevorS/crossassoc"
)

const (
	cornerTL = "┌"
	cornerTR = "┐"
	cornerBL = "└"
	cornerBR = "┘"
	vertical = "│"
	horizont = "─"
)

// lineKind selects which line of a box is being drawn.
type lineKind int

const (
	topLine lineKind = iota
	bodyLine
	bottomLine
)

// Clustered writes the 2D slice of m's tensor selected by plane as a grid of
// boxes: one box per row cluster and column cluster, with unit ids along the
// left and top edges.
func Clustered(w io.Writer, m *crossassoc.Multiclustering, plane []int) error {
	t := m.Tensor()
	row, col, err := axes(plane, t.Dims())
	if err != nil {
		return err
	}
	if t.Dim(row) > MaxBoxed || t.Dim(col) > MaxBoxed {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrTooLarge, t.Dim(row), t.Dim(col), MaxBoxed)
	}

	rows, cols := m.Clustering(row), m.Clustering(col)
	coord := make([]int, t.Ways())
	copy(coord, plane)

	bw := bufio.NewWriter(w)
	heading := func(kind lineKind) {
		bw.WriteString("     ")
		for _, members := range cols {
			switch kind {
			case bodyLine:
				bw.WriteString(vertical)
				for _, u := range members {
					fmt.Fprintf(bw, "%2d", u)
				}
				bw.WriteString(" " + vertical)
			default:
				edge(bw, kind, 2*len(members)+1)
			}
		}
		bw.WriteByte('\n')
	}
	heading(topLine)
	heading(bodyLine)
	heading(bottomLine)

	for _, rmembers := range rows {
		rule(bw, topLine, cols, func(members []int) int { return 2*len(members) + 1 })
		for _, r := range rmembers {
			fmt.Fprintf(bw, "%s%2d%s ", vertical, r, vertical)
			coord[row] = r
			for _, cmembers := range cols {
				bw.WriteString(vertical)
				for _, c := range cmembers {
					coord[col] = c
					fmt.Fprintf(bw, "%2d", t.At(coord))
				}
				bw.WriteString(" " + vertical)
			}
			bw.WriteByte('\n')
		}
		rule(bw, bottomLine, cols, func(members []int) int { return 2*len(members) + 1 })
	}
	return bw.Flush()
}

// Model writes the block model of the plane: one box per block, lettered by
// cluster, holding the density of non-zero values in that block. The fixed
// axes select the block that holds the plane's units.
func Model(w io.Writer, m *crossassoc.Multiclustering, plane []int) error {
	t := m.Tensor()
	row, col, err := axes(plane, t.Dims())
	if err != nil {
		return err
	}
	nrows, ncols := m.NumClusters(row), m.NumClusters(col)
	if nrows > MaxBoxed || ncols > MaxBoxed {
		return fmt.Errorf("%w: %dx%d clusters exceeds %d", ErrTooLarge, nrows, ncols, MaxBoxed)
	}

	block := make([]int, t.Ways())
	for axis, p := range plane {
		if p != Free {
			block[axis] = m.Assignments(axis)[p]
		}
	}

	cols := m.Clustering(col)
	width := func([]int) int { return 5 }

	bw := bufio.NewWriter(w)
	bw.WriteString("     ")
	for range cols {
		edge(bw, topLine, 5)
	}
	bw.WriteString("\n     ")
	for c := range cols {
		fmt.Fprintf(bw, "%s %2s  %s", vertical, clusterName(c), vertical)
	}
	bw.WriteString("\n     ")
	for range cols {
		edge(bw, bottomLine, 5)
	}
	bw.WriteByte('\n')

	for r := 0; r < nrows; r++ {
		rule(bw, topLine, cols, width)
		fmt.Fprintf(bw, "%s%2s%s ", vertical, clusterName(r), vertical)
		block[row] = r
		for c := range cols {
			block[col] = c
			bw.WriteString(vertical)
			bw.WriteString(strconv.FormatFloat(density(m.BlockFrequencies(block)), 'f', 3, 64))
			bw.WriteString(vertical)
		}
		bw.WriteByte('\n')
		rule(bw, bottomLine, cols, width)
	}
	return bw.Flush()
}

// rule draws the top or bottom line of a band of boxes, including the box
// around the row label.
func rule(bw *bufio.Writer, kind lineKind, cols crossassoc.Clustering, width func([]int) int) {
	edge(bw, kind, 2)
	bw.WriteByte(' ')
	for _, members := range cols {
		edge(bw, kind, width(members))
	}
	bw.WriteByte('\n')
}

// edge draws one box edge of the given inner width.
func edge(bw *bufio.Writer, kind lineKind, width int) {
	left, right := cornerTL, cornerTR
	if kind == bottomLine {
		left, right = cornerBL, cornerBR
	}
	bw.WriteString(left)
	bw.WriteString(strings.Repeat(horizont, width))
	bw.WriteString(right)
}

// density is the share of non-zero values.
func density(freqs []float64) float64 {
	d := 0.0
	for _, f := range freqs[1:] {
		d += f
	}
	return d
}

func clusterName(c int) string {
	if c < 26 {
		return string(rune('A' + c))
	}
	return strconv.Itoa(c)
}
