package crossassoc

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"
)

// FlatIndex maps a coordinate tuple to its offset in a dense row-major array
// with the given dimensions (the last axis varies fastest).
//
// It panics if len(coord) != len(dims) or any coordinate is out of range.
func FlatIndex(coord, dims []int) int {
	if len(coord) != len(dims) {
		panic(fmt.Sprintf("crossassoc: coordinate rank %d does not match dimensions rank %d", len(coord), len(dims)))
	}
	if len(dims) == 0 {
		return 0
	}
	return combin.IdxFor(coord, dims)
}

// Unflatten is the inverse of FlatIndex. If dst is non-nil the coordinate is
// written into it and dst must have len(dims) elements.
func Unflatten(dst []int, idx int, dims []int) []int {
	if dst != nil && len(dst) != len(dims) {
		panic(fmt.Sprintf("crossassoc: destination rank %d does not match dimensions rank %d", len(dst), len(dims)))
	}
	if len(dims) == 0 {
		if idx != 0 {
			panic("crossassoc: flat index out of range")
		}
		if dst == nil {
			return []int{}
		}
		return dst
	}
	if idx < 0 || idx >= Volume(dims) {
		panic(fmt.Sprintf("crossassoc: flat index %d out of range for dimensions %v", idx, dims))
	}
	return combin.SubFor(dst, idx, dims)
}

// Volume returns the number of cells in a dense array with the given
// dimensions. An empty shape has volume 1.
func Volume(dims []int) int {
	if len(dims) == 0 {
		return 1
	}
	return combin.Card(dims)
}
