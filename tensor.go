package crossassoc

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrShape is returned when a tensor's data does not match its dimensions.
	ErrShape = errors.New("crossassoc: shape mismatch")

	// ErrValue is returned when a tensor entry lies outside its alphabet.
	ErrValue = errors.New("crossassoc: value out of range")
)

// Tensor is a dense N-way array of small non-negative integers. Entries lie
// in [0, Values()). A Tensor is immutable once constructed and may be shared
// by any number of Multiclusterings.
type Tensor struct {
	dims   []int
	data   []int
	values int
}

// NewTensor builds a Tensor with the given per-axis dimensions, flat
// row-major data and alphabet size. The inputs are copied.
func NewTensor(dims []int, data []int, values int) (*Tensor, error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("%w: tensor needs at least one axis", ErrShape)
	}
	for axis, d := range dims {
		if d < 1 {
			return nil, fmt.Errorf("%w: axis %d has dimension %d", ErrShape, axis, d)
		}
	}
	if values < 1 {
		return nil, fmt.Errorf("%w: alphabet size must be >= 1, got %d", ErrValue, values)
	}
	if n := Volume(dims); len(data) != n {
		return nil, fmt.Errorf("%w: data length %d does not match product of dimensions %v = %d", ErrShape, len(data), dims, n)
	}
	for i, v := range data {
		if v < 0 || v >= values {
			return nil, fmt.Errorf("%w: entry %d is %d, want [0, %d)", ErrValue, i, v, values)
		}
	}
	return &Tensor{
		dims:   slices.Clone(dims),
		data:   slices.Clone(data),
		values: values,
	}, nil
}

// Ways returns the number of axes.
func (t *Tensor) Ways() int { return len(t.dims) }

// Dims returns a copy of the per-axis dimensions.
func (t *Tensor) Dims() []int { return slices.Clone(t.dims) }

// Dim returns the number of units on axis.
func (t *Tensor) Dim(axis int) int { return t.dims[axis] }

// Values returns the alphabet size.
func (t *Tensor) Values() int { return t.values }

// Len returns the number of entries.
func (t *Tensor) Len() int { return len(t.data) }

// At returns the entry at coord.
func (t *Tensor) At(coord []int) int {
	return t.data[FlatIndex(coord, t.dims)]
}

// atFlat returns the entry at a flat offset.
func (t *Tensor) atFlat(idx int) int { return t.data[idx] }
