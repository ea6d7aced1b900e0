// Package dataset loads a cross-association input directory: a sparse
// data.txt describing the tensor and an optional labels.txt naming the units
// of every axis. Either file may be gzip or zstd compressed.
package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/TrevorS/crossassoc"
)

const (
	// DataFile is the base name of the tensor file.
	DataFile = "data.txt"

	// LabelsFile is the base name of the unit labels file.
	LabelsFile = "labels.txt"
)

// ErrFormat is returned when an input file is malformed.
var ErrFormat = errors.New("dataset: malformed input")

// Header is the first line of a data file.
type Header struct {
	// Modes holds the length of every mode. Several axes may share a mode,
	// for example the two sides of a square relation.
	Modes []int

	// AxisModes maps each axis to its mode.
	AxisModes []int

	// Values is the alphabet size.
	Values int
}

// Dims returns the length of every axis.
func (h Header) Dims() []int {
	dims := make([]int, len(h.AxisModes))
	for axis, mode := range h.AxisModes {
		dims[axis] = h.Modes[mode]
	}
	return dims
}

// Dataset is a loaded input directory.
type Dataset struct {
	Header Header
	Tensor *crossassoc.Tensor

	// Labels holds one label per unit of every axis.
	Labels [][]string
}

// Load reads DataFile and LabelsFile from dir, trying the plain name first
// and then the .gz and .zst variants. The two files are parsed concurrently.
// A missing labels file yields numeric labels.
func Load(ctx context.Context, dir string) (*Dataset, error) {
	dataPath, err := find(dir, DataFile)
	if err != nil {
		return nil, err
	}
	labelsPath, err := find(dir, LabelsFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var (
		header Header
		tensor *crossassoc.Tensor
		labels [][]string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := open(dataPath)
		if err != nil {
			return err
		}
		defer r.Close()
		header, tensor, err = ParseData(ctx, r)
		if err != nil {
			return fmt.Errorf("%s: %w", dataPath, err)
		}
		return nil
	})
	if labelsPath != "" {
		g.Go(func() error {
			r, err := open(labelsPath)
			if err != nil {
				return err
			}
			defer r.Close()
			labels, err = ParseLabels(r)
			if err != nil {
				return fmt.Errorf("%s: %w", labelsPath, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dims := header.Dims()
	if labelsPath == "" {
		labels = NumericLabels(dims)
	} else if err := checkLabels(labels, dims); err != nil {
		return nil, fmt.Errorf("%s: %w", labelsPath, err)
	}

	return &Dataset{Header: header, Tensor: tensor, Labels: labels}, nil
}

// ParseData reads a data file. The header line is
//
//	modes d_0 ... d_{modes-1} ways m_0 ... m_{ways-1} values
//
// and every following non-blank line holds one entry as
//
//	c_0 ... c_{ways-1} value
//
// Entries that are not listed are 0. With a binary alphabet any non-zero
// value is stored as 1; otherwise values must lie in [0, values).
func ParseData(ctx context.Context, r io.Reader) (Header, *crossassoc.Tensor, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return Header{}, nil, err
		}
		return Header{}, nil, fmt.Errorf("%w: empty data file", ErrFormat)
	}
	header, err := parseHeader(sc.Text())
	if err != nil {
		return Header{}, nil, fmt.Errorf("line 1: %w", err)
	}

	dims := header.Dims()
	data := make([]int, crossassoc.Volume(dims))
	ways := len(dims)
	coord := make([]int, ways)

	for line := 2; sc.Scan(); line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return Header{}, nil, err
			}
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != ways+1 {
			return Header{}, nil, fmt.Errorf("%w: line %d: want %d fields, got %d", ErrFormat, line, ways+1, len(fields))
		}
		nums, err := atoiAll(fields)
		if err != nil {
			return Header{}, nil, fmt.Errorf("%w: line %d: %w", ErrFormat, line, err)
		}
		for axis := range coord {
			coord[axis] = nums[axis]
			if coord[axis] < 0 || coord[axis] >= dims[axis] {
				return Header{}, nil, fmt.Errorf("%w: line %d: coordinate %d on axis %d, want [0, %d)", ErrFormat, line, coord[axis], axis, dims[axis])
			}
		}
		value := nums[ways]
		if header.Values == 2 {
			if value != 0 {
				value = 1
			}
		} else if value < 0 || value >= header.Values {
			return Header{}, nil, fmt.Errorf("%w: line %d: value %d, want [0, %d)", ErrFormat, line, value, header.Values)
		}
		data[crossassoc.FlatIndex(coord, dims)] = value
	}
	if err := sc.Err(); err != nil {
		return Header{}, nil, err
	}

	tensor, err := crossassoc.NewTensor(dims, data, header.Values)
	if err != nil {
		return Header{}, nil, err
	}
	return header, tensor, nil
}

func parseHeader(line string) (Header, error) {
	nums, err := atoiAll(strings.Fields(line))
	if err != nil {
		return Header{}, fmt.Errorf("%w: header: %w", ErrFormat, err)
	}
	next := func(what string) (int, error) {
		if len(nums) == 0 {
			return 0, fmt.Errorf("%w: header ends before %s", ErrFormat, what)
		}
		n := nums[0]
		nums = nums[1:]
		return n, nil
	}

	var h Header
	modes, err := next("mode count")
	if err != nil {
		return Header{}, err
	}
	if modes < 1 {
		return Header{}, fmt.Errorf("%w: header: mode count must be >= 1, got %d", ErrFormat, modes)
	}
	h.Modes = make([]int, modes)
	for i := range h.Modes {
		if h.Modes[i], err = next("mode length"); err != nil {
			return Header{}, err
		}
		if h.Modes[i] < 1 {
			return Header{}, fmt.Errorf("%w: header: mode %d has length %d", ErrFormat, i, h.Modes[i])
		}
	}

	ways, err := next("way count")
	if err != nil {
		return Header{}, err
	}
	if ways < 1 {
		return Header{}, fmt.Errorf("%w: header: way count must be >= 1, got %d", ErrFormat, ways)
	}
	h.AxisModes = make([]int, ways)
	for i := range h.AxisModes {
		if h.AxisModes[i], err = next("axis mode"); err != nil {
			return Header{}, err
		}
		if h.AxisModes[i] < 0 || h.AxisModes[i] >= modes {
			return Header{}, fmt.Errorf("%w: header: axis %d maps to mode %d, want [0, %d)", ErrFormat, i, h.AxisModes[i], modes)
		}
	}

	if h.Values, err = next("alphabet size"); err != nil {
		return Header{}, err
	}
	if h.Values < 1 {
		return Header{}, fmt.Errorf("%w: header: alphabet size must be >= 1, got %d", ErrFormat, h.Values)
	}
	if len(nums) != 0 {
		return Header{}, fmt.Errorf("%w: header: %d trailing fields", ErrFormat, len(nums))
	}
	return h, nil
}

// ParseLabels reads a labels file: one label per line, with blank lines
// separating axes. Runs of blank lines count as one separator, and leading
// or trailing blank lines are ignored.
func ParseLabels(r io.Reader) ([][]string, error) {
	var (
		labels  [][]string
		current []string
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		label := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(label) == "" {
			if current != nil {
				labels = append(labels, current)
				current = nil
			}
			continue
		}
		current = append(current, label)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if current != nil {
		labels = append(labels, current)
	}
	return labels, nil
}

func checkLabels(labels [][]string, dims []int) error {
	if len(labels) != len(dims) {
		return fmt.Errorf("%w: %d label groups for %d axes", ErrFormat, len(labels), len(dims))
	}
	for axis, l := range labels {
		if len(l) != dims[axis] {
			return fmt.Errorf("%w: axis %d has %d labels for %d units", ErrFormat, axis, len(l), dims[axis])
		}
	}
	return nil
}

// NumericLabels labels every unit with its id.
func NumericLabels(dims []int) [][]string {
	labels := make([][]string, len(dims))
	for axis, d := range dims {
		labels[axis] = make([]string, d)
		for u := range labels[axis] {
			labels[axis][u] = strconv.Itoa(u)
		}
	}
	return labels
}

func atoiAll(fields []string) ([]int, error) {
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		nums[i] = n
	}
	return nums, nil
}
