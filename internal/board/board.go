package board

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Size  = 3
	Cells = Size * Size

	// MaxValue is the largest value a cell can hold. The merge rule
	// never produces a value above 6, and 6-valued cells are inert.
	MaxValue = 6

	// ChecksumModulo bounds every checksum and aggregate sum.
	ChecksumModulo = 1 << 30

	cellBits = 4
	cellMask = 0xF

	// A cell fingerprint occupies 4 bits, so the whole grid fits in
	// the low 36 bits of a uint64.
	FingerprintBits = Cells * cellBits
)

var ErrInvalidInput = errors.New("invalid input")

// Board is a 3x3 grid packed into a uint64, four bits per cell. Cell
// index is row*Size+col with index 0 in the lowest nibble. Boards are
// values: transitions return a new Board and never mutate in place.
type Board struct {
	state uint64
}

func FromRows(rows [][]int) (Board, error) {
	if len(rows) != Size {
		return Board{}, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidInput, Size, len(rows))
	}
	var b Board
	for i, row := range rows {
		if len(row) != Size {
			return Board{}, fmt.Errorf("%w: row %d has %d values, expected %d", ErrInvalidInput, i, len(row), Size)
		}
		for j, value := range row {
			if value < 0 || value > MaxValue {
				return Board{}, fmt.Errorf("%w: cell (%d,%d) value %d outside 0..%d", ErrInvalidInput, i, j, value, MaxValue)
			}
			b = b.withCell(i*Size+j, value)
		}
	}
	return b, nil
}

func FromFingerprint(fingerprint uint64) Board {
	return Board{state: fingerprint & ((1 << FingerprintBits) - 1)}
}

func (b Board) At(idx int) int {
	return int((b.state >> (uint(idx) * cellBits)) & cellMask)
}

func (b Board) withCell(idx, value int) Board {
	shift := uint(idx) * cellBits
	return Board{state: (b.state &^ (cellMask << shift)) | (uint64(value&cellMask) << shift)}
}

// Full reports whether every cell is non-zero. Each nibble is collapsed
// to its lowest bit before the mask compare.
func (b Board) Full() bool {
	anyBit := b.state | (b.state >> 1) | (b.state >> 2) | (b.state >> 3)
	return anyBit&0x111111111 == 0x111111111
}

func (b Board) CountEmpty() int {
	count := 0
	for idx := 0; idx < Cells; idx++ {
		if b.At(idx) == 0 {
			count++
		}
	}
	return count
}

// Fingerprint returns the canonical equality key for the board. Two
// boards have equal fingerprints iff they are cell-wise equal.
func (b Board) Fingerprint() uint64 {
	return b.state
}

// Checksum is the terminal evaluation: the decimal number formed by
// reading cells in index order, cell 0 most significant, modulo 2^30.
func (b Board) Checksum() uint64 {
	state := b.state
	var hash uint64
	for idx := 0; idx < Cells; idx++ {
		hash = (hash*10 + (state & cellMask)) & (ChecksumModulo - 1)
		state >>= cellBits
	}
	return hash
}

func (b Board) Rows() [][]int {
	rows := make([][]int, Size)
	for i := 0; i < Size; i++ {
		rows[i] = make([]int, Size)
		for j := 0; j < Size; j++ {
			rows[i][j] = b.At(i*Size + j)
		}
	}
	return rows
}

func (b Board) String() string {
	var sb strings.Builder
	for i := 0; i < Size; i++ {
		if i > 0 {
			sb.WriteByte('/')
		}
		for j := 0; j < Size; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d", b.At(i*Size+j))
		}
	}
	return sb.String()
}
