package spatial

import (
	"math"

	"github.com/san-kum/verletsim/internal/dynamo"
)

// Hash multipliers for combining cell coordinates into a key.
const (
	HashP1 = 73856093
	HashP2 = 19349663
)

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y int
}

// Hash maps slot indices to cells keyed by their hashed coordinates.
// Entries are non-owning: a slot refers into a collection owned by the
// caller and is only meaningful until the next Clear.
type Hash struct {
	cellSize float64
	buckets  map[int][]int
	spare    [][]int
	entries  int
}

// New returns an empty hash with the given cell size.
func New(cellSize float64) (*Hash, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, &dynamo.ConfigError{Field: "cell_size", Value: cellSize, Reason: "must be positive and finite"}
	}
	return &Hash{
		cellSize: cellSize,
		buckets:  make(map[int][]int),
	}, nil
}

// CellSize returns the edge length of a cell.
func (h *Hash) CellSize() float64 { return h.cellSize }

// Len returns the number of inserted entries.
func (h *Hash) Len() int { return h.entries }

// Buckets returns the number of non-empty cells.
func (h *Hash) Buckets() int { return len(h.buckets) }

// CellOf returns the cell containing pos. Floor keeps negative coordinates
// in the correct (more negative) cell.
func (h *Hash) CellOf(pos dynamo.Vec2) Cell {
	return Cell{
		X: int(math.Floor(pos.X / h.cellSize)),
		Y: int(math.Floor(pos.Y / h.cellSize)),
	}
}

// Key combines cell coordinates. Insert and Query both derive keys here.
func Key(c Cell) int {
	return (c.X * HashP1) ^ (c.Y * HashP2)
}

// Clear removes every entry. Bucket storage is kept for reuse but no map
// entry survives.
func (h *Hash) Clear() {
	for k, b := range h.buckets {
		h.spare = append(h.spare, b[:0])
		delete(h.buckets, k)
	}
	h.entries = 0
}

// Insert appends slot to the bucket of the cell containing pos. Inserting
// the same slot twice stores it twice.
func (h *Hash) Insert(slot int, pos dynamo.Vec2) {
	key := Key(h.CellOf(pos))
	b, ok := h.buckets[key]
	if !ok {
		b = h.bucket()
	}
	h.buckets[key] = append(b, slot)
	h.entries++
}

func (h *Hash) bucket() []int {
	if n := len(h.spare); n > 0 {
		b := h.spare[n-1]
		h.spare = h.spare[:n-1]
		return b
	}
	return make([]int, 0, 8)
}

// Query appends to dst every slot stored in the 3x3 block of cells around
// pos and returns the extended slice. The block includes the home cell, so
// a particle queried at its own position finds itself. When two cells of
// the block hash to the same key the bucket is visited once.
func (h *Hash) Query(pos dynamo.Vec2, dst []int) []int {
	return h.QueryCell(h.CellOf(pos), dst)
}

// QueryCell is Query starting from an explicit home cell.
func (h *Hash) QueryCell(home Cell, dst []int) []int {
	var seen [9]int
	n := 0

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			key := Key(Cell{home.X + dx, home.Y + dy})
			if containsKey(seen[:n], key) {
				continue
			}
			seen[n] = key
			n++

			if b, ok := h.buckets[key]; ok {
				dst = append(dst, b...)
			}
		}
	}
	return dst
}

func containsKey(keys []int, key int) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
