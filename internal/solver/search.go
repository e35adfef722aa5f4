package solver

import (
	"fmt"
	"time"

	"github.com/enixame/spring-challenge-2025/internal/board"
)

const (
	sumMask = board.ChecksumModulo - 1

	// DefaultMemoSize and DefaultMemoBuckets size the table for a
	// fresh single-shot solve.
	DefaultMemoSize    = 1 << 16
	DefaultMemoBuckets = 4
)

// Stats counts the work done by one exploration.
type Stats struct {
	Nodes     uint64        `json:"nodes"`
	Terminals uint64        `json:"terminals"`
	CacheHits uint64        `json:"cache_hits"`
	CacheMiss uint64        `json:"cache_miss"`
	Elapsed   time.Duration `json:"-"`
	ElapsedMs float64       `json:"elapsed_ms"`
	MaxDepth  int           `json:"max_depth"`
}

// Engine runs depth-bounded DFS over board states, memoizing each
// (board, remaining depth) subtree sum. The zero depth evaluation of a
// board is its checksum; a full board is terminal at any depth. An
// Engine is not safe for concurrent use, but the MemoTable behind it
// is, so sequential engines may share one table.
type Engine struct {
	memo  *MemoTable
	stats Stats
}

func NewEngine(memo *MemoTable) *Engine {
	if memo == nil {
		memo = NewMemoTable(DefaultMemoSize, DefaultMemoBuckets)
	}
	return &Engine{memo: memo}
}

func (e *Engine) Stats() Stats {
	return e.stats
}

// Solve explores b with a fresh default-sized table.
func Solve(b board.Board, depth int) (uint64, error) {
	return NewEngine(nil).Explore(b, depth)
}

// Explore returns the aggregate checksum over every terminal state
// reached within depth moves of b, modulo 2^30. A negative depth fails
// before any traversal.
func (e *Engine) Explore(b board.Board, depth int) (uint64, error) {
	if depth < 0 {
		return 0, fmt.Errorf("%w: negative depth %d", board.ErrInvalidInput, depth)
	}
	e.stats = Stats{MaxDepth: depth}
	start := time.Now()
	sum := e.explore(b, depth)
	e.stats.Elapsed = time.Since(start)
	e.stats.ElapsedMs = float64(e.stats.Elapsed) / float64(time.Millisecond)
	return sum, nil
}

func (e *Engine) explore(b board.Board, remaining int) uint64 {
	e.stats.Nodes++
	if remaining == 0 || b.Full() {
		e.stats.Terminals++
		return b.Checksum()
	}

	key := memoKey(b, remaining)
	if entry, ok := e.memo.Probe(key); ok {
		e.stats.CacheHits++
		return entry.Sum
	}
	e.stats.CacheMiss++

	var sum uint64
	for _, next := range b.Successors() {
		sum = (sum + e.explore(next, remaining-1)) & sumMask
	}
	e.memo.Store(key, remaining, sum)
	return sum
}

// memoKey packs remaining depth above the 36-bit board fingerprint.
// Equal keys mean cell-wise equal boards at equal remaining depth.
func memoKey(b board.Board, remaining int) uint64 {
	return uint64(remaining)<<board.FingerprintBits | b.Fingerprint()
}
