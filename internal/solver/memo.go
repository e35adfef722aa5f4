package solver

import (
	"sort"
	"sync"
	"sync/atomic"
)

const memoVeryOldGenerations = 8

// MemoEntry caches the aggregate sum of one explored (board, remaining
// depth) subtree. Key holds the full composite key, so a probe only
// hits on exact equality and a bounded table can never corrupt results.
type MemoEntry struct {
	Key         uint64
	Depth       int
	Sum         uint64
	Hits        uint32
	GenWritten  uint32
	GenLastUsed uint32
	Valid       bool
}

// MemoTable is a fixed-capacity set-associative memoization cache with
// striped locks. Entries may be evicted under pressure; eviction only
// costs recomputation, never correctness.
type MemoTable struct {
	mask        uint64
	buckets     int
	entries     []MemoEntry
	stripeLocks []sync.RWMutex
	stripeMask  uint64
	gen         atomic.Uint32
}

func NewMemoTable(size uint64, buckets int) *MemoTable {
	if buckets <= 0 {
		buckets = 2
	}
	if size < 1 {
		size = 1
	}
	if (size & (size - 1)) != 0 {
		size = nextPowerOfTwo(size)
	}
	maxStripes := 64
	if int(size) < maxStripes {
		maxStripes = int(size)
	}
	stripes := 1
	for stripes*2 <= maxStripes {
		stripes *= 2
	}
	table := &MemoTable{
		mask:        size - 1,
		buckets:     buckets,
		entries:     make([]MemoEntry, int(size)*buckets),
		stripeLocks: make([]sync.RWMutex, stripes),
		stripeMask:  uint64(stripes - 1),
	}
	table.gen.Store(1)
	return table
}

func (mt *MemoTable) NextGeneration() {
	gen := mt.gen.Add(1)
	if gen == 0 {
		mt.gen.CompareAndSwap(0, 1)
	}
}

func (mt *MemoTable) Generation() uint32 {
	return mt.currentGeneration()
}

func (mt *MemoTable) Clear() {
	mt.lockAllStripes()
	defer mt.unlockAllStripes()
	for i := range mt.entries {
		mt.entries[i] = MemoEntry{}
	}
	mt.gen.Store(1)
}

func (mt *MemoTable) bucketIndex(key uint64) int {
	return int(mixKey(key)&mt.mask) * mt.buckets
}

func (mt *MemoTable) stripeIndexForKey(key uint64) int {
	return int((mixKey(key) & mt.mask) & mt.stripeMask)
}

func (mt *MemoTable) Probe(key uint64) (MemoEntry, bool) {
	stripe := mt.stripeIndexForKey(key)
	mt.stripeLocks[stripe].Lock()
	defer mt.stripeLocks[stripe].Unlock()
	gen := mt.currentGeneration()
	start := mt.bucketIndex(key)
	for i := 0; i < mt.buckets; i++ {
		idx := start + i
		entry := mt.entries[idx]
		if !entry.Valid || entry.Key != key {
			continue
		}
		entry.Hits++
		entry.GenLastUsed = gen
		mt.entries[idx] = entry
		return entry, true
	}
	return MemoEntry{}, false
}

// Store caches the aggregate sum for key. On a full bucket the victim
// is the shallowest entry, oldest first; an incoming entry shallower
// than everything resident is dropped.
func (mt *MemoTable) Store(key uint64, depth int, sum uint64) bool {
	stripe := mt.stripeIndexForKey(key)
	mt.stripeLocks[stripe].Lock()
	defer mt.stripeLocks[stripe].Unlock()
	gen := mt.currentGeneration()
	start := mt.bucketIndex(key)

	for i := 0; i < mt.buckets; i++ {
		idx := start + i
		entry := mt.entries[idx]
		if !entry.Valid || entry.Key != key {
			continue
		}
		// Same key, same deterministic sum: refresh recency only.
		entry.GenLastUsed = gen
		mt.entries[idx] = entry
		return true
	}

	for i := 0; i < mt.buckets; i++ {
		idx := start + i
		if mt.entries[idx].Valid {
			continue
		}
		mt.entries[idx] = MemoEntry{
			Key:         key,
			Depth:       depth,
			Sum:         sum,
			GenWritten:  gen,
			GenLastUsed: gen,
			Valid:       true,
		}
		return true
	}

	victim := -1
	victimDepth := 0
	victimAge := uint32(0)
	for i := 0; i < mt.buckets; i++ {
		idx := start + i
		entry := mt.entries[idx]
		if entry.Depth > depth && entryAge(gen, entry) < memoVeryOldGenerations {
			continue
		}
		age := entryAge(gen, entry)
		if victim == -1 || entry.Depth < victimDepth || (entry.Depth == victimDepth && age > victimAge) {
			victim = idx
			victimDepth = entry.Depth
			victimAge = age
		}
	}
	if victim == -1 {
		return false
	}
	mt.entries[victim] = MemoEntry{
		Key:         key,
		Depth:       depth,
		Sum:         sum,
		GenWritten:  gen,
		GenLastUsed: gen,
		Valid:       true,
	}
	return true
}

func (mt *MemoTable) DeleteByKey(key uint64) bool {
	stripe := mt.stripeIndexForKey(key)
	mt.stripeLocks[stripe].Lock()
	defer mt.stripeLocks[stripe].Unlock()
	start := mt.bucketIndex(key)
	deleted := false
	for i := 0; i < mt.buckets; i++ {
		idx := start + i
		entry := mt.entries[idx]
		if !entry.Valid || entry.Key != key {
			continue
		}
		mt.entries[idx] = MemoEntry{}
		deleted = true
	}
	return deleted
}

func (mt *MemoTable) TopEntriesByHits(offset int, limit int) ([]MemoEntry, int) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	entries := mt.snapshotEntries()
	valid := make([]MemoEntry, 0, len(entries))
	for i := range entries {
		if entries[i].Valid {
			valid = append(valid, entries[i])
		}
	}
	sort.Slice(valid, func(i, j int) bool {
		if valid[i].Hits != valid[j].Hits {
			return valid[i].Hits > valid[j].Hits
		}
		if valid[i].Depth != valid[j].Depth {
			return valid[i].Depth > valid[j].Depth
		}
		if valid[i].GenLastUsed != valid[j].GenLastUsed {
			return valid[i].GenLastUsed > valid[j].GenLastUsed
		}
		return valid[i].Key < valid[j].Key
	})
	total := len(valid)
	if offset >= total {
		return []MemoEntry{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return valid[offset:end], total
}

func (mt *MemoTable) Count() int {
	mt.lockAllStripesRead()
	defer mt.unlockAllStripesRead()
	count := 0
	for i := range mt.entries {
		if mt.entries[i].Valid {
			count++
		}
	}
	return count
}

func (mt *MemoTable) Capacity() int {
	if mt == nil {
		return 0
	}
	return len(mt.entries)
}

func (mt *MemoTable) currentGeneration() uint32 {
	gen := mt.gen.Load()
	if gen != 0 {
		return gen
	}
	if mt.gen.CompareAndSwap(0, 1) {
		return 1
	}
	gen = mt.gen.Load()
	if gen == 0 {
		return 1
	}
	return gen
}

func (mt *MemoTable) lockAllStripes() {
	for i := range mt.stripeLocks {
		mt.stripeLocks[i].Lock()
	}
}

func (mt *MemoTable) unlockAllStripes() {
	for i := len(mt.stripeLocks) - 1; i >= 0; i-- {
		mt.stripeLocks[i].Unlock()
	}
}

func (mt *MemoTable) lockAllStripesRead() {
	for i := range mt.stripeLocks {
		mt.stripeLocks[i].RLock()
	}
}

func (mt *MemoTable) unlockAllStripesRead() {
	for i := len(mt.stripeLocks) - 1; i >= 0; i-- {
		mt.stripeLocks[i].RUnlock()
	}
}

func (mt *MemoTable) snapshotEntries() []MemoEntry {
	mt.lockAllStripes()
	defer mt.unlockAllStripes()
	entries := make([]MemoEntry, len(mt.entries))
	copy(entries, mt.entries)
	return entries
}

func entryAge(gen uint32, entry MemoEntry) uint32 {
	last := entry.GenLastUsed
	if last == 0 {
		last = entry.GenWritten
	}
	return gen - last
}

// mixKey spreads the structured (depth, fingerprint) key before bucket
// indexing; raw keys would cluster on the low nibbles.
func mixKey(key uint64) uint64 {
	key += 0x9e3779b97f4a7c15
	key = (key ^ (key >> 30)) * 0xbf58476d1ce4e5b9
	key = (key ^ (key >> 27)) * 0x94d049bb133111eb
	return key ^ (key >> 31)
}

func nextPowerOfTwo(v uint64) uint64 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return v
}
