package solver

import (
	"sync"
	"testing"
)

func TestMemoProbeRequiresExactKey(t *testing.T) {
	mt := NewMemoTable(16, 2)
	mt.Store(42, 3, 1234)
	if _, ok := mt.Probe(43); ok {
		t.Fatalf("probe must not hit on a different key")
	}
	entry, ok := mt.Probe(42)
	if !ok {
		t.Fatalf("expected probe hit for stored key")
	}
	if entry.Sum != 1234 || entry.Depth != 3 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestMemoProbeCountsHits(t *testing.T) {
	mt := NewMemoTable(16, 2)
	mt.Store(7, 1, 99)
	for i := 0; i < 3; i++ {
		if _, ok := mt.Probe(7); !ok {
			t.Fatalf("expected hit on probe %d", i)
		}
	}
	entries, total := mt.TopEntriesByHits(0, 10)
	if total != 1 || len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", total)
	}
	if entries[0].Hits != 3 {
		t.Fatalf("expected 3 hits, got %d", entries[0].Hits)
	}
}

func TestMemoClearAndCount(t *testing.T) {
	mt := NewMemoTable(64, 2)
	for key := uint64(0); key < 20; key++ {
		mt.Store(key, int(key%5), key*10)
	}
	if mt.Count() == 0 {
		t.Fatalf("expected entries after stores")
	}
	mt.Clear()
	if got := mt.Count(); got != 0 {
		t.Fatalf("expected empty table after Clear, got %d", got)
	}
	if mt.Generation() != 1 {
		t.Fatalf("expected generation reset to 1, got %d", mt.Generation())
	}
}

func TestMemoDeleteByKey(t *testing.T) {
	mt := NewMemoTable(16, 2)
	mt.Store(5, 2, 50)
	if !mt.DeleteByKey(5) {
		t.Fatalf("expected delete to report success")
	}
	if mt.DeleteByKey(5) {
		t.Fatalf("expected second delete to report nothing removed")
	}
	if _, ok := mt.Probe(5); ok {
		t.Fatalf("expected probe miss after delete")
	}
}

func TestMemoEvictionPrefersShallowEntries(t *testing.T) {
	mt := NewMemoTable(1, 1)
	mt.Store(1, 2, 10)
	// Deeper entry displaces the shallow one in the single slot.
	mt.Store(2, 9, 20)
	if _, ok := mt.Probe(1); ok {
		t.Fatalf("expected shallow entry to be evicted")
	}
	entry, ok := mt.Probe(2)
	if !ok || entry.Sum != 20 {
		t.Fatalf("expected deep entry to survive, got %+v ok=%v", entry, ok)
	}
	// A shallower incoming entry is dropped rather than displacing it.
	mt.Store(3, 1, 30)
	if _, ok := mt.Probe(2); !ok {
		t.Fatalf("expected deep entry to still be resident")
	}
}

func TestMemoConcurrentProbeStore(t *testing.T) {
	mt := NewMemoTable(1<<12, 2)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			for i := 0; i < 4000; i++ {
				key := seed<<36 | uint64(i)
				depth := (i % 8) + 1
				mt.Store(key, depth, uint64(i))
				mt.Probe(key)
				mt.Probe(key ^ 0x9e3779b97f4a7c15)
			}
		}(uint64(g + 1))
	}

	wg.Wait()
	if mt.Count() == 0 {
		t.Fatalf("expected table to contain entries after concurrent traffic")
	}
}

func TestMemoGenerationWrapStaysNonZero(t *testing.T) {
	mt := NewMemoTable(16, 1)
	mt.gen.Store(^uint32(0))
	mt.NextGeneration()
	if got := mt.Generation(); got == 0 {
		t.Fatalf("generation must never be zero")
	}
}
