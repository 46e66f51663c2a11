package lfn_test

import (
	"testing"

	"github.com/soypat/fatlfn/lfn"
	"github.com/soypat/fatlfn/lfn/memdir"
)

// occupy marks pos as a taken slot so it no longer reads as free.
func occupy(store *memdir.Store, pos lfn.Slot) {
	store.SetShortName(pos, [11]byte{'X', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '})
	store.SetAttr(pos, 0x20)
}

// TestFindFreeRunContiguous checks the simple case: enough adjacent free
// slots right at the start of the directory.
func TestFindFreeRunContiguous(t *testing.T) {
	store := memdir.New(8, 32)
	anchor, ok := lfn.FindFreeRun(store, store.Root(), 3)
	if !ok {
		t.Fatal("expected a free run in an empty directory")
	}
	if anchor != store.Root() {
		t.Fatalf("anchor = %s, want directory start %s", anchor, store.Root())
	}
}

// TestFindFreeRunSkipsBrokenRuns: a run of free slots too short for the
// chain must be skipped in favor of a later,
// long-enough run, resetting the run counter on every occupied slot.
func TestFindFreeRunSkipsBrokenRuns(t *testing.T) {
	store := memdir.New(8, 32)
	root := store.Root()

	// Occupy index 0 and index 2, leaving a lone free slot at 1 (too short
	// for k=3) before a genuine run starting at index 3.
	pos0 := root
	pos1, _ := store.Next(pos0)
	pos2, _ := store.Next(pos1)
	occupy(store, pos0)
	occupy(store, pos2)

	anchor, ok := lfn.FindFreeRun(store, root, 3)
	if !ok {
		t.Fatal("expected a free run of 3 starting at index 3")
	}
	want := lfn.Slot{Cluster: root.Cluster, Index: 3}
	if anchor != want {
		t.Fatalf("anchor = %s, want %s", anchor, want)
	}
}

// TestFindFreeRunExhaustsDirectory checks the failure path: no run of the
// requested length exists and the directory cannot grow further (memdir
// directories are fixed-size).
func TestFindFreeRunExhaustsDirectory(t *testing.T) {
	store := memdir.New(4, 32)
	root := store.Root()
	_, ok := lfn.FindFreeRun(store, root, 5)
	if ok {
		t.Fatal("expected failure: directory has only 4 slots total")
	}
}

// TestSlotsPerChainMatchesFreeRun checks SlotsPerChain feeding directly into
// FindFreeRun for a name requiring a real LFN chain.
func TestSlotsPerChainMatchesFreeRun(t *testing.T) {
	store := memdir.New(8, 32)
	k := lfn.SlotsPerChain(len("LongFileNameExample.txt"))
	anchor, ok := lfn.FindFreeRun(store, store.Root(), k)
	if !ok {
		t.Fatalf("expected a free run of %d slots", k)
	}
	if anchor != store.Root() {
		t.Fatalf("anchor = %s, want directory start", anchor)
	}
}
