package lfn_test

import (
	"errors"
	"testing"

	"github.com/soypat/fatlfn/lfn"
)

// anchorOf finds the chain anchor the enumerator reports for the entry whose
// short slot is short.
func anchorOf(t *testing.T, entries []lfn.Entry, short lfn.Slot) lfn.Slot {
	t.Helper()
	for _, e := range entries {
		if e.Short == short {
			return e.Anchor
		}
	}
	t.Fatalf("no entry with short slot %s", short)
	return lfn.Slot{}
}

// TestDeleteCorruptChain checks Delete's error reporting when the chain it
// is pointed at is no longer intact: some LFN slots get marked deleted, but
// the overall result is ErrCorrupt rather than silent success.
func TestDeleteCorruptChain(t *testing.T) {
	store := newVolume()
	short, err := lfn.Create(store, store.Root(), "LongFileNameExample.txt")
	if err != nil {
		t.Fatal(err)
	}
	entries := lfn.Enumerate(store, store.Root())
	anchor := anchorOf(t, entries, short)

	// Break the chain between anchor and short: flip the checksum of the
	// LFN slot immediately before the short slot.
	mid := lfn.Slot{Cluster: short.Cluster, Index: short.Index - 1}
	store.SetLFN(mid, store.Byte(mid, 0), store.Byte(mid, 13)^0xFF, [13]uint16{})

	err = lfn.Delete(store, anchor)
	if !errors.Is(err, lfn.ErrCorrupt) {
		t.Fatalf("Delete on broken chain = %v, want ErrCorrupt", err)
	}
}

// TestDeleteFromFreeSlot checks that pointing Delete at a slot that doesn't
// start a chain at all fails rather than marching through the directory.
func TestDeleteFromFreeSlot(t *testing.T) {
	store := newVolume()
	if _, err := lfn.Create(store, store.Root(), "README.TXT"); err != nil {
		t.Fatal(err)
	}

	free := lfn.Slot{Cluster: store.Root().Cluster, Index: 5}
	if err := lfn.Delete(store, free); !errors.Is(err, lfn.ErrCorrupt) {
		t.Fatalf("Delete on a free slot = %v, want ErrCorrupt", err)
	}

	// The real entry must be untouched.
	entries := lfn.Enumerate(store, store.Root())
	if len(entries) != 1 || entries[0].Name != "README.TXT" {
		t.Fatalf("entries after failed delete = %+v", entries)
	}
}
