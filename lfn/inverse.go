package lfn

import (
	"fmt"
	"strings"
)

// ReconstructPath walks upward from short, a short-entry slot, decoding each
// ancestor's long name through a fresh Enumerator pass over its directory,
// and returns the absolute long-name path to short. It is the inverse of
// Resolver.LookupPath: where LookupPath walks down from the root matching
// names, ReconstructPath walks up from a known slot using the external
// InverseIndex collaborator, which maps any directory back to the short
// entry in its parent that references it.
//
// The result always ends in the name of the entry at short, so it is never
// the bare "/"; a slot that holds no entry yields ErrCorrupt.
func ReconstructPath(slots Slots, inv InverseIndex, short Slot) (string, error) {
	var segments []string
	cur := short
	for {
		name, res := nameAtShortSlot(slots, cur)
		if res&ScanLongErr != 0 {
			return "", fmt.Errorf("reconstruct %s: %w", cur, ErrCorrupt)
		}
		segments = append(segments, name)

		parent, ok := inv.Parent(cur)
		if !ok {
			break
		}
		cur = parent
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return "/" + strings.Join(segments, "/"), nil
}

// nameAtShortSlot decodes the logical name anchored at the short entry at
// pos by re-enumerating pos's own directory from its start. A fresh
// Enumerator (and thus a fresh Scanner) is required here rather than reusing
// one positioned mid-walk: LFN chain assembly depends on having seen every
// slot from the chain's anchor onward, which an arbitrary starting position
// cannot guarantee.
func nameAtShortSlot(slots Slots, pos Slot) (string, ScanResult) {
	dirStart := Slot{Cluster: pos.Cluster, Index: 0}
	en := NewEnumerator(slots, dirStart)
	for {
		entry, ok := en.Next()
		if !ok {
			return "", ScanLongErr
		}
		if entry.Short == pos {
			return entry.Name, entry.Err
		}
	}
}
