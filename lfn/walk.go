package lfn

import (
	"context"
	"errors"
	"fmt"
)

// dirAttrBit marks a short entry as a subdirectory in its attribute byte.
// Attribute semantics beyond "is this an LFN slot" belong to the external
// short-entry accessors; Walk reads this one bit only to decide whether a
// visited entry has a slot sequence of its own to descend into.
const dirAttrBit = 0x10

// SkipDir may be returned by a WalkFunc to skip descending into the entry it
// was called with, without aborting the walk.
var SkipDir = errors.New("lfn: skip this directory")

// WalkFunc is called once per logical entry visited by Walk. dir is the
// directory slot sequence the entry was found in.
type WalkFunc func(dir Slot, entry Entry) error

// Walk visits every logical entry reachable from the directory starting at
// root, depth-first, attaching each entry's decoded long name via the same
// scanner the rest of this package uses. Dot entries are visited but never
// descended into. A non-nil error from fn aborts the walk and is returned,
// except SkipDir, which only prunes the current entry's subtree.
//
// Walk is the generic reference executor the directory dumper and the
// file-enumerator front-ends wrap.
func Walk(ctx context.Context, slots Slots, clusters Clusters, root Slot, fn WalkFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, entry := range Enumerate(slots, root) {
		err := fn(root, entry)
		if errors.Is(err, SkipDir) {
			continue
		}
		if err != nil {
			return err
		}
		if slots.Byte(entry.Short, attrOff)&dirAttrBit == 0 || slots.IsDotEntry(entry.Short) {
			continue
		}
		child, err := clusters.ReadCluster(ctx, slots.FirstCluster(entry.Short))
		if err != nil {
			return fmt.Errorf("walk %s: %w", entry.Short, err)
		}
		if err := Walk(ctx, slots, clusters, child, fn); err != nil {
			return err
		}
	}
	return nil
}
