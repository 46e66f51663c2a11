package lfn

import "fmt"

// Delete walks the LFN chain anchored at anchor and marks every slot of it
// deleted, including the trailing short slot. It reports ErrCorrupt if the
// chain was not intact, distinguishing "some LFN slots were deleted before
// the break" from "anchor did not start a chain at all".
//
// Delete is the mirror image of Create: where Create writes
// high-ordinal-to-low-ordinal then the short slot last, Delete walks the
// same chain forward with a Scanner and marks each visited slot as it goes,
// so an interruption mid-delete leaves the same kind of scanner-rejectable
// wreckage a crash mid-Create would.
func Delete(slots Slots, anchor Slot) error {
	sc := NewScanner()
	pos := anchor
	sawLFN := false

	for {
		res, _ := sc.Step(slots, pos)
		if res == 0 || res&ScanEnd != 0 {
			if sawLFN {
				return fmt.Errorf("delete %s: partial chain only: %w", anchor, ErrCorrupt)
			}
			return fmt.Errorf("delete %s: %w", anchor, ErrCorrupt)
		}

		slots.MarkDeleted(pos)

		if res&ScanLongSome != 0 {
			sawLFN = true
		}

		if res&ScanShort != 0 {
			if res&ScanLongAll != 0 || !sawLFN {
				return nil // complete chain destroyed, or a short-only entry with no LFN chain at all.
			}
			return fmt.Errorf("delete %s: broken before the short slot: %w", anchor, ErrCorrupt)
		}

		next, ok := slots.Next(pos)
		if !ok {
			return fmt.Errorf("delete %s: %w", anchor, ErrCorrupt)
		}
		pos = next
	}
}
