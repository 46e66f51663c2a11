package lfn

// SlotsPerChain returns the number of directory slots (LFN slots plus the
// trailing short slot) needed to store a long name of nameUnits UCS-2 code
// units: k = ceil(nameUnits/13)+1. A nameUnits of 0 (short-name-only
// creation) needs just the one short slot.
func SlotsPerChain(nameUnits int) int {
	if nameUnits == 0 {
		return 1
	}
	return (nameUnits+lfnUnitsPerSlot-1)/lfnUnitsPerSlot + 1
}

// FindFreeRun walks dir's slot sequence looking for k adjacent free slots,
// using Slots.FindFree and Slots.NextFree to locate candidates and Slots.Next
// to test adjacency. It returns the anchor of the run (its first slot) and ok=false
// if the directory runs out before k adjacent slots are found.
func FindFreeRun(slots Slots, dir Slot, k int) (anchor Slot, ok bool) {
	cur, ok := slots.FindFree(dir)
	if !ok {
		return Slot{}, false
	}
	anchor = cur
	consecutive := 1

	for consecutive < k {
		prev := cur
		next, found := slots.NextFree(cur)
		if !found {
			return Slot{}, false
		}
		cur = next

		expected, advanced := slots.Next(prev)
		if advanced && expected == next {
			consecutive++
		} else {
			anchor = next
			consecutive = 1
		}
	}
	return anchor, true
}
