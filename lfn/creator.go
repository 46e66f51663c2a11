package lfn

import "fmt"

// unusedCluster is the sentinel first-cluster value a newly created short
// entry is given before any data cluster is allocated to it; allocation
// itself is an external collaborator's job.
const unusedCluster = 0

// Create writes the LFN chain and short slot for a new file named longName
// in directory dir. It computes the storage form and short alias itself;
// callers only need to supply the proposed long name and the directory to
// place it in.
//
// The short slot is always written last, after the LFN slots from the
// high-ordinal end down: a crash mid-write leaves an incomplete LFN chain,
// which the scanner discards rather than exposing a short entry with no
// name, or a name with no short entry.
func Create(slots Slots, dir Slot, longName string) (short Slot, err error) {
	if invalid, reserved := InvalidName(longName); invalid || reserved {
		return Slot{}, fmt.Errorf("create %q: %w", longName, ErrInvalidName)
	}

	stored := StorageForm(longName)
	shortName, caseByte, err := GenerateAlias(stored, func(candidate [11]byte) bool {
		return shortNameExists(slots, dir, candidate)
	})
	if err != nil {
		return Slot{}, fmt.Errorf("create %q: %w", longName, err)
	}

	nameForChain := stored
	if nameForChain == DisplayForm(shortName, caseByte) {
		nameForChain = "" // the short name already represents it; no LFN chain needed.
	}

	units := make([]uint16, len(nameForChain)*2) // worst case: one UTF-8 byte per scalar.
	n, _ := UTF8ToUCS2(units, nameForChain)
	units = units[:n]

	k := SlotsPerChain(len(units))
	anchor, ok := FindFreeRun(slots, dir, k)
	if !ok {
		return Slot{}, fmt.Errorf("create %q: %w", longName, ErrNoSpace)
	}

	checksum := Checksum(shortName)
	pos := anchor
	for i := 0; i < k-1; i++ {
		ord := byte(k - 1 - i)
		isFirst := i == 0
		frag := lfnFragmentAt(units, int(ord)-1)
		if isFirst {
			ord |= ordinalLastBit
		}
		slots.SetLFN(pos, ord, checksum, frag)
		slots.SetAttr(pos, lfnAttr)
		next, advanced := slots.Next(pos)
		if !advanced {
			return Slot{}, fmt.Errorf("create %q: %w", longName, ErrNoSpace)
		}
		pos = next
	}

	slots.Zero(pos)
	slots.SetShortName(pos, shortName)
	slots.SetCaseByte(pos, caseByte)
	slots.SetSize(pos, 0)
	slots.SetFirstCluster(pos, unusedCluster)
	return pos, nil
}

// lfnAttr is the attribute byte value (0x0F) that marks a slot as an LFN
// fragment rather than a short entry.
const lfnAttr = 0x0F

// lfnFragmentAt extracts the 13-code-unit fragment at zero-based physical
// position pos (0 = the fragment nearest the short slot, i.e. ordinal 1)
// from the full name buffer, zero-padding (and NUL-terminating) past the
// end of the name.
func lfnFragmentAt(units []uint16, pos int) [13]uint16 {
	var frag [13]uint16 // zero value already serves as the 0x0000 terminator/padding.
	start := pos * lfnUnitsPerSlot
	if start >= len(units) {
		return frag
	}
	end := min(start+lfnUnitsPerSlot, len(units))
	copy(frag[:], units[start:end])
	return frag
}

func shortNameExists(slots Slots, dir Slot, candidate [11]byte) bool {
	pos := dir
	for {
		if slots.IsEndOfDir(pos) {
			return false
		}
		if !slots.IsFree(pos) && !slots.IsLFN(pos) {
			var name [11]byte
			for i := range name {
				name[i] = slots.Byte(pos, i)
			}
			if name == candidate {
				return true
			}
		}
		next, ok := slots.Next(pos)
		if !ok {
			return false
		}
		pos = next
	}
}
