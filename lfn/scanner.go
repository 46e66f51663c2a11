package lfn

const (
	ordinalMask    = 0x3F // low 6 bits of the LFN ordinal byte.
	ordinalLastBit = 0x40 // terminator bit: this slot is first physically in the chain.

	shortNameLen = 11
	attrOff      = 11 // offset of the attribute byte in a short slot.
	caseByteOff  = 12 // offset of the NT case byte in a short slot.
	checksumOff  = 13 // offset of the checksum byte in an LFN slot.

	// The three UCS-2 fragments packed into one LFN slot live at byte
	// offsets 1, 14 and 28 and hold 5, 6 and 2 code units respectively.
	lfnFrag1Off, lfnFrag1Len = 1, 5
	lfnFrag2Off, lfnFrag2Len = 14, 6
	lfnFrag3Off, lfnFrag3Len = 28, 2
	lfnUnitsPerSlot          = lfnFrag1Len + lfnFrag2Len + lfnFrag3Len // 13
)

// Scanner is a one-step consumer of adjacent directory slots. Step is called
// once per slot in physical (on-disk) order; it assembles LFN chains and
// reports completed logical entries exactly as described by the directory
// scan state machine.
//
// The zero value, after a call to Reset, is ready to use. Scanner holds no
// reference to a Slots store: every method takes the store explicitly, so a
// single Scanner can be reused across directories.
type Scanner struct {
	n        int // expected ordinal of the next continuing LFN slot; -1 when idle.
	checksum byte
	anchor   Slot
	units    []uint16 // accumulated UCS-2 code units, built by prepending fragments.

	// broken records that an in-progress chain was discarded mid-stream
	// (checksum/ordinal mismatch, or a free slot interrupting it). It
	// survives Reset and is reported as ScanLongErr on the next short slot,
	// distinguishing a corrupt chain from a file that never had one; a new
	// chain starting before that short slot clears it.
	broken bool
}

// NewScanner returns a Scanner ready to scan from the start of a directory.
func NewScanner() *Scanner {
	sc := &Scanner{}
	sc.Reset()
	return sc
}

// Reset discards any in-progress chain, matching the "free previous buffer
// on restart" rule: the old units slice is simply not reused. It does not
// clear the pending-corruption flag; that is consumed by the next short
// slot seen (see stepShort).
func (sc *Scanner) Reset() {
	sc.n = -1
	sc.checksum = 0
	sc.anchor = Slot{}
	sc.units = nil
}

// discardChain resets the in-progress chain. If broken is true, a chain had
// actually started accumulating before being discarded, which is reported as
// ScanLongErr at the next short slot.
func (sc *Scanner) discardChain(broken bool) {
	if broken {
		sc.broken = true
	}
	sc.Reset()
}

// Step consumes the slot at pos and returns the outcome bitmask together with
// the completed Entry when the result includes ScanShort, and the zero Entry
// otherwise.
func (sc *Scanner) Step(slots Slots, pos Slot) (ScanResult, Entry) {
	switch {
	case slots.IsEndOfDir(pos):
		sc.Reset()
		return ScanEnd, Entry{}

	case slots.IsFree(pos):
		sc.discardChain(sc.n != -1)
		return 0, Entry{}

	case !slots.IsLFN(pos):
		return sc.stepShort(slots, pos)

	default:
		return sc.stepLFN(slots, pos)
	}
}

func (sc *Scanner) stepShort(slots Slots, pos Slot) (ScanResult, Entry) {
	var shortName [shortNameLen]byte
	for i := range shortName {
		shortName[i] = slots.Byte(pos, i)
	}
	caseByte := slots.Byte(pos, caseByteOff)

	if sc.n == 0 && sc.checksum == Checksum(shortName) {
		name := sc.decodeUnits()
		anchor := sc.anchor
		sc.Reset()
		sc.broken = false
		return ScanShort | ScanLongAll, Entry{Short: pos, Anchor: anchor, Name: name}
	}

	// A chain still in progress here is incomplete or does not checksum to
	// this short slot: it is corrupt too.
	broken := sc.broken || sc.n != -1
	sc.broken = false
	sc.Reset()
	entry := Entry{Short: pos, Anchor: pos, Name: DisplayForm(shortName, caseByte)}
	if broken {
		entry.Err = ScanLongErr
		return ScanShort | ScanLongErr, entry
	}
	return ScanShort, entry
}

func (sc *Scanner) stepLFN(slots Slots, pos Slot) (ScanResult, Entry) {
	ord := slots.Byte(pos, 0)
	low6 := ord & ordinalMask
	checksum := slots.Byte(pos, checksumOff)
	frag := sc.readFragment(slots, pos)

	if ord&ordinalLastBit != 0 {
		// Start a new chain, discarding whatever was in progress. This slot
		// is itself ordinal low6, so the next (and last) expected ordinal is
		// one less than it.
		sc.broken = false
		sc.n = int(low6) - 1
		sc.checksum = checksum
		sc.anchor = pos
		sc.units = frag
		return ScanLongSome | ScanLongFirst, Entry{}
	}

	if sc.n <= 0 || low6 != byte(sc.n) || checksum != sc.checksum {
		sc.discardChain(sc.n > 0)
		return 0, Entry{}
	}

	sc.n--
	sc.units = append(frag, sc.units...)
	return ScanLongSome, Entry{}
}

// readFragment reads the 13 UCS-2 code units stored in an LFN slot, in field
// order. They stay raw code units in the growing name buffer until
// decodeUnits converts the whole buffer to UTF-8.
func (sc *Scanner) readFragment(slots Slots, pos Slot) []uint16 {
	units := make([]uint16, 0, lfnUnitsPerSlot)
	units = append(units, slots.UCS2(pos, lfnFrag1Off, lfnFrag1Len)...)
	units = append(units, slots.UCS2(pos, lfnFrag2Off, lfnFrag2Len)...)
	units = append(units, slots.UCS2(pos, lfnFrag3Off, lfnFrag3Len)...)
	return units
}

// decodeUnits converts the accumulated UCS-2 units to UTF-8, stopping at the
// first U+0000 terminator.
func (sc *Scanner) decodeUnits() string {
	units := sc.units
	for i, u := range units {
		if u == 0 {
			units = units[:i]
			break
		}
	}
	dst := make([]byte, 3*len(units))
	n := UCS2ToUTF8(dst, units)
	return string(dst[:n])
}
