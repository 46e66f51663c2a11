// Package memdir is an in-memory implementation of the lfn package's Slots,
// Clusters and InverseIndex collaborator interfaces: a directory is a fixed
// number of 32-byte slots, a volume is a map of directories keyed by cluster
// number, and subdirectories are linked together by recording which parent
// entry pointed at them.
//
// It is a cheap, dependency-free backing store that exercises the real
// interfaces end to end without a real block device. memdir is used by this
// package's tests and by cmd/lfndump.
package memdir

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/soypat/fatlfn/lfn"
)

const (
	// SlotSize is the fixed width of one directory slot.
	SlotSize = 32

	sentinelEnd     = 0x00 // slot[0] value: end of directory, rest is free.
	sentinelDeleted = 0xE5 // slot[0] value: this slot was deleted.

	attrOff     = 11
	caseByteOff = 12
	lfnAttr     = 0x0F

	// DirAttr marks a short entry as a subdirectory. Attribute semantics
	// beyond the LFN marker belong to the short-entry accessors, not the lfn
	// package; memdir uses this bit only to support Mkdir/ReadCluster for
	// the CLI and tests.
	DirAttr = 0x10
)

// record is memdir's internal slot representation. Only the first SlotSize
// bytes are ever visible through the Slots.Byte/UCS2 accessors; size and
// firstCluster are reached exclusively through the dedicated Set/Get methods
// the Slots interface defines for them, exactly like a real short-entry
// accessor would gate access to those fields.
type record struct {
	bytes        [SlotSize]byte
	size         uint32
	firstCluster uint32
}

// GobEncode/GobDecode let Store.Save/memdir.Load round-trip a volume without
// exporting record's fields as part of the package's public surface.
func (r record) GobEncode() ([]byte, error) {
	buf := make([]byte, SlotSize+8)
	copy(buf, r.bytes[:])
	binary.LittleEndian.PutUint32(buf[SlotSize:], r.size)
	binary.LittleEndian.PutUint32(buf[SlotSize+4:], r.firstCluster)
	return buf, nil
}

func (r *record) GobDecode(data []byte) error {
	if len(data) != SlotSize+8 {
		return fmt.Errorf("memdir: bad record encoding length %d", len(data))
	}
	copy(r.bytes[:], data[:SlotSize])
	r.size = binary.LittleEndian.Uint32(data[SlotSize:])
	r.firstCluster = binary.LittleEndian.Uint32(data[SlotSize+4:])
	return nil
}

// Store is an in-memory FAT directory volume: clusters of directory slots,
// plus the inverse-index links memdir builds as subdirectories are created.
type Store struct {
	clusterBits     int
	slotsPerCluster int
	root            uint32
	nextCluster     uint32
	dirs            map[uint32][]record
	parent          map[uint32]lfn.Slot // child directory's cluster -> owning short entry
}

// New returns a Store with an empty root directory. slotsPerCluster bounds
// how many 32-byte slots a single directory can hold; memdir directories do
// not grow across multiple clusters, since cluster allocation belongs to an
// external collaborator.
func New(slotsPerCluster int, clusterBits int) *Store {
	s := &Store{
		clusterBits:     clusterBits,
		slotsPerCluster: slotsPerCluster,
		nextCluster:     2, // clusters 0 and 1 are reserved, as in real FAT.
		dirs:            make(map[uint32][]record),
		parent:          make(map[uint32]lfn.Slot),
	}
	s.root = s.allocDir()
	return s
}

// allocDir reserves a fresh, empty directory cluster and returns its number.
func (s *Store) allocDir() uint32 {
	n := s.nextCluster
	s.nextCluster++
	s.dirs[n] = make([]record, s.slotsPerCluster)
	return n
}

// Root returns the slot positioned at index 0 of the root directory.
func (s *Store) Root() lfn.Slot { return lfn.Slot{Cluster: s.root, Index: 0} }

func (s *Store) rec(pos lfn.Slot) *record {
	dir, ok := s.dirs[pos.Cluster]
	if !ok || pos.Index < 0 || pos.Index >= len(dir) {
		panic(fmt.Sprintf("memdir: slot %s out of range", pos))
	}
	return &dir[pos.Index]
}

// --- lfn.Slots ---

func (s *Store) IsEndOfDir(pos lfn.Slot) bool { return s.rec(pos).bytes[0] == sentinelEnd }

func (s *Store) IsFree(pos lfn.Slot) bool {
	b := s.rec(pos).bytes[0]
	return b == sentinelEnd || b == sentinelDeleted
}

func (s *Store) IsLFN(pos lfn.Slot) bool { return s.rec(pos).bytes[attrOff] == lfnAttr }

func (s *Store) IsDotEntry(pos lfn.Slot) bool {
	r := s.rec(pos)
	if r.bytes[attrOff] == lfnAttr {
		return false
	}
	if r.bytes[0] != '.' {
		return false
	}
	rest := r.bytes[1:11]
	if rest[0] == '.' {
		rest = rest[1:]
	}
	for _, b := range rest {
		if b != ' ' {
			return false
		}
	}
	return true
}

func (s *Store) Byte(pos lfn.Slot, offset int) byte { return s.rec(pos).bytes[offset] }

func (s *Store) UCS2(pos lfn.Slot, offset, n int) []uint16 {
	r := s.rec(pos)
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = binary.LittleEndian.Uint16(r.bytes[offset+2*i:])
	}
	return out
}

func (s *Store) Zero(pos lfn.Slot) { *s.rec(pos) = record{} }

func (s *Store) MarkDeleted(pos lfn.Slot) { s.rec(pos).bytes[0] = sentinelDeleted }

func (s *Store) SetShortName(pos lfn.Slot, name [11]byte) {
	copy(s.rec(pos).bytes[0:11], name[:])
}

func (s *Store) SetCaseByte(pos lfn.Slot, b byte) { s.rec(pos).bytes[caseByteOff] = b }

func (s *Store) SetSize(pos lfn.Slot, size uint32) { s.rec(pos).size = size }

func (s *Store) SetFirstCluster(pos lfn.Slot, cluster uint32) { s.rec(pos).firstCluster = cluster }

func (s *Store) FirstCluster(pos lfn.Slot) uint32 { return s.rec(pos).firstCluster }

func (s *Store) SetAttr(pos lfn.Slot, attr byte) { s.rec(pos).bytes[attrOff] = attr }

func (s *Store) SetLFN(pos lfn.Slot, ordinal, checksum byte, fragment [13]uint16) {
	r := s.rec(pos)
	r.bytes[0] = ordinal
	r.bytes[attrOff] = lfnAttr
	r.bytes[13] = checksum
	putFrag := func(off int, units []uint16) {
		for i, u := range units {
			binary.LittleEndian.PutUint16(r.bytes[off+2*i:], u)
		}
	}
	putFrag(1, fragment[0:5])
	putFrag(14, fragment[5:11])
	putFrag(28, fragment[11:13])
}

func (s *Store) Next(pos lfn.Slot) (lfn.Slot, bool) {
	dir := s.dirs[pos.Cluster]
	if pos.Index+1 >= len(dir) {
		return lfn.Slot{}, false
	}
	return lfn.Slot{Cluster: pos.Cluster, Index: pos.Index + 1}, true
}

func (s *Store) NextFree(pos lfn.Slot) (lfn.Slot, bool) {
	cur := pos
	for {
		next, ok := s.Next(cur)
		if !ok {
			return lfn.Slot{}, false
		}
		cur = next
		if s.IsFree(cur) {
			return cur, true
		}
	}
}

func (s *Store) FindFree(dir lfn.Slot) (lfn.Slot, bool) {
	cur := lfn.Slot{Cluster: dir.Cluster, Index: 0}
	if s.IsFree(cur) {
		return cur, true
	}
	return s.NextFree(cur)
}

// --- lfn.Clusters ---

func (s *Store) ReadCluster(_ context.Context, cluster uint32) (lfn.Slot, error) {
	if cluster == 0 {
		cluster = s.root
	}
	if _, ok := s.dirs[cluster]; !ok {
		return lfn.Slot{}, fmt.Errorf("memdir: no such cluster %d", cluster)
	}
	return lfn.Slot{Cluster: cluster, Index: 0}, nil
}

func (s *Store) RootCluster() uint32 { return s.root }

func (s *Store) ClusterBits() int { return s.clusterBits }

// --- lfn.InverseIndex ---

// Parent returns the short entry, in pos's directory's parent, that points
// at pos's directory. ok is false for the root directory.
func (s *Store) Parent(pos lfn.Slot) (lfn.Slot, bool) {
	p, ok := s.parent[pos.Cluster]
	return p, ok
}

// Mkdir creates a subdirectory named longName inside dir and returns the new
// short entry together with the cluster number of the subdirectory's own
// (empty) slot sequence. It registers the inverse-index link memdir needs
// for ReconstructPath, the same way a real filesystem's mkdir would update
// its own parent-tracking structure when it allocates the new directory's
// first cluster.
func (s *Store) Mkdir(_ context.Context, dir lfn.Slot, longName string) (lfn.Slot, uint32, error) {
	short, err := lfn.Create(s, dir, longName)
	if err != nil {
		return lfn.Slot{}, 0, err
	}
	child := s.allocDir()
	s.SetAttr(short, s.Byte(short, attrOff)|DirAttr)
	s.SetFirstCluster(short, child)
	s.parent[child] = short
	return short, child, nil
}
