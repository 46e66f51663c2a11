package memdir

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/soypat/fatlfn/lfn"
)

// snapshot is the gob-encodable mirror of Store's unexported state, used only
// by Save/Load. memdir is a toy volume format for local testing and the CLI
// front-end, not an on-disk FAT layout, so gob is a reasonable fit: nothing
// else ever needs to read this file.
type snapshot struct {
	ClusterBits     int
	SlotsPerCluster int
	Root            uint32
	NextCluster     uint32
	Dirs            map[uint32][]record
	Parent          map[uint32]lfn.Slot
}

// Save writes the volume to path as a gob-encoded snapshot.
func (s *Store) Save(path string) error {
	snap := snapshot{
		ClusterBits:     s.clusterBits,
		SlotsPerCluster: s.slotsPerCluster,
		Root:            s.root,
		NextCluster:     s.nextCluster,
		Dirs:            s.dirs,
		Parent:          s.parent,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("memdir: save: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Load reads a volume previously written by Save.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("memdir: load: %w", err)
	}
	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("memdir: load: %w", err)
	}
	return &Store{
		clusterBits:     snap.ClusterBits,
		slotsPerCluster: snap.SlotsPerCluster,
		root:            snap.Root,
		nextCluster:     snap.NextCluster,
		dirs:            snap.Dirs,
		parent:          snap.Parent,
	}, nil
}
