package lfn

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Resolver looks up and creates paths across nested directories, backed by
// the Slots and Clusters collaborators. It is the top-level handle of this
// package: lookup, creation and deletion all go through it so that the
// filesystem-wide Config (compare flag, debug logging) applies uniformly.
type Resolver struct {
	slots    Slots
	clusters Clusters
	cfg      Config
}

// NewResolver returns a Resolver over the given collaborators. When
// cfg.CaseInsensitive is true, name comparisons during lookup use UTF8CaseCmp
// instead of UTF8Cmp.
func NewResolver(slots Slots, clusters Clusters, cfg Config) *Resolver {
	return &Resolver{slots: slots, clusters: clusters, cfg: cfg}
}

func (r *Resolver) namesEqual(a, b string) bool {
	if r.cfg.CaseInsensitive {
		return UTF8CaseCmp(a, b) == 0
	}
	return UTF8Cmp(a, b) == 0
}

// LookupFile scans a single directory for an entry whose decoded name
// matches the storage form of name, returning ErrNotFound if no entry
// matches.
func (r *Resolver) LookupFile(dir Slot, name string) (Entry, error) {
	r.cfg.debug("lookup:file", slog.String("name", name), slog.String("dir", dir.String()))
	key := StorageForm(name)
	en := NewEnumerator(r.slots, dir)
	for {
		entry, ok := en.Next()
		if !ok {
			return Entry{}, fmt.Errorf("lookup %q: %w", name, ErrNotFound)
		}
		r.cfg.trace("lookup:entry", slog.String("name", entry.Name), slog.String("short", entry.Short.String()))
		if entry.Err&ScanLongErr != 0 {
			r.cfg.warn("lookup:corrupt chain", slog.String("short", entry.Short.String()), slog.String("fallback", entry.Name))
		}
		if r.namesEqual(entry.Name, key) {
			return entry, nil
		}
	}
}

// LookupPath resolves a forward-slash separated path, starting from dir
// (ignored if path begins with '/', which rebases to the root). It supports
// two escape forms that replace a whole path:
//
//   - "cluster:N" names cluster N directly, skipping lookup.
//   - "entry:C,I" names the slot at cluster C, index I (C=0 means root).
func (r *Resolver) LookupPath(ctx context.Context, dir Slot, path string) (Entry, error) {
	if esc, ok, err := r.resolveEscape(ctx, path); ok {
		return esc, err
	}
	r.cfg.debug("lookup:path", slog.String("path", path), slog.String("dir", dir.String()))

	if strings.HasPrefix(path, "/") {
		root, err := r.clusters.ReadCluster(ctx, r.clusters.RootCluster())
		if err != nil {
			return Entry{}, fmt.Errorf("lookup %q: %w", path, err)
		}
		dir = root
	}

	path = strings.Trim(path, "/")
	if path == "" {
		return Entry{Short: dir, Anchor: dir}, nil
	}

	seg, rest, hasRest := strings.Cut(path, "/")
	if !hasRest {
		return r.LookupFile(dir, seg)
	}

	entry, err := r.LookupFile(dir, seg)
	if err != nil {
		return Entry{}, err
	}
	child, err := r.clusters.ReadCluster(ctx, r.slots.FirstCluster(entry.Short))
	if err != nil {
		return Entry{}, fmt.Errorf("lookup %q: %w", path, err)
	}
	return r.LookupPath(ctx, child, rest)
}

// resolveEscape recognizes the cluster:N and entry:C,I escape forms. ok is
// false if path is not an escape form at all (the normal resolver should
// proceed); otherwise the Entry/error pair is the final result.
func (r *Resolver) resolveEscape(ctx context.Context, path string) (Entry, bool, error) {
	switch {
	case strings.HasPrefix(path, "cluster:"):
		n, err := strconv.ParseUint(strings.TrimPrefix(path, "cluster:"), 10, 32)
		if err != nil {
			return Entry{}, true, fmt.Errorf("lookup %q: %w", path, ErrBadPath)
		}
		pos, err := r.clusters.ReadCluster(ctx, uint32(n))
		if err != nil {
			return Entry{}, true, fmt.Errorf("lookup %q: %w", path, err)
		}
		return Entry{Short: pos, Anchor: pos}, true, nil

	case strings.HasPrefix(path, "entry:"):
		rest := strings.TrimPrefix(path, "entry:")
		clusterStr, indexStr, ok := strings.Cut(rest, ",")
		if !ok {
			return Entry{}, true, fmt.Errorf("lookup %q: %w", path, ErrBadPath)
		}
		cluster, err1 := strconv.ParseUint(clusterStr, 10, 32)
		index, err2 := strconv.Atoi(indexStr)
		if err1 != nil || err2 != nil {
			return Entry{}, true, fmt.Errorf("lookup %q: %w", path, ErrBadPath)
		}
		if cluster == 0 {
			cluster = uint64(r.clusters.RootCluster())
		}
		pos := Slot{Cluster: uint32(cluster), Index: index}
		return Entry{Short: pos, Anchor: pos}, true, nil

	default:
		return Entry{}, false, nil
	}
}

// Create writes a new file named longName in directory dir; see the
// package-level Create for semantics. The method form exists so mutating
// operations are logged through the Resolver's Config.
func (r *Resolver) Create(dir Slot, longName string) (Slot, error) {
	r.cfg.debug("create", slog.String("name", longName), slog.String("dir", dir.String()))
	return Create(r.slots, dir, longName)
}

// Remove deletes the chain anchored at anchor; see the package-level Delete.
func (r *Resolver) Remove(anchor Slot) error {
	r.cfg.debug("remove", slog.String("anchor", anchor.String()))
	return Delete(r.slots, anchor)
}

// CreatePath resolves every path segment but the last to find the parent
// directory, then creates name there via Create.
func (r *Resolver) CreatePath(ctx context.Context, dir Slot, path string) (Slot, error) {
	if strings.HasPrefix(path, "/") {
		root, err := r.clusters.ReadCluster(ctx, r.clusters.RootCluster())
		if err != nil {
			return Slot{}, err
		}
		dir = root
	}
	path = strings.Trim(path, "/")
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return r.Create(dir, path)
	}
	parentPath, leaf := path[:idx], path[idx+1:]
	parent, err := r.LookupPath(ctx, dir, parentPath)
	if err != nil {
		return Slot{}, fmt.Errorf("create %q: %w", path, err)
	}
	parentCluster, err := r.clusters.ReadCluster(ctx, r.slots.FirstCluster(parent.Short))
	if err != nil {
		return Slot{}, fmt.Errorf("create %q: %w", path, err)
	}
	return r.Create(parentCluster, leaf)
}
