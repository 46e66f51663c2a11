package lfn_test

import (
	"context"
	"fmt"

	"github.com/soypat/fatlfn/lfn"
	"github.com/soypat/fatlfn/lfn/memdir"
)

// Example creates a small directory tree in an in-memory volume, resolves a
// nested path by long name, and reconstructs that entry's absolute path from
// its slot position.
func Example() {
	store := memdir.New(32, 32)
	res := lfn.NewResolver(store, store, lfn.Config{})
	ctx := context.Background()

	_, docs, err := store.Mkdir(ctx, store.Root(), "My Documents")
	if err != nil {
		panic(err)
	}
	docsDir := lfn.Slot{Cluster: docs, Index: 0}
	if _, err := lfn.Create(store, docsDir, "Quarterly Report.txt"); err != nil {
		panic(err)
	}

	entry, err := res.LookupPath(ctx, store.Root(), "/My Documents/Quarterly Report.txt")
	if err != nil {
		panic(err)
	}
	fmt.Println("found:", entry.Name)

	full, err := lfn.ReconstructPath(store, store, entry.Short)
	if err != nil {
		panic(err)
	}
	fmt.Println("absolute:", full)

	// Output:
	// found: Quarterly Report.txt
	// absolute: /My Documents/Quarterly Report.txt
}
