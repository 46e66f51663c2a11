// Command lfndump mounts an in-memory memdir volume from a file and exposes
// the lfn package's Creator, Resolver, Enumerator, Deleter and reference
// walker through a small CLI: create, mkdir, ls, rm and dump.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/soypat/fatlfn/lfn"
	"github.com/soypat/fatlfn/lfn/memdir"
	"github.com/spf13/cobra"
)

const (
	slotsPerDir = 32
	clusterBits = 32
)

var (
	volumePath      string
	debugLevel      string
	caseInsensitive bool
)

func main() {
	root := &cobra.Command{
		Use:   "lfndump",
		Short: "Create, list, remove and inspect long file names in an in-memory FAT volume",
	}
	root.PersistentFlags().StringVar(&volumePath, "volume", "volume.lfn", "path to the memdir volume file")
	root.PersistentFlags().StringVar(&debugLevel, "debug", "off", "debug logging: off, lookup, chain or all")
	root.PersistentFlags().BoolVar(&caseInsensitive, "insensitive", false, "case-fold name comparisons during lookup")
	root.AddCommand(createCmd(), mkdirCmd(), lsCmd(), rmCmd(), dumpCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lfndump:", err)
		os.Exit(1)
	}
}

// openVolume loads an existing volume or mounts a fresh, empty one: the
// first run against a --volume path that doesn't exist yet behaves like
// formatting a new filesystem.
func openVolume() *memdir.Store {
	if store, err := memdir.Load(volumePath); err == nil {
		return store
	}
	return memdir.New(slotsPerDir, clusterBits)
}

func config() lfn.Config {
	cfg := lfn.Config{CaseInsensitive: caseInsensitive}
	switch debugLevel {
	case "lookup":
		cfg.DebugLevel = lfn.DebugLookup
	case "chain":
		cfg.DebugLevel = lfn.DebugChain
	case "all":
		cfg.DebugLevel = lfn.DebugAll
	}
	if cfg.DebugLevel != lfn.DebugOff {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.DebugLevel,
		}))
	}
	return cfg
}

func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <path>",
		Short: "Create a new file with the given long-name path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := openVolume()
			res := lfn.NewResolver(store, store, config())
			short, err := res.CreatePath(context.Background(), store.Root(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("created %q at %s\n", args[0], short)
			return store.Save(volumePath)
		},
	}
}

func mkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a subdirectory with the given long-name path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := openVolume()
			ctx := context.Background()
			dirPath, leaf := path.Split(strings.Trim(args[0], "/"))
			parent, err := resolveDir(store, "/"+dirPath)
			if err != nil {
				return err
			}
			if _, _, err := store.Mkdir(ctx, parent, leaf); err != nil {
				return err
			}
			fmt.Printf("created directory %q\n", args[0])
			return store.Save(volumePath)
		},
	}
}

func lsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [dir]",
		Short: "List the entries of a directory (default: root)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := openVolume()
			dir, err := resolveDir(store, dirArg(args))
			if err != nil {
				return err
			}
			for _, e := range lfn.Enumerate(store, dir) {
				flag := ""
				if e.Err&lfn.ScanLongErr != 0 {
					flag = "  [corrupt LFN chain]"
				}
				fmt.Printf("%-30s %s%s\n", lfn.Legalize(e.Name), e.Short, flag)
			}
			return nil
		},
	}
}

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete the file at the given long-name path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := openVolume()
			res := lfn.NewResolver(store, store, config())
			entry, err := res.LookupPath(context.Background(), store.Root(), args[0])
			if err != nil {
				return err
			}
			if err := res.Remove(entry.Anchor); err != nil {
				return err
			}
			fmt.Printf("removed %q\n", args[0])
			return store.Save(volumePath)
		},
	}
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump [dir]",
		Short: "Recursively dump every entry under a directory with its reconstructed absolute path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := openVolume()
			dir, err := resolveDir(store, dirArg(args))
			if err != nil {
				return err
			}
			return lfn.Walk(context.Background(), store, store, dir, func(_ lfn.Slot, e lfn.Entry) error {
				full, err := lfn.ReconstructPath(store, store, e.Short)
				if err != nil {
					full = "<" + err.Error() + ">"
				}
				fmt.Printf("%-40s anchor=%-14s short=%-14s %v\n", full, e.Anchor, e.Short, e.Err)
				return nil
			})
		},
	}
}

func dirArg(args []string) string {
	if len(args) == 0 {
		return "/"
	}
	return args[0]
}

func resolveDir(store *memdir.Store, dirPath string) (lfn.Slot, error) {
	dirPath = strings.TrimSuffix(path.Clean(dirPath), "/")
	if dirPath == "" || dirPath == "." {
		return store.Root(), nil
	}
	res := lfn.NewResolver(store, store, config())
	entry, err := res.LookupPath(context.Background(), store.Root(), dirPath)
	if err != nil {
		return lfn.Slot{}, err
	}
	return store.ReadCluster(context.Background(), store.FirstCluster(entry.Short))
}
