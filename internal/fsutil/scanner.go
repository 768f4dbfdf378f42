// Package fsutil discovers migration SQL file pairs named
// <version>_<name>.up.sql and <version>_<name>.down.sql.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

var fileRe = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_\-]+)\.(up|down)\.sql$`)

// Pair is one migration's up and down files. Paths are relative to whatever
// was scanned: absolute-ish disk paths from ScanDir, fsys paths from ScanFS.
type Pair struct {
	Version  int64
	Name     string
	UpPath   string
	DownPath string
}

// ScanDir scans a directory on disk. Files not matching the naming pattern
// are ignored.
func ScanDir(dir string) ([]*Pair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	return scan(entries, func(name string) string { return filepath.Join(dir, name) })
}

// ScanFS scans a directory inside fsys, typically an embed.FS. fs paths
// always use forward slashes, regardless of platform.
func ScanFS(fsys fs.FS, root string) ([]*Pair, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, err
	}
	return scan(entries, func(name string) string { return path.Join(root, name) })
}

func scan(entries []fs.DirEntry, full func(name string) string) ([]*Pair, error) {
	byVersion := map[int64]*Pair{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := fileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		version, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse version in %q: %w", e.Name(), err)
		}
		name, typ := m[2], m[3]

		p := byVersion[version]
		if p == nil {
			p = &Pair{Version: version, Name: name}
			byVersion[version] = p
		} else if p.Name != name {
			return nil, fmt.Errorf("version %d used by both %q and %q", version, p.Name, name)
		}
		switch typ {
		case "up":
			if p.UpPath != "" {
				return nil, fmt.Errorf("duplicate up file for version %d", version)
			}
			p.UpPath = full(e.Name())
		case "down":
			if p.DownPath != "" {
				return nil, fmt.Errorf("duplicate down file for version %d", version)
			}
			p.DownPath = full(e.Name())
		}
	}

	pairs := make([]*Pair, 0, len(byVersion))
	for _, p := range byVersion {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Version < pairs[j].Version })

	// Every version needs both halves.
	for _, p := range pairs {
		if p.UpPath == "" {
			return nil, fmt.Errorf("missing up file for version %d (%s)", p.Version, p.Name)
		}
		if p.DownPath == "" {
			return nil, fmt.Errorf("missing down file for version %d (%s)", p.Version, p.Name)
		}
	}
	return pairs, nil
}
