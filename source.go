package migrate

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/kentolin/korm-migrate/ddl"
	"github.com/kentolin/korm-migrate/internal/fsutil"
)

// LoadDir builds a migration set from SQL file pairs in dir. Each migration
// is a pair <version>_<name>.up.sql / <version>_<name>.down.sql; files not
// matching the pattern are ignored, a version with only one half is an
// error. The returned set is ascending by version and ready for NewManager.
func LoadDir(dir string) ([]*Migration, error) {
	pairs, err := fsutil.ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan migrations dir: %w", err)
	}
	return buildPairs(pairs, os.ReadFile)
}

// LoadFS is LoadDir over an fs.FS rooted at root, typically an embed.FS
// holding the migration files inside the binary.
func LoadFS(fsys fs.FS, root string) ([]*Migration, error) {
	pairs, err := fsutil.ScanFS(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("scan migrations fs: %w", err)
	}
	return buildPairs(pairs, func(p string) ([]byte, error) { return fs.ReadFile(fsys, p) })
}

func buildPairs(pairs []*fsutil.Pair, read func(string) ([]byte, error)) ([]*Migration, error) {
	out := make([]*Migration, 0, len(pairs))
	for _, p := range pairs {
		up, err := read(p.UpPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p.UpPath, err)
		}
		down, err := read(p.DownPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p.DownPath, err)
		}
		m, err := New(p.Version, p.Name).
			UpSQL(ddl.SplitStatements(string(up))...).
			DownSQL(ddl.SplitStatements(string(down))...).
			Build()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
