package manuscripts

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
)

// LoaderOptions configure manuscript discovery.
type LoaderOptions struct {
	// Pattern is a path.Match glob applied to file names, e.g. "*.md".
	Pattern string
	// Recursive walks subdirectories when set; otherwise only the root is read.
	Recursive bool
}

// Loader discovers and parses manuscript files from a filesystem. Tests pass
// an fstest.MapFS; the import command passes os.DirFS over the content dir.
type Loader struct {
	fsys    fs.FS
	pattern string
	deep    bool
}

// NewLoader constructs a loader over the supplied filesystem.
func NewLoader(fsys fs.FS, opts LoaderOptions) *Loader {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = "*.md"
	}
	return &Loader{fsys: fsys, pattern: pattern, deep: opts.Recursive}
}

// Load parses every matching manuscript. Files are returned in path order so
// imports are deterministic regardless of directory iteration order.
func (l *Loader) Load() ([]*Document, error) {
	if l == nil || l.fsys == nil {
		return nil, fmt.Errorf("manuscripts: loader filesystem not configured")
	}

	var paths []string
	err := fs.WalkDir(l.fsys, ".", func(entry string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !l.deep && entry != "." {
				return fs.SkipDir
			}
			return nil
		}
		matched, err := path.Match(l.pattern, path.Base(entry))
		if err != nil {
			return err
		}
		if matched {
			paths = append(paths, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("manuscripts: walk content dir: %w", err)
	}
	sort.Strings(paths)

	documents := make([]*Document, 0, len(paths))
	for _, entry := range paths {
		source, err := fs.ReadFile(l.fsys, entry)
		if err != nil {
			return nil, fmt.Errorf("manuscripts: read %s: %w", entry, err)
		}
		info, err := fs.Stat(l.fsys, entry)
		if err != nil {
			return nil, fmt.Errorf("manuscripts: stat %s: %w", entry, err)
		}
		doc, err := ParseDocument(entry, source, info.ModTime())
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}
	return documents, nil
}
