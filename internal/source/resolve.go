package source

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// JavaExt is the extension of resolvable source files
const JavaExt = ".java"

// DefaultExcludes are directory patterns never searched for sources
var DefaultExcludes = []string{"**/.git", "**/node_modules", "**/build", "**/target", "**/.gradle"}

// Resolver maps a package and top-level type name to a file under a source
// tree. The tree is walked once, on first use.
type Resolver struct {
	root     string
	excludes []string

	once  sync.Once
	files []string
	err   error
}

// NewResolver creates a resolver rooted at root. Exclude patterns are
// doublestar globs matched against slash-separated paths relative to root.
func NewResolver(root string, excludes []string) *Resolver {
	if excludes == nil {
		excludes = DefaultExcludes
	}
	return &Resolver{root: root, excludes: excludes}
}

// RelPath returns the package-derived relative path of a type's file,
// e.g. "com.fsck.k9" and "Account" give "com/fsck/k9/Account.java".
func RelPath(pkg, outerClass string) string {
	parts := strings.Split(pkg, ".")
	parts = append(parts, outerClass+JavaExt)
	return path.Join(parts...)
}

// Resolve finds the file declaring outerClass in pkg. The relative path may
// sit at any depth under the root; the first match in lexical path order
// wins. ok is false when no file matches.
func (r *Resolver) Resolve(pkg, outerClass string) (string, bool, error) {
	if outerClass == "" {
		return "", false, nil
	}
	if err := r.load(); err != nil {
		return "", false, err
	}

	pattern := "**/" + RelPath(pkg, outerClass)
	for _, rel := range r.files {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			return "", false, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if matched {
			return filepath.Join(r.root, filepath.FromSlash(rel)), true, nil
		}
	}
	return "", false, nil
}

// Files returns the slash-separated relative paths of all source files
func (r *Resolver) Files() ([]string, error) {
	if err := r.load(); err != nil {
		return nil, err
	}
	return r.files, nil
}

func (r *Resolver) load() error {
	r.once.Do(func() {
		r.err = filepath.WalkDir(r.root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // Skip unreadable entries
			}

			rel, relErr := filepath.Rel(r.root, p)
			if relErr != nil || rel == "." {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if r.isExcluded(rel) {
					return filepath.SkipDir
				}
				return nil
			}

			if strings.EqualFold(filepath.Ext(rel), JavaExt) {
				r.files = append(r.files, rel)
			}
			return nil
		})
		if r.err != nil {
			r.err = fmt.Errorf("failed to walk %s: %w", r.root, r.err)
			return
		}
		sort.Strings(r.files)
	})
	return r.err
}

func (r *Resolver) isExcluded(rel string) bool {
	for _, pattern := range r.excludes {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}
