// Package static maps request paths onto files inside a fixed asset root.
package static

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// IndexFile is served for the root path and for directories.
const IndexFile = "index.html"

// DefaultContentType is used when the extension is unknown.
const DefaultContentType = "application/octet-stream"

// Resolver resolves URL paths to regular files under Root.
type Resolver struct {
	root string
}

// New canonicalizes root (absolute, symlinks resolved) and returns a Resolver
// for it. The root must exist and be a directory.
func New(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("static.New: %w", err)
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("static.New: %w", err)
	}
	info, err := os.Stat(canon)
	if err != nil {
		return nil, fmt.Errorf("static.New: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static.New: %s is not a directory", canon)
	}
	return &Resolver{root: canon}, nil
}

// Root returns the canonical asset root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve maps an already-decoded URL path to a regular file inside the root.
// It reports false for anything that is missing, not a regular file, or that
// resolves (through ".." segments or symlinks) outside the root.
func (r *Resolver) Resolve(urlPath string) (string, bool) {
	rel := strings.TrimLeft(filepath.FromSlash(urlPath), string(filepath.Separator)+"/")
	if rel == "" {
		rel = IndexFile
	}

	target, ok := r.canonical(filepath.Join(r.root, rel))
	if !ok {
		return "", false
	}
	info, err := os.Stat(target)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		target, ok = r.canonical(filepath.Join(target, IndexFile))
		if !ok {
			return "", false
		}
		if info, err = os.Stat(target); err != nil {
			return "", false
		}
	}
	if !info.Mode().IsRegular() {
		return "", false
	}
	return target, true
}

// canonical resolves symlinks in p and checks the result is inside the root.
func (r *Resolver) canonical(p string) (string, bool) {
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil || !r.contains(resolved) {
		return "", false
	}
	return resolved, true
}

func (r *Resolver) contains(p string) bool {
	rel, err := filepath.Rel(r.root, p)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// ContentType infers a MIME type from the file extension.
func ContentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return DefaultContentType
}
