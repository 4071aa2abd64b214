package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/fsutil"
)

// Loader is the interface for a format-specific pipeline loader.
type Loader interface {
	// Extensions lists the file extensions the loader accepts, with the
	// leading dot.
	Extensions() []string
	// Load reads one file and translates it into the format-agnostic model.
	Load(ctx context.Context, path string) (*Pipeline, error)
}

// MultiLoader dispatches files to the loader registered for their extension.
type MultiLoader struct {
	byExt map[string]Loader
}

// NewMultiLoader combines loaders. A later loader wins on a shared extension.
func NewMultiLoader(loaders ...Loader) *MultiLoader {
	m := &MultiLoader{byExt: make(map[string]Loader)}
	for _, l := range loaders {
		for _, ext := range l.Extensions() {
			m.byExt[strings.ToLower(ext)] = l
		}
	}
	return m
}

// Supports reports whether path has an extension some loader accepts.
func (m *MultiLoader) Supports(path string) bool {
	_, ok := m.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load reads every path. A directory contributes each supported file it
// contains, in lexical order; the stages of all files are concatenated.
func (m *MultiLoader) Load(ctx context.Context, paths ...string) (*Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	if len(m.byExt) == 0 {
		return nil, fmt.Errorf("no pipeline loaders configured")
	}

	files, err := m.Files(paths...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no pipeline description found in %v", paths)
	}
	logger.Debug("Discovered pipeline files.", "count", len(files))

	out := &Pipeline{}
	for _, file := range files {
		l := m.byExt[strings.ToLower(filepath.Ext(file))]
		p, err := l.Load(ctx, file)
		if err != nil {
			return nil, err
		}
		logger.Debug("Loaded pipeline file.", "file", file, "stages", len(p.Stages))
		out.Append(p)
	}
	return out, nil
}

// Files resolves paths into the description files Load would read.
func (m *MultiLoader) Files(paths ...string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			if !m.Supports(path) {
				return nil, fmt.Errorf("unsupported pipeline format %q", filepath.Ext(path))
			}
			add(path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, m.Extensions()...)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(p)
		}
	}
	return files, nil
}

// Extensions returns every supported extension, sorted.
func (m *MultiLoader) Extensions() []string {
	exts := make([]string, 0, len(m.byExt))
	for ext := range m.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
