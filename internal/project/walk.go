package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
}

// Walk collects the lintable files under paths (the root when empty): files
// that are not excluded and that some parser can read. The result is sorted
// and remembered for Files.
func (p *Project) Walk(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{p.Root}
	}
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		if seen[path] || p.Excluded(path) {
			return
		}
		if len(p.ParsersFor(path, p.FileTypeForPath(path))) == 0 {
			return
		}
		seen[path] = true
		out = append(out, path)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrPermission) {
					p.log.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
					return nil
				}
				return err
			}
			if d.IsDir() {
				if path != root && (skipDirs[d.Name()] || p.Excluded(path)) {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	sort.Strings(out)

	p.mu.Lock()
	p.files = append([]string(nil), out...)
	p.mu.Unlock()
	p.log.Debug("walked project", zap.Int("files", len(out)))
	return out, nil
}
