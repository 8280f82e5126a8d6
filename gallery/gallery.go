// Package gallery builds viewer collections from image directories.
package gallery

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/phanxgames/spotlight"
)

// Scanner walks a directory tree. Every directory holding at least one image
// becomes a collection.
type Scanner struct {
	Extensions map[string]bool // lower-case, with the dot
	Logger     *slog.Logger
}

// NewScanner returns a scanner for every format the viewer window decodes.
func NewScanner() *Scanner {
	return &Scanner{
		Extensions: map[string]bool{
			".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true,
		},
	}
}

// Scan is NewScanner().Scan(root).
func Scan(root string) ([]spotlight.Collection, error) {
	return NewScanner().Scan(root)
}

// Scan returns one collection per directory under root, ordered by path,
// with items ordered by file name.
func (s *Scanner) Scan(root string) ([]spotlight.Collection, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	byDir := make(map[string][]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("gallery scan skipped", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if s.Extensions[strings.ToLower(filepath.Ext(path))] {
			dir := filepath.Dir(path)
			byDir[dir] = append(byDir[dir], path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	out := make([]spotlight.Collection, 0, len(dirs))
	for _, dir := range dirs {
		files := byDir[dir]
		sort.Strings(files)
		c := spotlight.Collection{ID: collectionID(root, dir), Title: filepath.Base(dir)}
		for _, f := range files {
			c.Items = append(c.Items, spotlight.Item{Src: f, Caption: Caption(f)})
		}
		logger.Debug("gallery collection", "id", c.ID, "items", len(c.Items))
		out = append(out, c)
	}
	return out, nil
}

func collectionID(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return "."
	}
	return filepath.ToSlash(rel)
}

// Caption returns the EXIF image description of path, or the file name
// without its extension when there is none.
func Caption(path string) string {
	if desc := exifDescription(path); desc != "" {
		return desc
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func exifDescription(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return ""
	}
	tag, err := x.Get(exif.ImageDescription)
	if err != nil {
		return ""
	}
	desc, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.Trim(desc, "\x00"))
}
