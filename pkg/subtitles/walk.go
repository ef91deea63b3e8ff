// Package subtitles finds subtitle files on disk, stages them for the player
// and derives display labels from their names.
package subtitles

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when a subtitle path does not exist.
var ErrNotFound = errors.New("subtitle not found")

// Extensions lists the subtitle formats Kodi can load, lower-cased.
var Extensions = map[string]bool{
	".srt": true,
	".ass": true,
	".ssa": true,
	".vtt": true,
	".sub": true,
	".idx": true,
	".smi": true,
	".aqt": true,
	".pjs": true,
	".mpl": true,
	".jss": true,
	".rt":  true,
	".txt": true,
}

// IsSubtitle reports whether name has a supported extension.
func IsSubtitle(name string) bool {
	return Extensions[strings.ToLower(filepath.Ext(name))]
}

// Walk returns the subtitle files under root in sorted order. A missing root
// yields no files and no error. Unreadable subdirectories are skipped.
func Walk(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var found []string

	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && IsSubtitle(e.Name()) {
				found = append(found, filepath.Join(root, e.Name()))
			}
		}
		sort.Strings(found)
		return found, nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return err
		}
		if !d.IsDir() && IsSubtitle(d.Name()) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(found)
	return found, nil
}
