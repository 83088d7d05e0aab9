// Package source discovers and reads World of Warcraft combat log files.
package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoveredFile is one combat log found during directory scanning.
type DiscoveredFile struct {
	Path      string
	Name      string
	SizeBytes int64
}

// ScanDir walks a directory and discovers combat log files. The client
// writes WoWCombatLog.txt and rotates older logs to timestamped .txt
// names, so any .txt file qualifies. Results are sorted by path.
func ScanDir(logDir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return []DiscoveredFile{{Path: logDir, Name: filepath.Base(logDir), SizeBytes: info.Size()}}, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(logDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // file vanished between walk and stat
		}

		files = append(files, DiscoveredFile{
			Path:      path,
			Name:      d.Name(),
			SizeBytes: fi.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
