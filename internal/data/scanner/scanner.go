package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-chrono-atlas/internal/util"
)

// DefaultExtension is the suffix of atlas files.
const DefaultExtension = ".json"

// FileScanner finds atlas files below a directory.
type FileScanner struct {
	baseDir    string
	extensions []string
	skipHidden bool
}

// NewFileScanner creates a scanner for *.json atlas files.
func NewFileScanner(baseDir string, extensions ...string) *FileScanner {
	if len(extensions) == 0 {
		extensions = []string{DefaultExtension}
	}
	normalized := make([]string, len(extensions))
	for i, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized[i] = ext
	}
	return &FileScanner{
		baseDir:    baseDir,
		extensions: normalized,
		skipHidden: true,
	}
}

// Matches reports whether path has one of the scanner's extensions.
func (s *FileScanner) Matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range s.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// Scan walks the directory and returns matching files in lexical order.
// Unreadable entries and hidden directories are skipped.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip file (error): %s - %v", path, err))
			return nil
		}

		if info.IsDir() {
			if s.skipHidden && path != s.baseDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			dirCount++
			return nil
		}

		totalCount++
		if s.Matches(path) {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d directories, %d files, found %d atlas files",
		time.Since(start), dirCount, totalCount, len(files)))

	return files, err
}
