// Package parser reads atlas files concurrently and caches decoded
// documents by content fingerprint.
package parser

import (
	"fmt"
	"sync"
	"time"

	"github.com/penwyp/go-chrono-atlas/internal/data/atlas"
	"github.com/penwyp/go-chrono-atlas/internal/util"
)

// Parser decodes atlas files.
type Parser struct {
	concurrency int
	mu          sync.Mutex
	cache       map[string]cached
}

type cached struct {
	doc  *atlas.Document
	info *util.FileInfo
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File     string
	Document *atlas.Document
	Info     *util.FileInfo
	Cached   bool
	Error    error
}

// NewParser creates a parser running at most concurrency files at once.
func NewParser(concurrency int) *Parser {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Parser{
		concurrency: concurrency,
		cache:       make(map[string]cached),
	}
}

// ParseFile decodes and validates the atlas at path. An unchanged file is
// served from cache; the Cached flag on the result reports that.
func (p *Parser) ParseFile(path string) ParseResult {
	info, err := util.GetFileInfo(path)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to stat file: %s - %v", path, err))
		return ParseResult{File: path, Error: err}
	}

	p.mu.Lock()
	hit, ok := p.cache[path]
	p.mu.Unlock()
	if ok && !hit.info.Changed(info) {
		return ParseResult{File: path, Document: hit.doc, Info: info, Cached: true}
	}

	util.LogDebug(fmt.Sprintf("Start parsing file: %s", path))
	doc, err := atlas.ReadFile(path)
	if err == nil {
		err = atlas.Validate(doc)
	}
	if err != nil {
		return ParseResult{File: path, Info: info, Error: fmt.Errorf("%s: %w", path, err)}
	}

	p.mu.Lock()
	p.cache[path] = cached{doc: doc, info: info}
	p.mu.Unlock()

	return ParseResult{File: path, Document: doc, Info: info}
}

// ParseFiles parses files concurrently. The channel yields one result per
// file, in completion order, and is closed when all are done.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	util.LogDebug(fmt.Sprintf("Start concurrent parsing of %d files, concurrency: %d", len(files), p.concurrency))

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			fileStart := time.Now()
			res := p.ParseFile(f)
			if res.Error != nil {
				util.LogDebug(fmt.Sprintf("File parsing failed: %s, duration %v - %v", f, time.Since(fileStart), res.Error))
			}
			results <- res
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebug(fmt.Sprintf("Concurrent parsing finished, total duration: %v", time.Since(start)))
	}()

	return results
}

// Forget drops path from the cache.
func (p *Parser) Forget(path string) {
	p.mu.Lock()
	delete(p.cache, path)
	p.mu.Unlock()
}

// Reset empties the cache.
func (p *Parser) Reset() {
	p.mu.Lock()
	p.cache = make(map[string]cached)
	p.mu.Unlock()
}
