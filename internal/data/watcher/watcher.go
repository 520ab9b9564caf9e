// Package watcher reports changes to atlas files on disk.
package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-chrono-atlas/internal/util"
)

// Op is the kind of change seen on a file.
type Op string

const (
	OpWrite  Op = "write"
	OpCreate Op = "create"
	OpRemove Op = "remove"
	OpRename Op = "rename"
)

// Event is a change to one atlas file.
type Event struct {
	Path string
	Op   Op
}

// FileWatcher watches directories recursively and forwards events for files
// with a matching extension.
type FileWatcher struct {
	watcher    *fsnotify.Watcher
	paths      []string
	extensions []string
	events     chan Event
	done       chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

// NewFileWatcher starts watching paths for *.json changes, or for the given
// extensions.
func NewFileWatcher(paths []string, extensions ...string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if len(extensions) == 0 {
		extensions = []string{".json"}
	}

	fw := &FileWatcher{
		watcher:    watcher,
		paths:      paths,
		extensions: extensions,
		events:     make(chan Event, 100),
		done:       make(chan struct{}),
	}

	for _, path := range paths {
		if err := fw.addPath(path); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	fw.wg.Add(1)
	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) addPath(path string) error {
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return fw.watcher.Add(p)
		}
		return nil
	})
}

func (fw *FileWatcher) matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range fw.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

func translate(op fsnotify.Op) (Op, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	}
	return "", false
}

func (fw *FileWatcher) processEvents() {
	defer fw.wg.Done()
	defer close(fw.events)

	for {
		select {
		case <-fw.done:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.addPath(event.Name); err != nil {
						util.LogWarn("Failed to watch new directory " + event.Name + ": " + err.Error())
					}
					continue
				}
			}

			if !fw.matches(event.Name) {
				continue
			}
			op, ok := translate(event.Op)
			if !ok {
				continue
			}
			select {
			case fw.events <- Event{Path: event.Name, Op: op}:
			case <-fw.done:
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// Events delivers matching file events. It is closed by Close.
func (fw *FileWatcher) Events() <-chan Event {
	return fw.events
}

// Close stops watching and closes the event channel.
func (fw *FileWatcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
		fw.wg.Wait()
	})
	return err
}
