package workspace

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/penwyp/go-chrono-atlas/internal/data/watcher"
	"github.com/penwyp/go-chrono-atlas/internal/util"
)

// Monitor keeps a Manager in step with the atlas files on disk.
type Monitor struct {
	manager *Manager
	roots   []string
	only    map[string]bool
}

// NewMonitor watches the directories of Config.Files when files are listed,
// accepting events for those files only, and Config.DataDir otherwise.
func NewMonitor(m *Manager) *Monitor {
	cfg := m.Config()
	mo := &Monitor{manager: m}
	if len(cfg.Files) == 0 {
		mo.roots = []string{cfg.DataDir}
		return mo
	}

	mo.only = make(map[string]bool, len(cfg.Files))
	dirs := make(map[string]bool)
	for _, f := range cfg.Files {
		key := sourceKey(f)
		mo.only[key] = true
		dir := filepath.Dir(key)
		if !dirs[dir] {
			dirs[dir] = true
			mo.roots = append(mo.roots, dir)
		}
	}
	return mo
}

// Roots returns the watched directories.
func (mo *Monitor) Roots() []string {
	return mo.roots
}

// Apply reloads or unloads the atlas behind ev and reports whether loaded
// data changed.
func (mo *Monitor) Apply(ev watcher.Event) (bool, error) {
	key := sourceKey(ev.Path)
	if mo.only != nil && !mo.only[key] {
		return false, nil
	}

	switch ev.Op {
	case watcher.OpWrite, watcher.OpCreate:
		changed, err := mo.manager.Reload(key)
		if err != nil {
			return false, fmt.Errorf("reload %s: %w", ev.Path, err)
		}
		return changed, nil
	case watcher.OpRemove, watcher.OpRename:
		for _, src := range mo.manager.Sources() {
			if src == key {
				return true, mo.manager.UnloadSource(key)
			}
		}
	}
	return false, nil
}

// Start opens a file watcher on the roots.
func (mo *Monitor) Start() (*watcher.FileWatcher, error) {
	return watcher.NewFileWatcher(mo.roots, mo.manager.Config().Extensions...)
}

// Run applies file events until ctx ends, calling onChange after every
// event that changed loaded data. Failed reloads are logged and reported
// through onError when it is non-nil.
func (mo *Monitor) Run(ctx context.Context, onChange func(watcher.Event), onError func(error)) error {
	fw, err := mo.Start()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer fw.Close()

	util.LogInfo(fmt.Sprintf("Watching %d directories for atlas changes", len(mo.roots)))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events():
			if !ok {
				return nil
			}
			util.LogDebug(fmt.Sprintf("File changed: %s (%s)", ev.Path, ev.Op))
			changed, err := mo.Apply(ev)
			if err != nil {
				util.LogError(err.Error())
				if onError != nil {
					onError(err)
				}
				continue
			}
			if changed && onChange != nil {
				onChange(ev)
			}
		}
	}
}
