package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/penwyp/go-chrono-atlas/internal/core/entity"
	"github.com/penwyp/go-chrono-atlas/internal/core/ontology"
	"github.com/penwyp/go-chrono-atlas/internal/data/atlas"
	"github.com/penwyp/go-chrono-atlas/internal/data/parser"
	"github.com/penwyp/go-chrono-atlas/internal/data/scanner"
	"github.com/penwyp/go-chrono-atlas/internal/util"
)

// AtlasInfo describes one loaded atlas.
type AtlasInfo struct {
	ID          string
	Layer       string
	Domain      string
	Description string
	Year        *int
	Source      string
	EntityCount int
	Skipped     int
	LoadedAt    time.Time
	Size        int64
	Fingerprint string
}

type loadedAtlas struct {
	info        AtlasInfo
	doc         *atlas.Document
	entityIDs   []string
	connections []atlas.Connection
}

// Manager owns every loaded atlas and the entities they contribute. It is
// safe for concurrent use; World and the watch loop share one Manager.
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	parser   *parser.Parser
	taxonomy *ontology.Registry
	entities *entity.Collection
	atlases  map[string]*loadedAtlas
	sources  map[string]string
	layerOf  map[string]string
	order    []string
}

// NewManager validates config and returns an empty manager.
func NewManager(config *Config) (*Manager, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Manager{
		config:   config,
		parser:   parser.NewParser(config.Concurrency),
		taxonomy: ontology.Default(),
		entities: entity.NewCollection(),
		atlases:  make(map[string]*loadedAtlas),
		sources:  make(map[string]string),
		layerOf:  make(map[string]string),
	}, nil
}

// Config returns the validated configuration.
func (m *Manager) Config() *Config {
	return m.config
}

// Taxonomy returns the registry entities are classified against.
func (m *Manager) Taxonomy() *ontology.Registry {
	return m.taxonomy
}

func sourceKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(path)
}

// Load reads and registers the atlas at path. A path that is already
// loaded is rejected with ErrAlreadyLoaded; use Reload to refresh it.
func (m *Manager) Load(path string) (*AtlasInfo, error) {
	key := sourceKey(path)
	m.mu.RLock()
	_, loaded := m.sources[key]
	m.mu.RUnlock()
	if loaded {
		return nil, fmt.Errorf("%w: %s", atlas.ErrAlreadyLoaded, path)
	}

	res := m.parser.ParseFile(key)
	if res.Error != nil {
		return nil, res.Error
	}
	return m.Register(res.Document, key, res.Info)
}

// Register adds an already decoded atlas. source may be empty for atlases
// that did not come from a file. Records that fail to build and entity ids
// already owned by another atlas are skipped with a warning.
func (m *Manager) Register(doc *atlas.Document, source string, info *util.FileInfo) (*AtlasInfo, error) {
	if err := atlas.Validate(doc); err != nil {
		return nil, err
	}

	d := doc.Defaults(m.taxonomy)
	d.ResampleCount = m.config.ResampleCount
	built, errs := doc.BuildWith(d)
	for _, err := range errs {
		util.LogWarn(fmt.Sprintf("Skip entity in atlas %s: %v", doc.Meta.ID, err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.atlases[doc.Meta.ID]; exists {
		return nil, fmt.Errorf("%w: atlas %s", atlas.ErrAlreadyLoaded, doc.Meta.ID)
	}
	if source != "" {
		if _, exists := m.sources[source]; exists {
			return nil, fmt.Errorf("%w: %s", atlas.ErrAlreadyLoaded, source)
		}
	}

	la := &loadedAtlas{doc: doc, connections: append([]atlas.Connection(nil), doc.Connections...)}
	skipped := len(errs)
	for _, e := range built {
		if err := m.entities.Add(e); err != nil {
			util.LogWarn(fmt.Sprintf("Skip entity %s in atlas %s: %v (owned by %s)", e.ID, doc.Meta.ID, err, m.layerOf[e.ID]))
			skipped++
			continue
		}
		la.entityIDs = append(la.entityIDs, e.ID)
		m.layerOf[e.ID] = doc.Meta.Layer
	}

	la.info = AtlasInfo{
		ID:          doc.Meta.ID,
		Layer:       doc.Meta.Layer,
		Domain:      doc.Meta.Domain,
		Description: doc.Meta.Description,
		Source:      source,
		EntityCount: len(la.entityIDs),
		Skipped:     skipped,
		LoadedAt:    time.Now(),
	}
	if y, ok := doc.Meta.BaseYear(); ok {
		la.info.Year = &y
	}
	if info != nil {
		la.info.Size = info.Size
		la.info.Fingerprint = info.Fingerprint
	}

	m.atlases[doc.Meta.ID] = la
	m.order = append(m.order, doc.Meta.ID)
	if source != "" {
		m.sources[source] = doc.Meta.ID
	}

	util.LogInfo(fmt.Sprintf("Loaded atlas %s (layer %s): %d entities, %d skipped", doc.Meta.ID, doc.Meta.Layer, la.info.EntityCount, skipped))
	infoCopy := la.info
	return &infoCopy, nil
}

// LoadMultiple parses paths concurrently and registers them in the order
// given, so entity load order does not depend on parse timing. Paths already
// loaded are skipped. Every failure is returned; successful loads are kept
// regardless.
func (m *Manager) LoadMultiple(paths []string) ([]AtlasInfo, []error) {
	start := time.Now()

	m.mu.RLock()
	pending := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		key := sourceKey(p)
		if _, loaded := m.sources[key]; loaded || seen[key] {
			continue
		}
		seen[key] = true
		pending = append(pending, key)
	}
	m.mu.RUnlock()

	parsed := make(map[string]parser.ParseResult, len(pending))
	for res := range m.parser.ParseFiles(pending) {
		parsed[res.File] = res
	}

	var infos []AtlasInfo
	var errs []error
	for _, key := range pending {
		res := parsed[key]
		if res.Error != nil {
			errs = append(errs, res.Error)
			continue
		}
		info, err := m.Register(res.Document, res.File, res.Info)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.File, err))
			continue
		}
		infos = append(infos, *info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Source < infos[j].Source })
	util.LogInfo(fmt.Sprintf("Loaded %d of %d atlas files in %s", len(infos), len(pending), util.FormatDuration(time.Since(start))))
	return infos, errs
}

// LoadDir scans dir for atlas files and loads them all.
func (m *Manager) LoadDir(dir string) ([]AtlasInfo, []error) {
	files, err := scanner.NewFileScanner(dir, m.config.Extensions...).Scan()
	if err != nil {
		return nil, []error{fmt.Errorf("scan %s: %w", dir, err)}
	}
	return m.LoadMultiple(files)
}

// LoadConfigured loads Config.Files, or every atlas under Config.DataDir
// when no files are listed.
func (m *Manager) LoadConfigured() ([]AtlasInfo, []error) {
	if len(m.config.Files) > 0 {
		return m.LoadMultiple(m.config.Files)
	}
	return m.LoadDir(m.config.DataDir)
}

// Reload re-reads path. It reports false when the file content is
// unchanged. A path not yet loaded is loaded. When the new content cannot
// be registered the previous atlas stays loaded. Connections touching the
// old or new entities are revisited afterwards.
func (m *Manager) Reload(path string) (bool, error) {
	key := sourceKey(path)

	res := m.parser.ParseFile(key)
	if res.Error != nil {
		return false, res.Error
	}

	m.mu.RLock()
	id, loaded := m.sources[key]
	var prev *loadedAtlas
	if loaded {
		prev = m.atlases[id]
	}
	_, taken := m.atlases[res.Document.Meta.ID]
	m.mu.RUnlock()

	if loaded && res.Info != nil && res.Info.Fingerprint == prev.info.Fingerprint {
		return false, nil
	}
	if taken && (!loaded || res.Document.Meta.ID != id) {
		return false, fmt.Errorf("%s: %w: atlas %s", key, atlas.ErrAlreadyLoaded, res.Document.Meta.ID)
	}

	if loaded {
		if err := m.Unload(id); err != nil {
			return false, err
		}
	}
	info, err := m.Register(res.Document, key, res.Info)
	if err != nil {
		if prev != nil {
			m.restore(prev)
		}
		return false, err
	}

	var touched []string
	if prev != nil {
		touched = append(touched, prev.entityIDs...)
	}
	m.mu.RLock()
	if la, ok := m.atlases[info.ID]; ok {
		touched = append(touched, la.entityIDs...)
	}
	m.mu.RUnlock()
	m.invalidateConnections(touched, info.ID)
	return true, nil
}

// restore re-registers an atlas removed by a failed reload.
func (m *Manager) restore(prev *loadedAtlas) {
	info := &util.FileInfo{Size: prev.info.Size, Fingerprint: prev.info.Fingerprint}
	if _, err := m.Register(prev.doc, prev.info.Source, info); err != nil {
		util.LogError(fmt.Sprintf("Failed to restore atlas %s: %v", prev.info.ID, err))
	}
}

// UnloadSource unloads whatever atlas was read from path.
func (m *Manager) UnloadSource(path string) error {
	key := sourceKey(path)
	m.mu.RLock()
	id, ok := m.sources[key]
	var removed []string
	if ok {
		removed = m.atlases[id].entityIDs
	}
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", atlas.ErrUnknownAtlas, path)
	}
	m.parser.Forget(key)
	if err := m.Unload(id); err != nil {
		return err
	}
	m.invalidateConnections(removed, "")
	return nil
}

// invalidateConnections revisits the stored connections touching ids in
// every atlas but skip: those left dangling or out of range are dropped,
// the rest become unconfirmed.
func (m *Manager) invalidateConnections(ids []string, skip string) {
	if len(ids) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for _, atlasID := range m.order {
		if atlasID == skip {
			continue
		}
		la := m.atlases[atlasID]
		for _, id := range ids {
			var n int
			la.connections, n = atlas.InvalidateConnections(la.connections, id, m.entities.Get)
			dropped += n
		}
	}
	if dropped > 0 {
		util.LogWarn(fmt.Sprintf("Dropped %d connections after entity changes", dropped))
	}
}

// Unload removes an atlas and all of its entities.
func (m *Manager) Unload(atlasID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	la, ok := m.atlases[atlasID]
	if !ok {
		return fmt.Errorf("%w: %s", atlas.ErrUnknownAtlas, atlasID)
	}
	for _, id := range la.entityIDs {
		if err := m.entities.Remove(id); err != nil && !errors.Is(err, entity.ErrNotFound) {
			return err
		}
		delete(m.layerOf, id)
	}
	delete(m.atlases, atlasID)
	if la.info.Source != "" {
		delete(m.sources, la.info.Source)
	}
	for i, id := range m.order {
		if id == atlasID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	util.LogInfo(fmt.Sprintf("Unloaded atlas %s (%d entities)", atlasID, len(la.entityIDs)))
	return nil
}

// Clear unloads everything.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entities = entity.NewCollection()
	m.atlases = make(map[string]*loadedAtlas)
	m.sources = make(map[string]string)
	m.layerOf = make(map[string]string)
	m.order = nil
	m.parser.Reset()
}

// Len returns the number of loaded entities.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entities.Len()
}

// Entity returns the entity with id, or nil.
func (m *Manager) Entity(id string) *entity.Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entities.Get(id)
}

// Entities returns every loaded entity in load order.
func (m *Manager) Entities() []*entity.Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entities.All()
}

// EntitiesByLayer returns the entities contributed by atlases of layer.
func (m *Manager) EntitiesByLayer(layer string) []*entity.Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*entity.Entity
	for _, e := range m.entities.All() {
		if m.layerOf[e.ID] == layer {
			out = append(out, e)
		}
	}
	return out
}

// EntitiesAtYear returns the entities whose valid range contains year.
func (m *Manager) EntitiesAtYear(year float64) []*entity.Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entities.AtYear(year)
}

// Ancestors returns the parent chain of id, nearest first.
func (m *Manager) Ancestors(id string) []*entity.Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entities.Ancestors(id)
}

// LayerOf returns the layer of the atlas that contributed entity id.
func (m *Manager) LayerOf(id string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.layerOf[id]
}

// LayerNames returns the distinct layers of loaded atlases, sorted.
func (m *Manager) LayerNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := make(map[string]struct{})
	for _, la := range m.atlases {
		set[la.info.Layer] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AtlasInfo returns the info of a loaded atlas.
func (m *Manager) AtlasInfo(atlasID string) (AtlasInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	la, ok := m.atlases[atlasID]
	if !ok {
		return AtlasInfo{}, false
	}
	return la.info, true
}

// Document returns the decoded document of a loaded atlas.
func (m *Manager) Document(atlasID string) (*atlas.Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	la, ok := m.atlases[atlasID]
	if !ok {
		return nil, false
	}
	return la.doc, true
}

// Connections returns the connections of every loaded atlas in load order.
func (m *Manager) Connections() []atlas.Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []atlas.Connection
	for _, id := range m.order {
		out = append(out, m.atlases[id].connections...)
	}
	return out
}

// ConnectionProblems checks every loaded connection against the loaded
// entities. Connections may join entities from different atlases.
func (m *Manager) ConnectionProblems() []error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var errs []error
	for _, id := range m.order {
		errs = append(errs, atlas.ValidateConnections(m.atlases[id].connections, m.entities.Get)...)
	}
	return errs
}

// ListAtlases returns every loaded atlas in load order.
func (m *Manager) ListAtlases() []AtlasInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]AtlasInfo, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.atlases[id].info)
	}
	return out
}

// Sources returns the file paths of loaded atlases, sorted.
func (m *Manager) Sources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.sources))
	for src := range m.sources {
		out = append(out, src)
	}
	sort.Strings(out)
	return out
}

// evaluate runs fn over every entity under the write lock; evaluation
// mutates entity caches and CurrentGeometry.
func (m *Manager) evaluate(fn func(e *entity.Entity, layer string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entities.All() {
		fn(e, m.layerOf[e.ID])
	}
}

// YearSpan returns the earliest and latest keyframe years over all
// entities.
func (m *Manager) YearSpan() (first, last int, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.entities.All() {
		f, l, has := e.Span()
		if !has {
			continue
		}
		if !ok || f < first {
			first = f
		}
		if !ok || l > last {
			last = l
		}
		ok = true
	}
	return first, last, ok
}
