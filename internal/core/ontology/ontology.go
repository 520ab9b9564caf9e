// Package ontology is the read-only taxonomy of entity classifications.
//
// It follows a four-domain, three-level model: a Domain (political,
// linguistic, religious, geographic), a Typology (the primary form of an
// entity) and a Subtype (a refinement). The engine only consumes two facts
// from it: the geometry class hint and the default boundary confidence.
package ontology

import (
	"strings"

	"github.com/penwyp/go-chrono-atlas/internal/core/geometry"
)

const (
	DomainPolitical  = "political"
	DomainLinguistic = "linguistic"
	DomainReligious  = "religious"
	DomainGeographic = "geographic"
)

// Kind is a typology or subtype entry.
type Kind struct {
	ID     string
	Label  string
	Abbr   string
	IsLand bool
	Class  geometry.Class
}

// Domain is the top level of the taxonomy.
type Domain struct {
	ID                 string
	Label              string
	Abbr               string
	BoundaryType       string
	BoundaryConfidence float64
	Typologies         []Kind
	Subtypes           []Kind
}

// Info is what the taxonomy knows about a classification.
type Info struct {
	Domain             string
	ID                 string
	Label              string
	Class              geometry.Class
	IsLand             bool
	BoundaryType       string
	BoundaryConfidence float64
	Known              bool
}

var domains = []Domain{
	{
		ID: DomainPolitical, Label: "Political", Abbr: "POL",
		BoundaryType: "defined", BoundaryConfidence: 0.9,
		Typologies: []Kind{
			{ID: "nation-state", Label: "Nation State", Abbr: "NAT", IsLand: true},
			{ID: "band", Label: "Band", Abbr: "BND", IsLand: true},
			{ID: "empire", Label: "Empire", Abbr: "EMP", IsLand: true},
			{ID: "chiefdom", Label: "Chiefdom", Abbr: "CHF", IsLand: true},
			{ID: "archaic-state", Label: "Archaic State", Abbr: "ARC", IsLand: true},
			{ID: "supranational", Label: "Supranational Org", Abbr: "SUP", IsLand: true},
			{ID: "tribe", Label: "Tribe", Abbr: "TRB", IsLand: true},
		},
		Subtypes: []Kind{
			{ID: "sovereign", Label: "Sovereign Entity", Abbr: "SOV"},
			{ID: "vassal", Label: "Vassal/Statelet", Abbr: "VAS"},
			{ID: "colony", Label: "Colony/Territory", Abbr: "COL"},
			{ID: "occupied", Label: "Occupied Zone", Abbr: "OCC"},
		},
	},
	{
		ID: DomainLinguistic, Label: "Linguistic", Abbr: "LIN",
		BoundaryType: "fuzzy", BoundaryConfidence: 0.5,
		Typologies: []Kind{
			{ID: "genealogical", Label: "Language Family/Group", Abbr: "GEN"},
			{ID: "typological", Label: "Typological Isogloss", Abbr: "TYP"},
			{ID: "contact", Label: "Contact/Pidgin Area", Abbr: "CON"},
		},
		Subtypes: []Kind{
			{ID: "family", Label: "Language Family", Abbr: "FAM"},
			{ID: "language", Label: "Specific Language", Abbr: "LNG"},
			{ID: "dialect", Label: "Dialect/Variant", Abbr: "DIA"},
			{ID: "feature", Label: "Isogloss Feature", Abbr: "FTR"},
		},
	},
	{
		ID: DomainReligious, Label: "Religious/Faith", Abbr: "REL",
		BoundaryType: "fuzzy", BoundaryConfidence: 0.6,
		Typologies: []Kind{
			{ID: "universalizing", Label: "Universalizing Religion", Abbr: "UNI"},
			{ID: "ethnic", Label: "Ethnic/Folk Religion", Abbr: "ETH"},
			{ID: "syncretic", Label: "Syncretic/New Movement", Abbr: "SYN"},
		},
		Subtypes: []Kind{
			{ID: "denomination", Label: "Denomination", Abbr: "DEN"},
			{ID: "sect", Label: "Sect/Order", Abbr: "SCT"},
			{ID: "cultus", Label: "Local Cultus", Abbr: "CLT"},
		},
	},
	{
		ID: DomainGeographic, Label: "Geographical", Abbr: "GEO",
		BoundaryType: "natural", BoundaryConfidence: 0.95,
		Typologies: []Kind{
			{ID: "aquatic", Label: "Aquatic/Water", Abbr: "AQU"},
			{ID: "island", Label: "Island", Abbr: "ISL", IsLand: true},
			{ID: "landmass", Label: "Landmass", Abbr: "LND", IsLand: true},
			{ID: "continent", Label: "Continent", Abbr: "CON", IsLand: true},
			{ID: "mountain", Label: "Mountain/Range", Abbr: "MTN", IsLand: true},
			{ID: "desert", Label: "Desert", Abbr: "DSR", IsLand: true},
		},
		Subtypes: []Kind{
			{ID: "city", Label: "City/Settlement", Abbr: "CTY", Class: geometry.Single},
			{ID: "river", Label: "River/Watercourse", Abbr: "RIV", Class: geometry.Open},
			{ID: "route", Label: "Route/Road", Abbr: "RTE", Class: geometry.Open},
			{ID: "coastline", Label: "Coastline", Abbr: "CST", Class: geometry.Open},
			{ID: "sacred-site", Label: "Sacred/Natural Site", Abbr: "SCR", Class: geometry.Single},
		},
	},
}

// Registry answers taxonomy lookups. It is immutable after construction and
// safe for concurrent readers.
type Registry struct {
	domains    []Domain
	byDomain   map[string]Domain
	typologies map[string]Info // "domain:id"
	subtypes   map[string]Info // id, first domain wins
	land       map[string]bool // "domain:id"
}

var defaultRegistry = NewRegistry(domains)

// Default returns the built-in taxonomy.
func Default() *Registry {
	return defaultRegistry
}

// NewRegistry indexes ds.
func NewRegistry(ds []Domain) *Registry {
	r := &Registry{
		domains:    ds,
		byDomain:   make(map[string]Domain, len(ds)),
		typologies: make(map[string]Info),
		subtypes:   make(map[string]Info),
		land:       make(map[string]bool),
	}
	for _, d := range ds {
		r.byDomain[d.ID] = d
		for _, k := range d.Typologies {
			r.typologies[key(d.ID, k.ID)] = infoFor(d, k)
			if k.IsLand {
				r.land[key(d.ID, k.ID)] = true
			}
		}
		for _, k := range d.Subtypes {
			if _, exists := r.subtypes[k.ID]; !exists {
				r.subtypes[k.ID] = infoFor(d, k)
			}
		}
	}
	return r
}

func infoFor(d Domain, k Kind) Info {
	return Info{
		Domain:             d.ID,
		ID:                 k.ID,
		Label:              k.Label,
		Class:              k.Class,
		IsLand:             k.IsLand,
		BoundaryType:       d.BoundaryType,
		BoundaryConfidence: d.BoundaryConfidence,
		Known:              true,
	}
}

func key(domain, id string) string {
	return normalize(domain) + ":" + normalize(id)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Domains returns the configured domains in declaration order.
func (r *Registry) Domains() []Domain {
	return r.domains
}

// Domain looks up a domain by id, case-insensitively.
func (r *Registry) Domain(id string) (Domain, bool) {
	d, ok := r.byDomain[normalize(id)]
	return d, ok
}

// TypologiesFor returns the typologies of a domain, or nil.
func (r *Registry) TypologiesFor(domain string) []Kind {
	return r.byDomain[normalize(domain)].Typologies
}

// IsLand reports whether a domain/typology pair is land, which decides where
// coastline decoration is drawn.
func (r *Registry) IsLand(domain, typology string) bool {
	if domain == "" || typology == "" {
		return false
	}
	return r.land[key(domain, typology)]
}

// Lookup resolves a typology id, searching every domain, then subtypes.
func (r *Registry) Lookup(id string) (Info, bool) {
	id = normalize(id)
	for _, d := range r.domains {
		if info, ok := r.typologies[key(d.ID, id)]; ok {
			return info, true
		}
	}
	info, ok := r.subtypes[id]
	return info, ok
}

// Classify returns the metadata that applies to an entity with the given
// classification. A known subtype's geometry hint wins over the typology's;
// unknown classifications fall back to a closed polygon with the domain's
// default boundary settings.
func (r *Registry) Classify(domain, typology, subtype string) Info {
	info, ok := r.typologies[key(domain, typology)]
	if !ok {
		info, ok = r.Lookup(typology)
	}
	if !ok {
		info = Info{Domain: normalize(domain), ID: normalize(typology)}
		if d, found := r.byDomain[normalize(domain)]; found {
			info.BoundaryType = d.BoundaryType
			info.BoundaryConfidence = d.BoundaryConfidence
		}
	}
	if st, found := r.subtypes[normalize(subtype)]; found && st.Class != geometry.Closed {
		info.Class = st.Class
	}
	return info
}
