package ontology

// Classification is the three-level identity of an entity.
type Classification struct {
	Domain   string
	Typology string
	Subtype  string
}

var legacyCategories = map[string]string{
	"political":    DomainPolitical,
	"polity":       DomainPolitical,
	"linguistic":   DomainLinguistic,
	"cultural":     DomainLinguistic,
	"faith":        DomainReligious,
	"religious":    DomainReligious,
	"religion":     DomainReligious,
	"geographical": DomainGeographic,
	"geographic":   DomainGeographic,
	"physical":     DomainGeographic,
	"water":        DomainGeographic,
}

var legacyTypes = map[string]Classification{
	"polity":    {DomainPolitical, "nation-state", ""},
	"empire":    {DomainPolitical, "empire", ""},
	"chiefdom":  {DomainPolitical, "chiefdom", ""},
	"tribe":     {DomainPolitical, "tribe", ""},
	"band":      {DomainPolitical, "band", ""},
	"city":      {DomainGeographic, "landmass", "city"},
	"river":     {DomainGeographic, "aquatic", "river"},
	"route":     {DomainGeographic, "landmass", "route"},
	"coastline": {DomainGeographic, "landmass", "coastline"},
	"water":     {DomainGeographic, "aquatic", ""},
	"island":    {DomainGeographic, "island", ""},
	"language":  {DomainLinguistic, "genealogical", "language"},
	"dialect":   {DomainLinguistic, "genealogical", "dialect"},
	"word":      {DomainLinguistic, "typological", "feature"},
	"sound":     {DomainLinguistic, "typological", "feature"},
	"religion":  {DomainReligious, "universalizing", ""},
}

// MigrateLegacy converts the old flat category/type pair into a
// Classification. Known types map to their modern equivalent; unknown types
// keep their name as the typology under the category's domain.
func MigrateLegacy(category, legacyType string) Classification {
	if c, ok := legacyTypes[normalize(legacyType)]; ok {
		return c
	}
	domain, ok := legacyCategories[normalize(category)]
	if !ok {
		domain = normalize(category)
	}
	return Classification{Domain: domain, Typology: normalize(legacyType)}
}

var categoryForDomain = map[string]string{
	DomainPolitical:  "political",
	DomainLinguistic: "linguistic",
	DomainReligious:  "faith",
	DomainGeographic: "geographical",
}

var typeForTypology = map[string]string{
	"nation-state":   "polity",
	"empire":         "polity",
	"chiefdom":       "polity",
	"archaic-state":  "polity",
	"band":           "polity",
	"tribe":          "polity",
	"supranational":  "polity",
	"aquatic":        "water",
	"universalizing": "religion",
	"ethnic":         "religion",
}

// Legacy returns the flat category/type pair that older files used for c.
// Open and point subtypes are reported by their own name.
func Legacy(c Classification) (category, legacyType string) {
	category = categoryForDomain[normalize(c.Domain)]
	if category == "" {
		category = normalize(c.Domain)
	}
	switch st := normalize(c.Subtype); st {
	case "city", "river", "route", "coastline":
		return category, st
	}
	legacyType = typeForTypology[normalize(c.Typology)]
	if legacyType == "" {
		legacyType = normalize(c.Typology)
	}
	return category, legacyType
}
