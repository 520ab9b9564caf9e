package ontology

import (
	"fmt"
	"sort"
	"strings"
)

const ocmPrefix = "OCM:"

// ocmCodes is the subset of the Outline of Cultural Materials the atlas
// recognises as attribute keys.
var ocmCodes = map[string]string{
	"101": "Identification",
	"131": "Location",
	"161": "Population",
	"171": "Comparative Data",
	"181": "Ethos",
	"191": "Language",
	"431": "Gift Giving",
	"611": "Kindreds",
	"621": "Community Structure",
	"631": "Territorial Hierarchy",
	"640": "State",
	"641": "Citizenship",
	"642": "Constitution",
	"643": "Chief Executive",
	"644": "Executive Household",
	"645": "Cabinet",
	"646": "Parliament",
	"647": "Administrative Agencies",
	"648": "International Relations",
	"661": "Exploitation",
	"701": "Military Organization",
	"771": "General Character of Religion",
	"778": "Sacred Objects and Places",
	"789": "Religious Intoxicants",
}

// OCMLabel returns the label of a code like "OCM:640".
func OCMLabel(key string) (string, bool) {
	if !strings.HasPrefix(key, ocmPrefix) {
		return "", false
	}
	label, ok := ocmCodes[strings.TrimPrefix(key, ocmPrefix)]
	return label, ok
}

// Subject is the part of an entity that validation inspects.
type Subject struct {
	Domain     string
	Typology   string
	Attributes map[string]any
}

// Result collects every validation failure rather than stopping at the
// first one.
type Result struct {
	Valid  bool
	Errors []string
}

// Validate checks a subject against the taxonomy. A nil subject is invalid.
func (r *Registry) Validate(s *Subject) Result {
	if s == nil {
		return Result{Errors: []string{"Entity is null or undefined"}}
	}
	var errs []string

	d, domainOK := r.Domain(s.Domain)
	switch {
	case s.Domain == "":
		errs = append(errs, "Missing domain")
	case !domainOK:
		errs = append(errs, fmt.Sprintf("Invalid domain: %s", s.Domain))
	}

	if s.Typology == "" {
		errs = append(errs, "Missing typology")
	} else if !hasKind(d.Typologies, s.Typology) {
		errs = append(errs, fmt.Sprintf("Invalid typology '%s' for domain '%s'", s.Typology, s.Domain))
	}

	keys := make([]string, 0, len(s.Attributes))
	for k := range s.Attributes {
		if strings.HasPrefix(k, ocmPrefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := OCMLabel(k); !ok {
			errs = append(errs, fmt.Sprintf("Unknown OCM code: %s", k))
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

func hasKind(kinds []Kind, id string) bool {
	id = normalize(id)
	for _, k := range kinds {
		if k.ID == id {
			return true
		}
	}
	return false
}
