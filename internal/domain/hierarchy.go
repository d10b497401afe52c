package domain

import "time"

// Source tags where a resolution came from. Local answers are served from
// the in-process boundary dataset, remote ones from the MapIt fallback.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Hierarchy is the province/district/municipality triple for a resolved
// point. Nil means unresolved at that level. A non-nil municipality always
// implies a non-nil district and province (derived by walking parent
// references, never by independent containment tests).
type Hierarchy struct {
	Province     *string `json:"province"`
	District     *string `json:"district"`
	Municipality *string `json:"municipality"`

	// Carried through from the dataset when known.
	MunicipalityCode *string `json:"municipality_code,omitempty"`
	MunicipalityType *string `json:"municipality_type,omitempty"`
}

// IsEmpty reports whether nothing was resolved at any level. An empty
// hierarchy is a valid outcome for points outside any known administrative
// unit, not an error.
func (h Hierarchy) IsEmpty() bool {
	return h.Province == nil && h.District == nil && h.Municipality == nil
}

// IsPartial reports whether some but not all levels were resolved.
func (h Hierarchy) IsPartial() bool {
	return !h.IsEmpty() && h.Municipality == nil
}

// ResolvedLocation is a hierarchy together with its provenance. This is
// the value stored in the result cache and returned to callers.
type ResolvedLocation struct {
	Hierarchy  Hierarchy `json:"hierarchy"`
	Source     Source    `json:"source"`
	ResolvedAt time.Time `json:"resolved_at"`
}
