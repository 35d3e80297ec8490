package common

import (
	"time"
)

// SearchResult is the canonical, provider-agnostic description of one
// discoverable satellite product. Providers translate their native result
// schemas into this record so that the orchestrator, the interval selector
// and the download executor never see provider-specific payloads.
type SearchResult struct {
	// Satellite is required; a result without it cannot be routed to a
	// download provider.
	Satellite Satellite `json:"satellite"`

	// ProductID is the provider-native identifier, opaque to this tool.
	// It is what the download provider needs to re-address the product
	// (an OData UUID, a CMR concept-id, an S3 tile path...).
	ProductID string `json:"product_id,omitempty"`

	// Link is a provider-internal reference, URL is a direct HTTP locator.
	Link string `json:"link,omitempty"`
	URL  string `json:"url,omitempty"`

	Identifier string `json:"identifier,omitempty"`
	Filename   string `json:"filename,omitempty"`

	// Time is the acquisition timestamp in UTC. A nil Time excludes the
	// record from interval selection.
	Time *time.Time `json:"time,omitempty"`

	// CloudCoverPercentage is nil when the provider or satellite does not
	// expose cloud metadata (e.g. SAR).
	CloudCoverPercentage *float64 `json:"cloud_cover_percentage,omitempty"`

	// Size is the server-reported byte count, when known.
	Size *int64 `json:"size,omitempty"`

	ProcessingLevel ProcessingLevel `json:"processing_level"`
	Sensor          Sensor          `json:"sensor,omitempty"`

	// GeometryWKT is the scene footprint. It may be a placeholder (the
	// query ROI itself) when the provider does not expose per-scene
	// geometry; Notes carries that caveat to the user.
	GeometryWKT string `json:"geometry"`
	Notes       string `json:"notes,omitempty"`
}

// Filterable reports whether the record can participate in interval
// selection on the given field accessor.
func (r *SearchResult) Filterable(value func(*SearchResult) *float64) bool {
	return r.Time != nil && value(r) != nil
}

// CloudCover is the default filter-field accessor for interval selection.
func CloudCover(r *SearchResult) *float64 {
	return r.CloudCoverPercentage
}
