package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/eceo-epfl/earth-extractor/common"
	"github.com/eceo-epfl/earth-extractor/service/geometry"
)

// SearchProvider is the interface of a scene discovery service.
type SearchProvider interface {
	// Query searches the provider catalogue for scenes of the given
	// satellite/processing level intersecting roi between start and end.
	// cloudCover, when non-nil, is a maximum cloud cover percentage.
	Query(ctx context.Context, sat common.Satellite, level common.ProcessingLevel, roi *geometry.ROI, start, end time.Time, cloudCover *float64) ([]common.SearchResult, error)

	// Name of the provider
	Name() string
}

// DownloadProvider is the interface of an image download service.
type DownloadProvider interface {
	// DownloadMany downloads all results into downloadDir. concurrency bounds
	// the number of simultaneous transfers. Existing files whose size matches
	// the remote asset are skipped unless overwrite is set.
	DownloadMany(ctx context.Context, results []common.SearchResult, downloadDir string, overwrite bool, concurrency int) error

	// Name of the provider
	Name() string
}

// ErrProductNotFound is an error returned when a product is not found or available
type ErrProductNotFound struct {
	Product string
}

func (e ErrProductNotFound) Error() string {
	return fmt.Sprintf("Product not found or unavailable: %s", e.Product)
}

// ErrUnexpectedPayload is returned when a provider answers with a payload
// that cannot be interpreted (e.g. an HTML login page instead of data).
type ErrUnexpectedPayload struct {
	Provider string
	Hint     string
}

func (e ErrUnexpectedPayload) Error() string {
	return fmt.Sprintf("%s: unexpected payload: %s", e.Provider, e.Hint)
}
