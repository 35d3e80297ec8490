package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/eceo-epfl/earth-extractor/common"
	"github.com/eceo-epfl/earth-extractor/service"
	"github.com/eceo-epfl/earth-extractor/service/geometry"
	"github.com/eceo-epfl/earth-extractor/service/log"
)

const (
	swissTopoProduct = "ch.swisstopo.swissimage-dop10"
	// The asset search API is the one behind the swisstopo download page. It is
	// undocumented: parameters were discovered by inspecting the web interface.
	swissTopoSearchURL = "https://ogd.swisstopo.admin.ch/services/swiseld/services/assets/%s/search" +
		"?format=image/tiff; application=geotiff; profile=cloud-optimized" +
		"&%s&srid=%d&state=&from=%d&to=%d&xMin=%d&yMin=%d&xMax=%d&yMax=%d&csv=true"
	swissTopoSRID = 2056
)

// SwissTopo searches and downloads SwissImage orthophotos from the Swiss
// Federal Office of Topography.
type SwissTopo struct{}

// NewSwissTopo creates a provider for swisstopo. The open government data
// assets need no credentials.
func NewSwissTopo() *SwissTopo {
	return &SwissTopo{}
}

// Name implements SearchProvider and DownloadProvider
func (p *SwissTopo) Name() string {
	return "SwissTopo"
}

// Query implements SearchProvider against the swisstopo asset search.
// The API takes an LV95 (EPSG:2056) bounding box and unix-millisecond
// timestamps shifted to Zurich local time.
func (p *SwissTopo) Query(ctx context.Context, sat common.Satellite, level common.ProcessingLevel, roi *geometry.ROI, start, end time.Time, cloudCover *float64) ([]common.SearchResult, error) {
	if sat != common.SwissImage {
		return nil, fmt.Errorf("SwissTopo: satellite not supported: %s", sat)
	}
	tokens, err := Tokens(sat, level)
	if err != nil {
		return nil, fmt.Errorf("SwissTopo.%w", err)
	}
	resolution := tokens[0]

	bounds, err := roi.Bounds()
	if err != nil {
		return nil, fmt.Errorf("SwissTopo.%w", err)
	}
	xMin, yMin := geometry.WGS84ToLV95(bounds[0], bounds[1])
	xMax, yMax := geometry.WGS84ToLV95(bounds[2], bounds[3])

	url := fmt.Sprintf(swissTopoSearchURL, swissTopoProduct, resolution, swissTopoSRID,
		unixMilliZurich(start), unixMilliZurich(end),
		int(xMin), int(yMin), int(xMax), int(yMax))

	body, err := service.GetBodyRetry(url, 3)
	if err != nil {
		return nil, fmt.Errorf("SwissTopo.Search: %w", err)
	}
	index := struct {
		HRef string `json:"href"`
	}{}
	if err := json.Unmarshal(body, &index); err != nil || index.HRef == "" {
		return nil, ErrUnexpectedPayload{Provider: p.Name(), Hint: fmt.Sprintf("no asset list in search response: %s", body)}
	}

	// The asset list is a headerless single-column CSV, one download URL per line
	csv, err := service.GetBodyRetry(index.HRef, 3)
	if err != nil {
		return nil, fmt.Errorf("SwissTopo.AssetList: %w", err)
	}

	var results []common.SearchResult
	for _, line := range strings.Split(string(csv), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		results = append(results, common.SearchResult{
			Satellite:       sat,
			URL:             line,
			Identifier:      strings.TrimSuffix(path.Base(line), ".tif"),
			Filename:        path.Base(line),
			ProcessingLevel: level,
			Sensor:          common.SensorSwissImage,
			GeometryWKT:     roi.WKT(),
			Notes:           "no geometry exposed by the provider, footprint is the query region",
		})
	}
	log.Logger(ctx).Sugar().Debugf("[SwissTopo] %d assets found", len(results))
	return results, nil
}

// unixMilliZurich converts a date to the unix-millisecond representation the
// asset search expects (local Zurich midnight, i.e. UTC+2h).
func unixMilliZurich(t time.Time) int64 {
	return t.Add(2 * time.Hour).UnixMilli()
}

// DownloadMany implements DownloadProvider with plain HTTPS downloads.
func (p *SwissTopo) DownloadMany(ctx context.Context, results []common.SearchResult, downloadDir string, overwrite bool, concurrency int) error {
	if err := mkdirAll(downloadDir); err != nil {
		return fmt.Errorf("SwissTopo.%w", err)
	}
	return forEachResult(ctx, p.Name(), results, concurrency, func(ctx context.Context, r common.SearchResult) error {
		if r.URL == "" {
			return ErrProductNotFound{Product: r.Identifier}
		}
		opts := downloadOptions{overwrite: overwrite}
		if err := downloadAsset(ctx, r.URL, path.Join(downloadDir, localFileName(r, ".tif")), p.Name()+":"+r.Identifier, opts); err != nil {
			return fmt.Errorf("SwissTopo.%w", err)
		}
		return nil
	})
}
