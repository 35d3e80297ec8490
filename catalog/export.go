package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-spatial/geom/encoding/geojson"
	geomwkt "github.com/go-spatial/geom/encoding/wkt"

	"github.com/eceo-epfl/earth-extractor/common"
	"github.com/eceo-epfl/earth-extractor/service/log"
)

// QueryParameters is the query that produced an exported document, injected
// into the GeoJSON so that an export is self-describing and re-importable.
type QueryParameters struct {
	Satellites        []string `json:"satellites"`
	ROI               string   `json:"roi"`
	Buffer            float64  `json:"buffer"`
	CloudCover        *float64 `json:"cloud_cover"`
	Start             string   `json:"start"`
	End               string   `json:"end"`
	IntervalFrequency *string  `json:"interval_frequency"`
}

type featureProperties struct {
	Satellite            string     `json:"satellite"`
	ProductID            string     `json:"product_id,omitempty"`
	Link                 string     `json:"link,omitempty"`
	URL                  string     `json:"url,omitempty"`
	Identifier           string     `json:"identifier,omitempty"`
	Filename             string     `json:"filename,omitempty"`
	Time                 *time.Time `json:"time,omitempty"`
	CloudCoverPercentage *float64   `json:"cloud_cover_percentage,omitempty"`
	Size                 *int64     `json:"size,omitempty"`
	ProcessingLevel      string     `json:"processing_level"`
	Sensor               string     `json:"sensor,omitempty"`
	Notes                string     `json:"notes,omitempty"`
}

type exportFeature struct {
	Type       string            `json:"type"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties featureProperties `json:"properties"`
}

// ExportDocument is a GeoJSON FeatureCollection with the originating query
// parameters injected.
type ExportDocument struct {
	Type            string          `json:"type"`
	QueryParameters QueryParameters `json:"query_parameters"`
	Features        []exportFeature `json:"features"`
}

// BuildDocument flattens a report into an exportable GeoJSON document.
func BuildDocument(report *BatchReport, opts Options) (*ExportDocument, error) {
	doc := &ExportDocument{
		Type: "FeatureCollection",
		QueryParameters: QueryParameters{
			ROI:        opts.ROI,
			Buffer:     opts.BufferMeters,
			CloudCover: opts.CloudCover,
			Start:      opts.Start.UTC().Format(time.RFC3339),
			End:        opts.End.UTC().Format(time.RFC3339),
		},
		Features: []exportFeature{},
	}
	for _, selector := range opts.Selectors {
		doc.QueryParameters.Satellites = append(doc.QueryParameters.Satellites, selector)
	}
	if opts.Frequency != nil {
		frequency := opts.Frequency.String()
		doc.QueryParameters.IntervalFrequency = &frequency
	}

	for _, set := range report.Results {
		for _, r := range set.Results {
			feature := exportFeature{
				Type: "Feature",
				Properties: featureProperties{
					Satellite:            r.Satellite.String(),
					ProductID:            r.ProductID,
					Link:                 r.Link,
					URL:                  r.URL,
					Identifier:           r.Identifier,
					Filename:             r.Filename,
					Time:                 r.Time,
					CloudCoverPercentage: r.CloudCoverPercentage,
					Size:                 r.Size,
					ProcessingLevel:      r.ProcessingLevel.String(),
					Sensor:               r.Sensor.String(),
					Notes:                r.Notes,
				},
			}
			if r.GeometryWKT != "" {
				g, err := geomwkt.DecodeString(r.GeometryWKT)
				if err != nil {
					return nil, fmt.Errorf("BuildDocument.DecodeString: %w", err)
				}
				feature.Geometry = &geojson.Geometry{Geometry: g}
			}
			doc.Features = append(doc.Features, feature)
		}
	}
	return doc, nil
}

// ExportFileName names a FILE-mode export from the current time and the
// satellite selection.
func ExportFileName(now time.Time, selectors []string) string {
	names := make([]string, len(selectors))
	for i, selector := range selectors {
		names[i] = strings.ToLower(strings.ReplaceAll(selector, ":", "-"))
	}
	return now.UTC().Format("20060102T150405") + "_" + strings.Join(names, "_") + ".geojson"
}

func (c *Catalog) export(ctx context.Context, report *BatchReport, opts Options) error {
	doc, err := BuildDocument(report, opts)
	if err != nil {
		return fmt.Errorf("export.%w", err)
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("export.Marshal: %w", err)
	}

	switch opts.Export {
	case ExportPipe:
		fmt.Println(string(body))
	case ExportFile:
		if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
			return fmt.Errorf("export.MkdirAll: %w", err)
		}
		path := filepath.Join(opts.OutputDir, ExportFileName(time.Now(), opts.Selectors))
		if err := os.WriteFile(path, body, 0644); err != nil {
			return fmt.Errorf("export.WriteFile: %w", err)
		}
		log.Logger(ctx).Sugar().Infof("results exported to %s", path)
	}
	return nil
}

// ImportResults reads a FILE-mode export back into per-satellite result sets,
// grouped by satellite and level in first-seen order.
func (c *Catalog) ImportResults(ctx context.Context, path string) ([]SatelliteResults, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ImportResults.ReadFile: %w", err)
	}
	var doc ExportDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("ImportResults.Unmarshal: %w", err)
	}

	type groupKey struct {
		sat   common.Satellite
		level common.ProcessingLevel
	}
	groups := map[groupKey]int{}
	var sets []SatelliteResults

	for _, feature := range doc.Features {
		sat, ok := common.SatelliteString(feature.Properties.Satellite)
		if !ok {
			return nil, fmt.Errorf("ImportResults: unknown satellite %q", feature.Properties.Satellite)
		}
		entry, ok := c.Registry.Entry(sat)
		if !ok {
			return nil, fmt.Errorf("ImportResults: satellite %s not in registry", sat)
		}
		level, err := common.ProcessingLevelString(feature.Properties.ProcessingLevel)
		if err != nil {
			return nil, fmt.Errorf("ImportResults: unknown processing level %q", feature.Properties.ProcessingLevel)
		}

		result := common.SearchResult{
			Satellite:            sat,
			ProductID:            feature.Properties.ProductID,
			Link:                 feature.Properties.Link,
			URL:                  feature.Properties.URL,
			Identifier:           feature.Properties.Identifier,
			Filename:             feature.Properties.Filename,
			Time:                 feature.Properties.Time,
			CloudCoverPercentage: feature.Properties.CloudCoverPercentage,
			Size:                 feature.Properties.Size,
			ProcessingLevel:      level,
			Sensor:               common.Sensor(feature.Properties.Sensor),
			Notes:                feature.Properties.Notes,
		}
		if feature.Geometry != nil && feature.Geometry.Geometry != nil {
			wkt, err := geomwkt.EncodeString(feature.Geometry.Geometry)
			if err != nil {
				return nil, fmt.Errorf("ImportResults.EncodeString: %w", err)
			}
			result.GeometryWKT = wkt
		}

		key := groupKey{sat, level}
		index, ok := groups[key]
		if !ok {
			index = len(sets)
			groups[key] = index
			sets = append(sets, SatelliteResults{Entry: entry, Level: level})
		}
		sets[index].Results = append(sets[index].Results, result)
	}

	total := 0
	for _, set := range sets {
		total += len(set.Results)
	}
	log.Logger(ctx).Sugar().Infof("imported %d records for %d satellite(s) from %s", total, len(sets), path)
	return sets, nil
}
