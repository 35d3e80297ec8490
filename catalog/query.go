package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/eceo-epfl/earth-extractor/common"
	"github.com/eceo-epfl/earth-extractor/service/geometry"
	"github.com/eceo-epfl/earth-extractor/service/log"
)

// ExportMode selects what happens to query results besides downloading.
type ExportMode string

const (
	ExportDisabled ExportMode = "DISABLED"
	ExportFile     ExportMode = "FILE"
	ExportPipe     ExportMode = "PIPE"
)

// ExportModeString retrieves an ExportMode from its string name
func ExportModeString(s string) (ExportMode, error) {
	switch ExportMode(s) {
	case ExportDisabled, ExportFile, ExportPipe:
		return ExportMode(s), nil
	}
	return "", fmt.Errorf("invalid export mode %q (valid: DISABLED, FILE, PIPE)", s)
}

// ErrConfiguration is an invalid combination of options, detected before any
// network call.
type ErrConfiguration struct {
	Reason string
}

func (e ErrConfiguration) Error() string {
	return "configuration error: " + e.Reason
}

// Options drive one batch query.
type Options struct {
	Start, End   time.Time
	Selectors    []string
	ROI          string
	BufferMeters float64
	CloudCover   *float64
	OutputDir    string
	Export       ExportMode
	ResultsOnly  bool
	Frequency    *common.TemporalFrequency
}

// SatelliteResults is the outcome of one selector's query.
type SatelliteResults struct {
	Entry   *Entry
	Level   common.ProcessingLevel
	Results []common.SearchResult
}

// BatchReport is the outcome of a whole batch query. DisplayOnly marks runs
// that end after querying (results-only or PIPE export): the caller must not
// proceed to download.
type BatchReport struct {
	Results     []SatelliteResults
	DisplayOnly bool
}

// TotalResults sums the result counts over all satellites.
func (r *BatchReport) TotalResults() int {
	total := 0
	for _, set := range r.Results {
		total += len(set.Results)
	}
	return total
}

// Catalog drives the query/filter/export sequence against the registry.
type Catalog struct {
	Registry *Registry
}

// BatchQuery queries every selector in order and returns the per-satellite
// result sets. A provider failure degrades to an empty result set for that
// satellite so that one broken provider does not abort a multi-satellite run.
func (c *Catalog) BatchQuery(ctx context.Context, opts Options) (*BatchReport, error) {
	if opts.Export == "" {
		opts.Export = ExportDisabled
	}
	if opts.ResultsOnly && opts.Export == ExportDisabled {
		return nil, ErrConfiguration{Reason: "results-only needs an export mode (FILE or PIPE)"}
	}

	// Resolve every selector before the first network call
	type operation struct {
		entry *Entry
		level common.ProcessingLevel
	}
	operations := make([]operation, len(opts.Selectors))
	for i, selector := range opts.Selectors {
		entry, level, err := c.Registry.ResolveSelector(selector)
		if err != nil {
			return nil, fmt.Errorf("BatchQuery.%w", err)
		}
		operations[i] = operation{entry, level}
	}

	roi, err := geometry.ParseROI(opts.ROI, opts.BufferMeters)
	if err != nil {
		return nil, ErrConfiguration{Reason: err.Error()}
	}

	report := &BatchReport{
		DisplayOnly: opts.ResultsOnly || opts.Export == ExportPipe,
	}
	for _, op := range operations {
		sctx := log.With(ctx, "satellite", op.entry.Satellite.String())
		cloudCover := opts.CloudCover
		if cloudCover != nil && !op.entry.SupportsCloudCover {
			log.Logger(sctx).Sugar().Warnf("%s does not support cloud cover filtering, ignoring --cloud-cover", op.entry.Satellite)
			cloudCover = nil
		}

		results, err := op.entry.Query.Query(sctx, op.entry.Satellite, op.level, roi, opts.Start, opts.End, cloudCover)
		if err != nil {
			log.Logger(sctx).Sugar().Errorf("query with %s failed, continuing with no results: %v", op.entry.Query.Name(), err)
			results = nil
		}
		log.Logger(sctx).Sugar().Infof("%s:%s: %d results", op.entry.Satellite, op.level, len(results))

		if opts.Frequency != nil && len(results) > 0 {
			if results, err = SelectBestPerPeriod(sctx, results, *opts.Frequency, opts.Start, opts.End, common.CloudCover); err != nil {
				log.Logger(sctx).Sugar().Errorf("interval filter failed, continuing with no results: %v", err)
				results = nil
			}
		}

		report.Results = append(report.Results, SatelliteResults{Entry: op.entry, Level: op.level, Results: results})
	}

	if opts.Export != ExportDisabled {
		if err := c.export(ctx, report, opts); err != nil {
			return nil, fmt.Errorf("BatchQuery.%w", err)
		}
	}
	log.Logger(ctx).Sugar().Infof("total results: %d", report.TotalResults())
	return report, nil
}
