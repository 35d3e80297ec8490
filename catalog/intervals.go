package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/eceo-epfl/earth-extractor/common"
	"github.com/eceo-epfl/earth-extractor/service/log"
)

// ErrNoFilterableResults is returned when no record carries both a timestamp
// and a value for the filter field, leaving nothing to select from.
var ErrNoFilterableResults = errors.New("no filterable results: every record lacks a time or a filter value")

// periodKey buckets a timestamp by calendar period. Weeks follow the ISO-8601
// week calendar, so a week spanning two years lands in a single bucket.
func periodKey(t time.Time, frequency common.TemporalFrequency) string {
	switch frequency {
	case common.Weekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case common.Monthly:
		return t.Format("2006-01")
	case common.Yearly:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

// SelectBestPerPeriod reduces results to one winner per calendar period: the
// record minimizing the filter field within its bucket. On a tie the
// chronologically last record of the bucket wins. Records with time equal to
// start are excluded, records with time equal to end are included. The output
// order is unspecified.
func SelectBestPerPeriod(ctx context.Context, results []common.SearchResult, frequency common.TemporalFrequency, start, end time.Time, field func(*common.SearchResult) *float64) ([]common.SearchResult, error) {
	// Drop records that cannot participate in the selection
	filterable := make([]common.SearchResult, 0, len(results))
	for _, r := range results {
		if r.Time == nil {
			log.Logger(ctx).Sugar().Warnf("interval filter: dropping %s: no acquisition time", r.Identifier)
			continue
		}
		if field(&r) == nil {
			log.Logger(ctx).Sugar().Warnf("interval filter: dropping %s: no filter value", r.Identifier)
			continue
		}
		filterable = append(filterable, r)
	}
	if len(filterable) == 0 {
		return nil, ErrNoFilterableResults
	}

	// (start, end]
	buckets := map[string][]common.SearchResult{}
	for _, r := range filterable {
		if !r.Time.After(start) || r.Time.After(end) {
			continue
		}
		key := periodKey(*r.Time, frequency)
		buckets[key] = append(buckets[key], r)
	}

	var winners []common.SearchResult
	for _, bucket := range buckets {
		sort.SliceStable(bucket, func(i, j int) bool { return bucket[i].Time.Before(*bucket[j].Time) })
		best := bucket[0]
		for _, r := range bucket[1:] {
			if *field(&r) <= *field(&best) {
				best = r
			}
		}
		winners = append(winners, best)
	}

	log.Logger(ctx).Sugar().Infof("interval filter: %d results reduced to %d (one per %s period)", len(results), len(winners), frequency)
	return winners, nil
}
