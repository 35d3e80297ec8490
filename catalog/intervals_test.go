package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eceo-epfl/earth-extractor/common"
)

func result(id string, at time.Time, cloudCover *float64) common.SearchResult {
	return common.SearchResult{
		Satellite:            common.Sentinel2,
		Identifier:           id,
		Time:                 &at,
		CloudCoverPercentage: cloudCover,
	}
}

func cc(v float64) *float64 { return &v }

func winners(t *testing.T, results []common.SearchResult, frequency common.TemporalFrequency, start, end time.Time) map[string]common.SearchResult {
	t.Helper()
	selected, err := SelectBestPerPeriod(context.Background(), results, frequency, start, end, common.CloudCover)
	if err != nil {
		t.Fatal(err)
	}
	byID := map[string]common.SearchResult{}
	for _, r := range selected {
		byID[r.Identifier] = r
	}
	return byID
}

func TestIntervalBoundary(t *testing.T) {
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 6, 10, 0, 0, 0, 0, time.UTC)
	results := []common.SearchResult{
		result("at-start", start, cc(10)),
		result("after-start", start.Add(time.Second), cc(10)),
		result("at-end", end, cc(10)),
	}

	for _, frequency := range []common.TemporalFrequency{common.Daily, common.Weekly, common.Monthly, common.Yearly} {
		byID := winners(t, results, frequency, start, end)
		if _, ok := byID["at-start"]; ok {
			t.Errorf("%s: a record at start must be excluded", frequency)
		}
		// at-end wins its bucket at every frequency (latest on tie)
		if _, ok := byID["at-end"]; !ok {
			t.Errorf("%s: a record at end must be included", frequency)
		}
	}

	// daily: the two surviving records land in distinct buckets
	byID := winners(t, results, common.Daily, start, end)
	if _, ok := byID["after-start"]; !ok {
		t.Error("a record just after start must be included")
	}
}

func TestBucketMinimum(t *testing.T) {
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC)
	day := time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC)

	var results []common.SearchResult
	for i, value := range []float64{40, 10, 10, 90, 5} {
		results = append(results, result(string(rune('a'+i)), day.Add(time.Duration(i)*time.Hour), cc(value)))
	}

	selected, err := SelectBestPerPeriod(context.Background(), results, common.Daily, start, end, common.CloudCover)
	if err != nil {
		t.Fatal(err)
	}
	if len(selected) != 1 {
		t.Fatalf("expected one winner, got %d", len(selected))
	}
	if *selected[0].CloudCoverPercentage != 5 {
		t.Errorf("expected the minimum (5), got %g", *selected[0].CloudCoverPercentage)
	}
}

func TestBucketMinimumTieKeepsLatest(t *testing.T) {
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC)
	day := time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC)

	results := []common.SearchResult{
		result("later", day.Add(2*time.Hour), cc(10)),
		result("earlier", day, cc(10)),
	}
	selected, err := SelectBestPerPeriod(context.Background(), results, common.Daily, start, end, common.CloudCover)
	if err != nil {
		t.Fatal(err)
	}
	if len(selected) != 1 || selected[0].Identifier != "later" {
		t.Errorf("expected the chronologically last record on a tie, got %v", selected)
	}
}

func TestMissingFieldIsolation(t *testing.T) {
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC)
	day := time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC)

	results := []common.SearchResult{
		result("no-value", day, nil),
		result("high", day.Add(time.Hour), cc(50)),
		result("low", day.Add(2*time.Hour), cc(20)),
	}
	selected, err := SelectBestPerPeriod(context.Background(), results, common.Daily, start, end, common.CloudCover)
	if err != nil {
		t.Fatal(err)
	}
	if len(selected) != 1 || selected[0].Identifier != "low" {
		t.Errorf("expected the record lacking the field to be dropped, got %v", selected)
	}
}

func TestAllRecordsUnfilterable(t *testing.T) {
	day := time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC)
	results := []common.SearchResult{
		result("a", day, nil),
		{Satellite: common.Sentinel1, Identifier: "no-time", CloudCoverPercentage: cc(10)},
	}
	_, err := SelectBestPerPeriod(context.Background(), results, common.Daily, day.Add(-time.Hour), day.Add(time.Hour), common.CloudCover)
	if !errors.Is(err, ErrNoFilterableResults) {
		t.Errorf("expected ErrNoFilterableResults, got %v", err)
	}

	_, err = SelectBestPerPeriod(context.Background(), nil, common.Daily, day, day.Add(time.Hour), common.CloudCover)
	if !errors.Is(err, ErrNoFilterableResults) {
		t.Errorf("empty input: expected ErrNoFilterableResults, got %v", err)
	}
}

func TestWeeklyBucketsFollowISOWeeks(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)

	// 2023-01-02 (monday, W01) and 2023-01-09 (monday, W02)
	results := []common.SearchResult{
		result("w1-a", time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC), cc(30)),
		result("w1-b", time.Date(2023, 1, 5, 10, 0, 0, 0, time.UTC), cc(10)),
		result("w2", time.Date(2023, 1, 9, 10, 0, 0, 0, time.UTC), cc(80)),
	}
	byID := winners(t, results, common.Weekly, start, end)
	if len(byID) != 2 {
		t.Fatalf("expected one winner per ISO week, got %v", byID)
	}
	if _, ok := byID["w1-b"]; !ok {
		t.Error("expected w1-b to win its week")
	}
	if _, ok := byID["w2"]; !ok {
		t.Error("expected w2 to win its week")
	}
}
