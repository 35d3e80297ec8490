package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/eceo-epfl/earth-extractor/common"
	"github.com/eceo-epfl/earth-extractor/service"
	"github.com/eceo-epfl/earth-extractor/service/geometry"
	"github.com/eceo-epfl/earth-extractor/service/log"
)

const (
	cmrGranulesURL       = "https://cmr.earthdata.nasa.gov/search/granules.umm_json"
	cmrSearchAfterHeader = "CMR-Search-After"
	cmrPageSize          = 2000
)

var nasaSensors = map[common.Satellite]common.Sensor{
	common.Sentinel3:  common.SensorOLCI,
	common.ModisTerra: common.SensorMODIS,
	common.ModisAqua:  common.SensorMODIS,
	common.VIIRS:      common.SensorVIIRS,
}

// NASA searches the Common Metadata Repository and downloads granules with
// an Earthdata bearer token.
type NASA struct {
	token string
	// CMR asks clients to stay under a handful of requests per second
	limiter *rate.Limiter
}

// NewNASA creates a provider for the NASA Common Metadata Repository
func NewNASA(token string) *NASA {
	return &NASA{token: token, limiter: rate.NewLimiter(rate.Limit(5), 1)}
}

// Name implements SearchProvider and DownloadProvider
func (p *NASA) Name() string {
	return "NASA"
}

// Query implements SearchProvider with a paged granules.umm_json search.
func (p *NASA) Query(ctx context.Context, sat common.Satellite, level common.ProcessingLevel, roi *geometry.ROI, start, end time.Time, cloudCover *float64) ([]common.SearchResult, error) {
	tokens, err := Tokens(sat, level)
	if err != nil {
		return nil, fmt.Errorf("NASA.%w", err)
	}
	bounds, err := roi.Bounds()
	if err != nil {
		return nil, fmt.Errorf("NASA.%w", err)
	}

	values := neturl.Values{}
	for _, token := range tokens {
		values.Add("short_name", token)
	}
	values.Set("bounding_box", fmt.Sprintf("%g,%g,%g,%g", bounds[0], bounds[1], bounds[2], bounds[3]))
	values.Set("temporal", start.UTC().Format(time.RFC3339)+","+end.UTC().Format(time.RFC3339))
	values.Set("page_size", fmt.Sprintf("%d", cmrPageSize))
	values.Set("sort_key", "start_date")
	if cloudCover != nil {
		values.Set("cloud_cover", fmt.Sprintf(",%g", *cloudCover))
	}

	var results []common.SearchResult
	searchAfter := ""
	for page := 0; ; page++ {
		log.Logger(ctx).Sugar().Debugf("[NASA] Search page %d", page+1)
		items, next, err := p.queryCMR(ctx, values, searchAfter)
		if err != nil {
			return nil, fmt.Errorf("NASA.%w", err)
		}
		for _, item := range items {
			result, err := p.translate(item, sat, roi)
			if err != nil {
				return nil, fmt.Errorf("NASA.%w", err)
			}
			results = append(results, result)
		}
		if next == "" || len(items) < cmrPageSize {
			return results, nil
		}
		searchAfter = next
	}
}

type ummGranule struct {
	GranuleUR           string `json:"GranuleUR"`
	CollectionReference struct {
		ShortName string `json:"ShortName"`
	} `json:"CollectionReference"`
	RelatedUrls []struct {
		URL  string `json:"URL"`
		Type string `json:"Type"`
	} `json:"RelatedUrls"`
	TemporalExtent struct {
		RangeDateTime struct {
			BeginningDateTime string `json:"BeginningDateTime"`
		} `json:"RangeDateTime"`
		SingleDateTime string `json:"SingleDateTime"`
	} `json:"TemporalExtent"`
	SpatialExtent struct {
		HorizontalSpatialDomain struct {
			Geometry struct {
				GPolygons []struct {
					Boundary struct {
						Points []struct {
							Longitude float64 `json:"Longitude"`
							Latitude  float64 `json:"Latitude"`
						} `json:"Points"`
					} `json:"Boundary"`
				} `json:"GPolygons"`
				BoundingRectangles []struct {
					West  float64 `json:"WestBoundingCoordinate"`
					North float64 `json:"NorthBoundingCoordinate"`
					East  float64 `json:"EastBoundingCoordinate"`
					South float64 `json:"SouthBoundingCoordinate"`
				} `json:"BoundingRectangles"`
			} `json:"Geometry"`
		} `json:"HorizontalSpatialDomain"`
	} `json:"SpatialExtent"`
	DataGranule struct {
		ArchiveAndDistributionInformation []struct {
			Size     *float64 `json:"Size"`
			SizeUnit string   `json:"SizeUnit"`
		} `json:"ArchiveAndDistributionInformation"`
	} `json:"DataGranule"`
	CloudCover *float64 `json:"CloudCover"`
}

func (p *NASA) queryCMR(ctx context.Context, values neturl.Values, searchAfter string) ([]ummGranule, string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("queryCMR: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "GET", cmrGranulesURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("queryCMR.NewRequest: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.nasa.cmr.umm_results+json")
	if searchAfter != "" {
		req.Header.Set(cmrSearchAfterHeader, searchAfter)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", service.MakeTemporary(fmt.Errorf("queryCMR: %w", err))
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", service.MakeTemporary(fmt.Errorf("queryCMR.ReadAll: %w", err))
	}
	if resp.StatusCode != 200 {
		err = fmt.Errorf("queryCMR: %s (response: %s)", resp.Status, body)
		if resp.StatusCode >= 500 || resp.StatusCode == 429 {
			return nil, "", service.MakeTemporary(err)
		}
		return nil, "", err
	}

	results := struct {
		Items []struct {
			UMM ummGranule `json:"umm"`
		} `json:"items"`
	}{}
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, "", fmt.Errorf("queryCMR.Unmarshal: %w (response: %s)", err, body)
	}

	granules := make([]ummGranule, len(results.Items))
	for i, item := range results.Items {
		granules[i] = item.UMM
	}
	return granules, resp.Header.Get(cmrSearchAfterHeader), nil
}

func (p *NASA) translate(granule ummGranule, sat common.Satellite, roi *geometry.ROI) (common.SearchResult, error) {
	key, err := FromToken(p.Name(), granule.CollectionReference.ShortName)
	if err != nil {
		return common.SearchResult{}, err
	}

	result := common.SearchResult{
		Satellite:            sat,
		ProductID:            granule.GranuleUR,
		Identifier:           granule.GranuleUR,
		ProcessingLevel:      key.Level,
		Sensor:               nasaSensors[sat],
		CloudCoverPercentage: granule.CloudCover,
	}
	for _, u := range granule.RelatedUrls {
		if u.Type == "GET DATA" {
			result.URL = u.URL
			result.Filename = path.Base(u.URL)
			break
		}
	}
	if begin := granule.TemporalExtent.RangeDateTime.BeginningDateTime; begin != "" {
		if t, err := time.Parse(time.RFC3339, begin); err == nil {
			result.Time = &t
		}
	} else if single := granule.TemporalExtent.SingleDateTime; single != "" {
		if t, err := time.Parse(time.RFC3339, single); err == nil {
			result.Time = &t
		}
	}
	for _, archive := range granule.DataGranule.ArchiveAndDistributionInformation {
		if archive.Size != nil {
			size := int64(*archive.Size)
			switch archive.SizeUnit {
			case "KB":
				size <<= 10
			case "MB":
				size <<= 20
			case "GB":
				size <<= 30
			}
			result.Size = &size
			break
		}
	}
	result.GeometryWKT = granuleWKT(granule, roi, &result)
	return result, nil
}

// granuleWKT encodes the granule footprint, falling back to the query region
// when CMR exposes no geometry.
func granuleWKT(granule ummGranule, roi *geometry.ROI, result *common.SearchResult) string {
	g := granule.SpatialExtent.HorizontalSpatialDomain.Geometry
	if len(g.GPolygons) > 0 {
		points := g.GPolygons[0].Boundary.Points
		coords := make([]string, 0, len(points)+1)
		for _, pt := range points {
			coords = append(coords, fmt.Sprintf("%g %g", pt.Longitude, pt.Latitude))
		}
		if len(points) > 0 && (points[0] != points[len(points)-1]) {
			coords = append(coords, fmt.Sprintf("%g %g", points[0].Longitude, points[0].Latitude))
		}
		return "POLYGON ((" + strings.Join(coords, ",") + "))"
	}
	if len(g.BoundingRectangles) > 0 {
		r := g.BoundingRectangles[0]
		return fmt.Sprintf("POLYGON ((%g %g,%g %g,%g %g,%g %g,%g %g))",
			r.West, r.South, r.East, r.South, r.East, r.North, r.West, r.North, r.West, r.South)
	}
	result.Notes = "no geometry exposed by the provider, footprint is the query region"
	return roi.WKT()
}

// DownloadMany implements DownloadProvider
func (p *NASA) DownloadMany(ctx context.Context, results []common.SearchResult, downloadDir string, overwrite bool, concurrency int) error {
	if err := mkdirAll(downloadDir); err != nil {
		return fmt.Errorf("NASA.%w", err)
	}
	return forEachResult(ctx, p.Name(), results, concurrency, func(ctx context.Context, r common.SearchResult) error {
		if r.URL == "" {
			return ErrProductNotFound{Product: r.Identifier}
		}
		opts := downloadOptions{
			header:             map[string][]string{"Authorization": {"Bearer " + p.token}},
			copyAuthOnRedirect: true,
			overwrite:          overwrite,
		}
		if err := downloadAsset(ctx, r.URL, path.Join(downloadDir, localFileName(r, "")), p.Name()+":"+r.Identifier, opts); err != nil {
			return fmt.Errorf("NASA.%w", err)
		}
		return nil
	})
}
