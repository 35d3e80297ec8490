package provider

import (
	"context"
	"encoding/json"
	"fmt"
	neturl "net/url"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-spatial/geom/encoding/geojson"
	"github.com/go-spatial/geom/encoding/wkt"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/eceo-epfl/earth-extractor/common"
	"github.com/eceo-epfl/earth-extractor/service"
	"github.com/eceo-epfl/earth-extractor/service/geometry"
	"github.com/eceo-epfl/earth-extractor/service/log"
)

const (
	copernicusPageLimit       = 1000
	copernicusODataQueryURL   = "https://catalogue.dataspace.copernicus.eu/odata/v1/Products?$filter="
	copernicusDownloadProduct = "https://catalogue.dataspace.copernicus.eu/odata/v1/Products(%s)/$value"
	copernicusAuthURL         = "https://identity.dataspace.copernicus.eu/auth/realms/CDSE/protocol/openid-connect/token"
)

var copernicusCollections = map[common.Satellite]string{
	common.Sentinel1: "SENTINEL-1",
	common.Sentinel2: "SENTINEL-2",
	common.Sentinel3: "SENTINEL-3",
}

var copernicusSensors = map[common.Satellite]common.Sensor{
	common.Sentinel1: common.SensorCSAR,
	common.Sentinel2: common.SensorMSI,
	common.Sentinel3: common.SensorOLCI,
}

// Copernicus searches and downloads from the Copernicus Data Space Ecosystem.
type Copernicus struct {
	User     string
	Password string
	Limit    int

	mu     sync.Mutex
	tokens oauth2.TokenSource
}

// NewCopernicus creates a provider for the Copernicus Data Space Ecosystem
func NewCopernicus(user, password string) *Copernicus {
	return &Copernicus{User: user, Password: password, Limit: copernicusPageLimit}
}

// Name implements SearchProvider and DownloadProvider
func (p *Copernicus) Name() string {
	return "Copernicus"
}

// Query implements SearchProvider with an OData Products query.
func (p *Copernicus) Query(ctx context.Context, sat common.Satellite, level common.ProcessingLevel, roi *geometry.ROI, start, end time.Time, cloudCover *float64) ([]common.SearchResult, error) {
	collection, ok := copernicusCollections[sat]
	if !ok {
		return nil, fmt.Errorf("Copernicus: satellite not supported: %s", sat)
	}
	tokens, err := Tokens(sat, level)
	if err != nil {
		return nil, fmt.Errorf("Copernicus.%w", err)
	}

	parameters := []string{
		fmt.Sprintf("Collection/Name eq '%s'", collection),
		"OData.CSC.Intersects(area=geography'SRID=4326;" + roi.WKT() + "')",
		fmt.Sprintf("ContentDate/Start gt %s", start.Format("2006-01-02T15:04:05.999Z")),
		fmt.Sprintf("ContentDate/Start le %s", end.Format("2006-01-02T15:04:05.999Z")),
	}
	{
		productTypes := make([]string, len(tokens))
		for i, token := range tokens {
			productTypes[i] = fmt.Sprintf("Attributes/OData.CSC.StringAttribute/any(att:att/Name eq 'productType' and att/OData.CSC.StringAttribute/Value eq '%s')", token)
		}
		parameters = append(parameters, "("+strings.Join(productTypes, " or ")+")")
	}
	if cloudCover != nil {
		parameters = append(parameters, fmt.Sprintf("Attributes/OData.CSC.DoubleAttribute/any(att:att/Name eq 'cloudCover' and att/OData.CSC.DoubleAttribute/Value le %g)", *cloudCover))
	}
	query := strings.Join(parameters, " and ")

	hits, err := p.queryOData(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("Copernicus.%w", err)
	}

	results := make([]common.SearchResult, 0, len(hits))
	for _, hit := range hits {
		result, err := p.translate(hit, sat)
		if err != nil {
			return nil, fmt.Errorf("Copernicus.%w", err)
		}
		results = append(results, result)
	}
	return results, nil
}

type odataHit struct {
	UUID          string           `json:"Id"`
	Identifier    string           `json:"Name"`
	ContentLength int64            `json:"ContentLength"`
	Footprint     geojson.Geometry `json:"GeoFootprint"`
	ContentDate   struct {
		BeginPosition string `json:"Start"`
	} `json:"ContentDate"`
	Attributes []struct {
		Name  string      `json:"Name"`
		Value interface{} `json:"Value"`
	} `json:"Attributes"`
}

func (h *odataHit) attribute(name string) (string, bool) {
	for _, att := range h.Attributes {
		if att.Name == name {
			return fmt.Sprintf("%v", att.Value), true
		}
	}
	return "", false
}

func (p *Copernicus) translate(hit odataHit, sat common.Satellite) (common.SearchResult, error) {
	if _, err := uuid.Parse(hit.UUID); err != nil {
		return common.SearchResult{}, ErrUnexpectedPayload{Provider: p.Name(), Hint: fmt.Sprintf("product id %q is not a uuid", hit.UUID)}
	}
	date, err := time.Parse(time.RFC3339Nano, hit.ContentDate.BeginPosition)
	if err != nil {
		return common.SearchResult{}, fmt.Errorf("translate.TimeParse: %w", err)
	}
	productType, ok := hit.attribute("productType")
	if !ok {
		return common.SearchResult{}, ErrUnexpectedPayload{Provider: p.Name(), Hint: "missing productType attribute"}
	}
	key, err := FromToken(p.Name(), productType)
	if err != nil {
		return common.SearchResult{}, err
	}

	result := common.SearchResult{
		Satellite:       sat,
		ProductID:       hit.UUID,
		Link:            fmt.Sprintf(copernicusDownloadProduct, hit.UUID),
		Identifier:      strings.TrimSuffix(hit.Identifier, ".SAFE"),
		Filename:        hit.Identifier,
		Time:            &date,
		ProcessingLevel: key.Level,
		Sensor:          copernicusSensors[sat],
		GeometryWKT:     wkt.MustEncode(hit.Footprint.Geometry),
	}
	if hit.ContentLength > 0 {
		size := hit.ContentLength
		result.Size = &size
	}
	if cc, ok := hit.attribute("cloudCover"); ok {
		if v, err := strconv.ParseFloat(cc, 64); err == nil {
			result.CloudCoverPercentage = &v
		}
	}
	return result, nil
}

func (p *Copernicus) queryOData(ctx context.Context, query string) ([]odataHit, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = copernicusPageLimit
	}
	query = neturl.QueryEscape(query)

	var hits []odataHit
	for page := 0; ; page++ {
		log.Logger(ctx).Sugar().Debugf("[Copernicus] Search page %d", page+1)
		url := copernicusODataQueryURL + query + fmt.Sprintf("&$orderby=ContentDate/Start&$top=%d&$skip=%d&$expand=Attributes", limit, limit*page)
		jsonResults, err := service.GetBodyRetry(url, 3)
		if err != nil {
			return nil, fmt.Errorf("queryOData: %w", err)
		}

		results := struct {
			Status int        `json:"status"`
			Next   string     `json:"@odata.nextLink"`
			Hits   []odataHit `json:"value"`
		}{}
		if err := json.Unmarshal(jsonResults, &results); err != nil {
			return nil, fmt.Errorf("queryOData.Unmarshal: %w (response: %s)", err, jsonResults)
		}
		if results.Status != 0 && results.Status != 200 {
			return nil, fmt.Errorf("queryOData: http status: %d (response: %s)", results.Status, jsonResults)
		}

		hits = append(hits, results.Hits...)
		if results.Next == "" || len(results.Hits) < limit {
			return hits, nil
		}
	}
}

// DownloadMany implements DownloadProvider using the OData $value endpoint.
func (p *Copernicus) DownloadMany(ctx context.Context, results []common.SearchResult, downloadDir string, overwrite bool, concurrency int) error {
	if err := mkdirAll(downloadDir); err != nil {
		return fmt.Errorf("Copernicus.%w", err)
	}
	return forEachResult(ctx, p.Name(), results, concurrency, func(ctx context.Context, r common.SearchResult) error {
		token, err := p.bearerToken(ctx)
		if err != nil {
			return fmt.Errorf("Copernicus.%w", err)
		}
		url := r.Link
		if url == "" {
			url = fmt.Sprintf(copernicusDownloadProduct, r.ProductID)
		}
		localZip := path.Join(downloadDir, r.Identifier+".zip")
		opts := downloadOptions{
			header:             map[string][]string{"Authorization": {token}},
			copyAuthOnRedirect: true,
			overwrite:          overwrite,
			unzip:              true,
		}
		if err := downloadAsset(ctx, url, localZip, p.Name()+":"+r.Identifier, opts); err != nil {
			return fmt.Errorf("Copernicus.%w", err)
		}
		return nil
	})
}

// bearerToken returns a valid "Bearer ..." header value, requesting or
// refreshing the CDSE token as needed.
func (p *Copernicus) bearerToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tokens == nil {
		cfg := oauth2.Config{
			ClientID: "cdse-public",
			Endpoint: oauth2.Endpoint{TokenURL: copernicusAuthURL},
		}
		token, err := cfg.PasswordCredentialsToken(ctx, p.User, p.Password)
		if err != nil {
			return "", fmt.Errorf("bearerToken: %w", err)
		}
		p.tokens = cfg.TokenSource(context.Background(), token)
	}
	token, err := p.tokens.Token()
	if err != nil {
		return "", fmt.Errorf("bearerToken: %w", err)
	}
	return "Bearer " + token.AccessToken, nil
}
