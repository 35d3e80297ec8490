package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/eceo-epfl/earth-extractor/common"
	"github.com/eceo-epfl/earth-extractor/service"
)

const (
	asfDownloadProductSLC = "https://datapool.asf.alaska.edu/SLC/S{MISSION_VERSION}/{SCENE}.zip"
	asfDownloadProductGRD = "https://datapool.asf.alaska.edu/GRD-HD/S{MISSION_VERSION}/{SCENE}.zip"
	asfSearchAPI          = "https://api.daac.asf.alaska.edu/services/search/param?granule_list=%s&output=geojson"
)

// ASF downloads Sentinel-1 products from the Alaska Satellite Facility.
type ASF struct {
	token string
}

// NewASF creates a provider for the Alaska Satellite Facility
func NewASF(token string) *ASF {
	return &ASF{token: token}
}

// Name implements DownloadProvider
func (p *ASF) Name() string {
	return "ASF"
}

// DownloadMany implements DownloadProvider
func (p *ASF) DownloadMany(ctx context.Context, results []common.SearchResult, downloadDir string, overwrite bool, concurrency int) error {
	if err := mkdirAll(downloadDir); err != nil {
		return fmt.Errorf("ASF.%w", err)
	}
	return forEachResult(ctx, p.Name(), results, concurrency, func(ctx context.Context, r common.SearchResult) error {
		url, err := p.downloadURL(r)
		if err != nil {
			return fmt.Errorf("ASF.%w", err)
		}
		localZip := path.Join(downloadDir, r.Identifier+".zip")
		opts := downloadOptions{
			header:             map[string][]string{"Authorization": {"Bearer " + p.token}},
			copyAuthOnRedirect: true,
			overwrite:          overwrite,
			unzip:              true,
		}
		if err := downloadAsset(ctx, url, localZip, p.Name()+":"+r.Identifier, opts); err != nil {
			return fmt.Errorf("ASF.%w", err)
		}
		return nil
	})
}

// downloadURL derives the datapool URL from the scene name, falling back to
// a SearchAPI lookup when the name cannot be decomposed.
func (p *ASF) downloadURL(r common.SearchResult) (string, error) {
	if sat, _ := common.GetSatelliteFromProductID(r.Identifier); sat != common.Sentinel1 {
		return "", fmt.Errorf("downloadURL: satellite not supported")
	}
	info, err := common.Info(r.Identifier)
	if err != nil {
		return p.searchDownloadURL(r.Identifier)
	}
	switch info["PRODUCT_TYPE"] {
	case "SLC":
		return common.FormatBrackets(asfDownloadProductSLC, info), nil
	case "GRD":
		return common.FormatBrackets(asfDownloadProductGRD, info), nil
	}
	return p.searchDownloadURL(r.Identifier)
}

// searchDownloadURL asks the ASF SearchAPI for the product download URL.
func (p *ASF) searchDownloadURL(sceneName string) (string, error) {
	body, err := service.GetBodyRetry(fmt.Sprintf(asfSearchAPI, sceneName), 3)
	if err != nil {
		return "", fmt.Errorf("searchDownloadURL: %w", err)
	}

	featureCollection := struct {
		Features []struct {
			Properties struct {
				URL string `json:"url"`
			} `json:"properties"`
		} `json:"features"`
	}{}
	if err := json.Unmarshal(body, &featureCollection); err != nil {
		return "", fmt.Errorf("searchDownloadURL.Unmarshal [%s]: %w", body, err)
	}
	if len(featureCollection.Features) == 0 || featureCollection.Features[0].Properties.URL == "" {
		return "", ErrProductNotFound{Product: sceneName}
	}
	return featureCollection.Features[0].Properties.URL, nil
}
