package provider

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/eceo-epfl/earth-extractor/common"
)

const odataHitFixture = `{
	"Id": "4f3a44bb-7fa3-4c84-9ff2-21bfba6a62c3",
	"Name": "S2A_MSIL2A_20230603T103031_N0509_R108_T32TLS_20230603T142201.SAFE",
	"ContentLength": 787435521,
	"GeoFootprint": {"type": "Polygon", "coordinates": [[[7,46],[8,46],[8,47],[7,47],[7,46]]]},
	"ContentDate": {"Start": "2023-06-03T10:30:31.024Z"},
	"Attributes": [
		{"Name": "productType", "Value": "S2MSI2A"},
		{"Name": "cloudCover", "Value": 12.5}
	]
}`

func TestCopernicusTranslate(t *testing.T) {
	var hit odataHit
	if err := json.Unmarshal([]byte(odataHitFixture), &hit); err != nil {
		t.Fatal(err)
	}
	p := NewCopernicus("user", "password")
	result, err := p.translate(hit, common.Sentinel2)
	if err != nil {
		t.Fatal(err)
	}

	if result.ProductID != "4f3a44bb-7fa3-4c84-9ff2-21bfba6a62c3" {
		t.Errorf("unexpected product id: %q", result.ProductID)
	}
	if result.Identifier != "S2A_MSIL2A_20230603T103031_N0509_R108_T32TLS_20230603T142201" {
		t.Errorf(".SAFE suffix must be trimmed: %q", result.Identifier)
	}
	if result.Link != "https://catalogue.dataspace.copernicus.eu/odata/v1/Products(4f3a44bb-7fa3-4c84-9ff2-21bfba6a62c3)/$value" {
		t.Errorf("unexpected link: %q", result.Link)
	}
	if result.ProcessingLevel != common.L2A {
		t.Errorf("expected L2A, got %s", result.ProcessingLevel)
	}
	if result.Sensor != common.SensorMSI {
		t.Errorf("expected MSI, got %s", result.Sensor)
	}
	if result.Time == nil || result.Time.Format("2006-01-02") != "2023-06-03" {
		t.Errorf("unexpected time: %v", result.Time)
	}
	if result.CloudCoverPercentage == nil || *result.CloudCoverPercentage != 12.5 {
		t.Errorf("unexpected cloud cover: %v", result.CloudCoverPercentage)
	}
	if result.Size == nil || *result.Size != 787435521 {
		t.Errorf("unexpected size: %v", result.Size)
	}
	if result.GeometryWKT == "" {
		t.Error("expected an encoded footprint")
	}
}

func TestCopernicusTranslateRejectsNonUUID(t *testing.T) {
	var hit odataHit
	if err := json.Unmarshal([]byte(odataHitFixture), &hit); err != nil {
		t.Fatal(err)
	}
	hit.UUID = "not-a-uuid"
	p := NewCopernicus("user", "password")
	_, err := p.translate(hit, common.Sentinel2)
	var unexpected ErrUnexpectedPayload
	if !errors.As(err, &unexpected) {
		t.Errorf("expected ErrUnexpectedPayload, got %v", err)
	}
}

func TestCopernicusTranslateUnknownProductType(t *testing.T) {
	var hit odataHit
	if err := json.Unmarshal([]byte(odataHitFixture), &hit); err != nil {
		t.Fatal(err)
	}
	hit.Attributes[0].Value = "S2MSI0Z"
	p := NewCopernicus("user", "password")
	_, err := p.translate(hit, common.Sentinel2)
	var unexpected ErrUnexpectedPayload
	if !errors.As(err, &unexpected) {
		t.Errorf("expected ErrUnexpectedPayload, got %v", err)
	}
}
