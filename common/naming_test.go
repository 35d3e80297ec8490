package common

import (
	"strings"
	"testing"
)

func TestGetSatelliteFromProductID(t *testing.T) {
	for productID, expected := range map[string]Satellite{
		"S1A_IW_SLC__1SDV_20230603T053543_20230603T053610_048773_05DD0A_ABCD": Sentinel1,
		"S2A_MSIL2A_20230603T103031_N0509_R108_T32TLS_20230603T142201":        Sentinel2,
		"S3A_OL_1_EFR____20230603T103031_20230603T103331_0179_099_222_2160":   Sentinel3,
		"MOD021KM.A2023154.1030.061.2023154193042.hdf":                        ModisTerra,
		"MYD021KM.A2023154.1030.061.2023154193042.hdf":                        ModisAqua,
		"VNP02IMG.A2023154.1030.002.2023154193042.nc":                         VIIRS,
		"swissimage-dop10_2021_2600-1200_0.1_2056":                            SwissImage,
	} {
		sat, ok := GetSatelliteFromProductID(productID)
		if !ok || sat != expected {
			t.Errorf("%s: expected %s, got %s (%v)", productID, expected, sat, ok)
		}
	}
	if _, ok := GetSatelliteFromProductID("LC08_L1TP_196028"); ok {
		t.Error("expected no match for a Landsat name")
	}
}

func TestInfoSentinel1(t *testing.T) {
	info, err := Info("S1A_IW_SLC__1SDV_20230603T053543_20230603T053610_048773_05DD0A_ABCD")
	if err != nil {
		t.Fatal(err)
	}
	for field, expected := range map[string]string{
		"MISSION_ID":      "S1A",
		"MISSION_VERSION": "A",
		"MODE":            "IW",
		"PRODUCT_TYPE":    "SLC",
		"POLARISATION":    "DV",
		"DATE":            "20230603",
		"TIME":            "053543",
		"ORBIT":           "048773",
		"UNIQUE_ID":       "ABCD",
	} {
		if info[field] != expected {
			t.Errorf("%s: expected %q, got %q", field, expected, info[field])
		}
	}
}

func TestInfoSentinel2(t *testing.T) {
	info, err := Info("S2A_MSIL2A_20230603T103031_N0509_R108_T32TLS_20230603T142201")
	if err != nil {
		t.Fatal(err)
	}
	for field, expected := range map[string]string{
		"MISSION_ID":    "S2A",
		"PRODUCT_LEVEL": "L2A",
		"DATE":          "20230603",
		"YEAR":          "2023",
		"MONTH":         "06",
		"DAY":           "03",
		"ORBIT":         "108",
		"TILE":          "T32TLS",
		"UTM_ZONE":      "32",
		"LATITUDE_BAND": "T",
		"GRID_SQUARE":   "LS",
	} {
		if info[field] != expected {
			t.Errorf("%s: expected %q, got %q", field, expected, info[field])
		}
	}
}

func TestInfoUTMZoneLeadingZero(t *testing.T) {
	info, err := Info("S2B_MSIL1C_20230603T103031_N0509_R108_T07VEG_20230603T142201")
	if err != nil {
		t.Fatal(err)
	}
	if info["UTM_ZONE"] != "7" {
		t.Errorf("expected the zone without its leading zero, got %q", info["UTM_ZONE"])
	}
}

func TestInfoInvalid(t *testing.T) {
	if _, err := Info("S1A_IW_SLC"); err == nil {
		t.Error("expected an error for a truncated Sentinel-1 name")
	}
	if _, err := Info("MOD021KM.A2023154.1030.061.2023154193042.hdf"); err == nil {
		t.Error("expected an error for a satellite without a naming scheme")
	}
	// the scene name must reach the message verbatim, whatever it contains
	_, err := Info("S1A_%d_%s")
	if err == nil || !strings.Contains(err.Error(), "S1A_%d_%s") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestGetDateFromProductID(t *testing.T) {
	date, err := GetDateFromProductID("S2A_MSIL2A_20230603T103031_N0509_R108_T32TLS_20230603T142201")
	if err != nil {
		t.Fatal(err)
	}
	if date.Format("2006-01-02") != "2023-06-03" {
		t.Errorf("expected 2023-06-03, got %s", date)
	}
}

func TestFormatBrackets(t *testing.T) {
	got := FormatBrackets("https://host/{A}/{B}.zip", map[string]string{"A": "left"}, map[string]string{"B": "right"})
	if got != "https://host/left/right.zip" {
		t.Errorf("unexpected result: %s", got)
	}
}
