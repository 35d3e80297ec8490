package common

import (
	"fmt"
	"strings"
	"time"
)

// GetSatelliteFromProductID guesses the constellation from a provider-native
// product name. Used when importing results whose provenance is unknown and
// by download providers that only receive a scene name.
func GetSatelliteFromProductID(productID string) (Satellite, bool) {
	switch {
	case strings.HasPrefix(productID, "S1"):
		return Sentinel1, true
	case strings.HasPrefix(productID, "S2"):
		return Sentinel2, true
	case strings.HasPrefix(productID, "S3"):
		return Sentinel3, true
	case strings.HasPrefix(productID, "MOD"):
		return ModisTerra, true
	case strings.HasPrefix(productID, "MYD"):
		return ModisAqua, true
	case strings.HasPrefix(productID, "VNP"), strings.HasPrefix(productID, "VJ1"), strings.HasPrefix(productID, "VJ2"):
		return VIIRS, true
	case strings.HasPrefix(productID, "swissimage"), strings.HasPrefix(productID, "ch.swisstopo"):
		return SwissImage, true
	}
	return "", false
}

// Info decomposes a Sentinel scene name into its named fields.
// Sentinel-1: MMM_BB_TTTR_LFPP_YYYYMMDDTHHMMSS_YYYYMMDDTHHMMSS_OOOOOO_DDDDDD_CCCC
// Sentinel-2: MMM_MSIXXX_YYYYMMDDTHHMMSS_Nxxyy_ROOO_Txxxxx_<Product Discriminator>
func Info(sceneName string) (map[string]string, error) {
	sat, _ := GetSatelliteFromProductID(sceneName)
	switch sat {
	case Sentinel1:
		if len(sceneName) < len("MMM_BB_TTTR_LFPP_YYYYMMDDTHHMMSS_YYYYMMDDTHHMMSS_OOOOOO_DDDDDD_CCCC") {
			return nil, fmt.Errorf("invalid Sentinel1 scene name: %s", sceneName)
		}
		return map[string]string{
			"SCENE":           sceneName,
			"MISSION_ID":      sceneName[0:3],
			"MISSION_VERSION": sceneName[2:3],
			"MODE":            sceneName[4:6],
			"PRODUCT_TYPE":    sceneName[7:10],
			"POLARISATION":    sceneName[14:16],
			"DATE":            sceneName[17:25],
			"YEAR":            sceneName[17:21],
			"MONTH":           sceneName[21:23],
			"DAY":             sceneName[23:25],
			"TIME":            sceneName[26:32],
			"ORBIT":           sceneName[49:55],
			"UNIQUE_ID":       sceneName[63:67],
		}, nil
	case Sentinel2:
		if len(sceneName) < len("MMM_MSIXXX_YYYYMMDDTHHMMSS_Nxxyy_ROOO_Txxxxx_YYYYMMDDTHHMMSS") {
			return nil, fmt.Errorf("invalid Sentinel2 scene name: %s", sceneName)
		}
		return map[string]string{
			"SCENE":         sceneName,
			"MISSION_ID":    sceneName[0:3],
			"PRODUCT_LEVEL": sceneName[7:10],
			"DATE":          sceneName[11:19],
			"YEAR":          sceneName[11:15],
			"MONTH":         sceneName[15:17],
			"DAY":           sceneName[17:19],
			"TIME":          sceneName[20:26],
			"ORBIT":         sceneName[34:37],
			"TILE":          sceneName[38:44],
			"UTM_ZONE":      strings.TrimLeft(sceneName[39:41], "0"),
			"LATITUDE_BAND": sceneName[41:42],
			"GRID_SQUARE":   sceneName[42:44],
		}, nil
	}
	return nil, fmt.Errorf("Info: satellite not supported for scene name: %s", sceneName)
}

// GetDateFromProductID extracts the acquisition date from a Sentinel scene name.
func GetDateFromProductID(sceneName string) (time.Time, error) {
	info, err := Info(sceneName)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse("20060102", info["DATE"])
}

// FormatBrackets replaces in str all {keys} of infos by the corresponding value.
func FormatBrackets(str string, infos ...map[string]string) string {
	for _, info := range infos {
		for k, v := range info {
			str = strings.ReplaceAll(str, "{"+k+"}", v)
		}
	}
	return str
}
