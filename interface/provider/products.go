package provider

import (
	"fmt"

	"github.com/eceo-epfl/earth-extractor/common"
)

// ProductKey identifies a (satellite, processing level) pair.
type ProductKey struct {
	Satellite common.Satellite
	Level     common.ProcessingLevel
}

// productTokens maps a satellite/level pair to the provider-native product
// identifiers that together cover it. A pair may expand to several tokens
// (e.g. MODIS L1B is served as three separate resolutions) and they are all
// queried; the reverse lookup folds any of them back to the same pair.
var productTokens = map[ProductKey][]string{
	// Copernicus OData productType
	{common.Sentinel1, common.L1}:  {"SLC", "GRD"},
	{common.Sentinel1, common.L2}:  {"OCN"},
	{common.Sentinel2, common.L1C}: {"S2MSI1C"},
	{common.Sentinel2, common.L2A}: {"S2MSI2A"},

	// NASA CMR short names
	{common.Sentinel3, common.L1}:   {"S3A_OL_1_EFR", "S3B_OL_1_EFR"},
	{common.Sentinel3, common.L2}:   {"S3A_OL_2_LFR", "S3B_OL_2_LFR", "S3A_OL_2_WFR", "S3B_OL_2_WFR"},
	{common.ModisTerra, common.L1B}: {"MOD021KM", "MOD02HKM", "MOD02QKM"},
	{common.ModisAqua, common.L1B}:  {"MYD021KM", "MYD02HKM", "MYD02QKM"},
	{common.VIIRS, common.L1}:       {"VNP02IMG", "VNP02MOD"},

	// SwissTopo asset search resolution parameter
	{common.SwissImage, common.CM10}:  {"resolution=0.1"},
	{common.SwissImage, common.CM200}: {"resolution=2.0"},
}

var tokenToProduct = func() map[string]ProductKey {
	m := make(map[string]ProductKey)
	for key, tokens := range productTokens {
		for _, token := range tokens {
			m[token] = key
		}
	}
	return m
}()

// Tokens returns the provider-native product identifiers for a
// satellite/level pair.
func Tokens(sat common.Satellite, level common.ProcessingLevel) ([]string, error) {
	tokens, ok := productTokens[ProductKey{sat, level}]
	if !ok {
		return nil, fmt.Errorf("Tokens: no product type for %s:%s", sat, level)
	}
	return tokens, nil
}

// FromToken resolves a provider-native product identifier back to its
// satellite/level pair. An unknown token means the provider answered with a
// product the caller never asked for and is reported as such.
func FromToken(provider, token string) (ProductKey, error) {
	key, ok := tokenToProduct[token]
	if !ok {
		return ProductKey{}, ErrUnexpectedPayload{Provider: provider, Hint: fmt.Sprintf("unknown product type %q", token)}
	}
	return key, nil
}
