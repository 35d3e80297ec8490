package provider

import (
	"errors"
	"testing"

	"github.com/eceo-epfl/earth-extractor/common"
)

func TestTokensRoundTrip(t *testing.T) {
	for key, tokens := range productTokens {
		got, err := Tokens(key.Satellite, key.Level)
		if err != nil {
			t.Errorf("%s:%s: %v", key.Satellite, key.Level, err)
			continue
		}
		if len(got) != len(tokens) {
			t.Errorf("%s:%s: expected %d tokens, got %d", key.Satellite, key.Level, len(tokens), len(got))
		}
		for _, token := range got {
			back, err := FromToken("test", token)
			if err != nil {
				t.Errorf("%s: %v", token, err)
				continue
			}
			if back != key {
				t.Errorf("%s: folded back to %s:%s, expected %s:%s", token, back.Satellite, back.Level, key.Satellite, key.Level)
			}
		}
	}
}

func TestTokensUndefinedPair(t *testing.T) {
	if _, err := Tokens(common.Sentinel1, common.L2A); err == nil {
		t.Error("expected an error for a level the satellite does not have")
	}
}

func TestFromTokenUnknown(t *testing.T) {
	_, err := FromToken("Copernicus", "RAW")
	var unexpected ErrUnexpectedPayload
	if !errors.As(err, &unexpected) {
		t.Fatalf("expected ErrUnexpectedPayload, got %v", err)
	}
	if unexpected.Provider != "Copernicus" {
		t.Errorf("expected the provider name in the error, got %q", unexpected.Provider)
	}
}
