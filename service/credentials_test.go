package service

import (
	"sort"
	"testing"
)

func TestCredentialKeys(t *testing.T) {
	keys := CredentialKeys()
	if !sort.StringsAreSorted(keys) {
		t.Errorf("keys must be sorted: %v", keys)
	}
	if len(keys) != 6 {
		t.Errorf("expected 6 keys, got %v", keys)
	}
}

func TestCredentialsGet(t *testing.T) {
	c := Credentials{NASAToken: "secret"}
	value, err := c.Get("NASA_TOKEN")
	if err != nil {
		t.Fatal(err)
	}
	if value != "secret" {
		t.Errorf("expected the stored value, got %q", value)
	}
	if _, err := c.Get("GITHUB_TOKEN"); err == nil {
		t.Error("expected an error for an unknown key")
	}
}
