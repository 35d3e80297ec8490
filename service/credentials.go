package service

import (
	"fmt"
	"sort"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"
)

// KeyringService is the service name under which secrets are stored in the
// OS keyring.
const KeyringService = "earth-extractor"

// Credentials holds every provider secret. Values are resolved from the
// environment (optionally a .env file) first, then from the OS keyring for
// any key the environment leaves empty.
type Credentials struct {
	ScihubUsername  string `env:"SCIHUB_USERNAME"`
	ScihubPassword  string `env:"SCIHUB_PASSWORD"`
	ASFToken        string `env:"ASF_TOKEN"`
	NASAToken       string `env:"NASA_TOKEN"`
	SinergiseKey    string `env:"SINERGISE_ACCESS_KEY_ID"`
	SinergiseSecret string `env:"SINERGISE_SECRET_ACCESS_KEY"`
}

func (c *Credentials) fields() map[string]*string {
	return map[string]*string{
		"SCIHUB_USERNAME":             &c.ScihubUsername,
		"SCIHUB_PASSWORD":             &c.ScihubPassword,
		"ASF_TOKEN":                   &c.ASFToken,
		"NASA_TOKEN":                  &c.NASAToken,
		"SINERGISE_ACCESS_KEY_ID":     &c.SinergiseKey,
		"SINERGISE_SECRET_ACCESS_KEY": &c.SinergiseSecret,
	}
}

// CredentialKeys lists the valid credential key names, sorted.
func CredentialKeys() []string {
	keys := make([]string, 0)
	for k := range (&Credentials{}).fields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadCredentials resolves all credentials from .env/environment/keyring.
// A missing .env file is not an error.
func LoadCredentials() (*Credentials, error) {
	godotenv.Load()

	c := Credentials{}
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("LoadCredentials: %w", err)
	}
	for key, value := range c.fields() {
		if *value != "" {
			continue
		}
		if secret, err := keyring.Get(KeyringService, key); err == nil {
			*value = secret
		}
	}
	return &c, nil
}

// Get returns the value stored for a credential key.
func (c *Credentials) Get(key string) (string, error) {
	value, ok := c.fields()[key]
	if !ok {
		return "", fmt.Errorf("unknown credential key: %s (valid keys: %v)", key, CredentialKeys())
	}
	return *value, nil
}

// StoreCredential persists a secret in the OS keyring.
func StoreCredential(key, value string) error {
	if _, ok := (&Credentials{}).fields()[key]; !ok {
		return fmt.Errorf("unknown credential key: %s (valid keys: %v)", key, CredentialKeys())
	}
	if err := keyring.Set(KeyringService, key, value); err != nil {
		return fmt.Errorf("StoreCredential: %w", err)
	}
	return nil
}

// DeleteCredential removes a secret from the OS keyring.
func DeleteCredential(key string) error {
	if _, ok := (&Credentials{}).fields()[key]; !ok {
		return fmt.Errorf("unknown credential key: %s (valid keys: %v)", key, CredentialKeys())
	}
	if err := keyring.Delete(KeyringService, key); err != nil {
		return fmt.Errorf("DeleteCredential: %w", err)
	}
	return nil
}
