package spapi

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Config holds the per-account credentials needed to talk to the seller
// reports API. Profiles live in an ini file with one section per account id.
type Config struct {
	Endpoint      string
	AccessToken   string
	MarketplaceID string
}

// LoadConfig reads the account's profile section from the credentials file.
func LoadConfig(path, account string) (*Config, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load credentials file: %w", err)
	}

	section, err := cfg.GetSection(account)
	if err != nil {
		return nil, fmt.Errorf("no credentials profile for account %q in %s", account, path)
	}

	c := &Config{
		Endpoint:      section.Key("endpoint").String(),
		AccessToken:   section.Key("access_token").String(),
		MarketplaceID: section.Key("marketplace_id").String(),
	}
	if c.Endpoint == "" {
		return nil, fmt.Errorf("profile %q is missing an endpoint", account)
	}
	if c.AccessToken == "" {
		return nil, fmt.Errorf("profile %q is missing an access_token", account)
	}
	return c, nil
}
