package core

import (
	"fmt"
	"strings"
)

// EndpointConfig locates one of the two remote services: the identity
// provider or the resource API.
type EndpointConfig struct {
	URL    string `koanf:"url" mapstructure:"url"`
	APIKey string `koanf:"api_key" mapstructure:"api_key"`
}

// Config carries the locale-resolved endpoints plus the country code the
// resource API expects on every call. Endpoint values left empty are filled
// from the locale table by the composition root.
type Config struct {
	Locale   string         `koanf:"locale" mapstructure:"locale"`
	Country  string         `koanf:"country" mapstructure:"country"`
	Identity EndpointConfig `koanf:"identity" mapstructure:"identity"`
	Resource EndpointConfig `koanf:"resource" mapstructure:"resource"`
}

func DefaultConfig() Config {
	return Config{
		Locale: "fr_FR",
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Locale) == "" {
		return fmt.Errorf("core: locale is required")
	}
	return nil
}

// CountryCode returns the configured country, falling back to the locale's
// region suffix ("fr_FR" -> "FR").
func (c Config) CountryCode() string {
	country := strings.TrimSpace(c.Country)
	if country != "" {
		return strings.ToUpper(country)
	}
	locale := strings.TrimSpace(c.Locale)
	if idx := strings.LastIndexAny(locale, "_-"); idx >= 0 && idx+1 < len(locale) {
		return strings.ToUpper(locale[idx+1:])
	}
	return strings.ToUpper(locale)
}
