// Package locales maps a locale code to the endpoint roots and public API
// keys of the two remote services for that market. Known locales resolve
// from a static table; unknown ones fall back to fetching the vendor's
// published per-locale configuration document.
package locales

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-telematics/core"
	"github.com/goliatone/go-telematics/transport"
)

// Endpoints carries everything the clients need for one market.
type Endpoints struct {
	IdentityURL    string
	IdentityAPIKey string
	ResourceURL    string
	ResourceAPIKey string
}

const (
	identityEuropeURL = "https://accounts.eu1.gigya.com"
	resourceEuropeURL = "https://api-wired-prod-1-euw1.wrd-aws.com"

	identityEuropeKey = "3_e8d4g4SE_Fo1ahyaN1degSrOqbKUYdAGBzIqbyx6rPsxyRBwQaSiPrSh9NDe7lfW"
	resourceEuropeKey = "YjkKtHmGfaceeuExUDKGxrLZGGvtVS0J"
)

var table = map[string]Endpoints{
	"fr_FR": europe(),
	"en_GB": europe(),
	"de_DE": europe(),
	"es_ES": europe(),
	"it_IT": europe(),
	"nl_NL": europe(),
	"nl_BE": europe(),
	"fr_BE": europe(),
	"pt_PT": europe(),
	"da_DK": europe(),
	"sv_SE": europe(),
	"nb_NO": europe(),
	"fi_FI": europe(),
	"pl_PL": europe(),
	"cs_CZ": europe(),
	"de_AT": europe(),
	"de_CH": europe(),
	"fr_CH": europe(),
	"it_CH": europe(),
	"en_IE": europe(),
}

func europe() Endpoints {
	return Endpoints{
		IdentityURL:    identityEuropeURL,
		IdentityAPIKey: identityEuropeKey,
		ResourceURL:    resourceEuropeURL,
		ResourceAPIKey: resourceEuropeKey,
	}
}

// Resolve returns the static entry for a locale. No network I/O happens
// here; unknown locales report not-found so callers may try Fetch.
func Resolve(locale string) (Endpoints, error) {
	locale = strings.TrimSpace(locale)
	endpoints, ok := table[locale]
	if !ok {
		return Endpoints{}, fmt.Errorf("locales: unknown locale %q", locale)
	}
	return endpoints, nil
}

// Known lists the locales in the static table.
func Known() []string {
	out := make([]string, 0, len(table))
	for locale := range table {
		out = append(out, locale)
	}
	return out
}

const defaultConfigBaseURL = "https://renault-wrd-prod-1-euw1-myrapp-one.s3-eu-west-1.amazonaws.com/configuration/android"

const fetchTimeout = 10 * time.Second

// Fetcher retrieves the vendor's published configuration document for
// locales missing from the static table.
type Fetcher struct {
	BaseURL string
	Adapter transport.Adapter
}

func NewFetcher(adapter transport.Adapter) *Fetcher {
	if adapter == nil {
		adapter = transport.NewRESTAdapter(nil)
	}
	return &Fetcher{
		BaseURL: defaultConfigBaseURL,
		Adapter: adapter,
	}
}

// Fetch resolves a locale through the static table first, then the remote
// configuration document.
func (f *Fetcher) Fetch(ctx context.Context, locale string) (Endpoints, error) {
	if endpoints, err := Resolve(locale); err == nil {
		return endpoints, nil
	}
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return Endpoints{}, core.BadInputError("locales: locale is required")
	}
	if f == nil || f.Adapter == nil {
		return Endpoints{}, core.BadInputError("locales: fetcher is not configured")
	}

	res, err := f.Adapter.Do(ctx, transport.Request{
		Method:  http.MethodGet,
		URL:     strings.TrimRight(f.BaseURL, "/") + "/config_" + locale + ".json",
		Timeout: fetchTimeout,
	})
	if err != nil {
		return Endpoints{}, err
	}
	if res.StatusCode != http.StatusOK {
		return Endpoints{}, fmt.Errorf("locales: configuration fetch for %q returned status %d", locale, res.StatusCode)
	}

	var document struct {
		Servers struct {
			GigyaProd struct {
				Target string `json:"target"`
				APIKey string `json:"apikey"`
			} `json:"gigyaProd"`
			WiredProd struct {
				Target string `json:"target"`
				APIKey string `json:"apikey"`
			} `json:"wiredProd"`
		} `json:"servers"`
	}
	if err := json.Unmarshal(res.Body, &document); err != nil {
		return Endpoints{}, core.MalformedResponseError("locales: decode configuration document: " + err.Error())
	}

	endpoints := Endpoints{
		IdentityURL:    strings.TrimSpace(document.Servers.GigyaProd.Target),
		IdentityAPIKey: strings.TrimSpace(document.Servers.GigyaProd.APIKey),
		ResourceURL:    strings.TrimSpace(document.Servers.WiredProd.Target),
		ResourceAPIKey: strings.TrimSpace(document.Servers.WiredProd.APIKey),
	}
	if endpoints.IdentityURL == "" || endpoints.ResourceURL == "" {
		return Endpoints{}, core.MalformedResponseError(fmt.Sprintf("locales: configuration document for %q is missing server targets", locale))
	}
	return endpoints, nil
}
