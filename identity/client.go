// Package identity talks to the account provider that fronts the resource
// API: it logs in with account credentials, resolves the account holder id,
// and mints the short-lived signed tokens the resource API expects. All three
// operations are stateless; the session manager in core owns caching.
package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-telematics/core"
	"github.com/goliatone/go-telematics/transport"
)

const (
	loginPath       = "/accounts.login"
	accountInfoPath = "/accounts.getAccountInfo"
	jwtPath         = "/accounts.getJWT"

	// Validity window requested for minted tokens; the provider default.
	jwtExpirationSeconds = 900

	jwtFields = "data.personId,data.gigyaDataCenter"

	defaultRequestTimeout = 10 * time.Second
)

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	config  Config
	adapter transport.Adapter
}

func NewClient(cfg Config, adapter transport.Adapter) (*Client, error) {
	cfg.URL = strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.URL == "" {
		return nil, core.BadInputError("identity: provider url is required")
	}
	if cfg.APIKey == "" {
		return nil, core.BadInputError("identity: api key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRequestTimeout
	}
	if adapter == nil {
		adapter = transport.NewRESTAdapter(nil)
	}
	return &Client{
		config:  cfg,
		adapter: adapter,
	}, nil
}

// Login exchanges account credentials for the provider session cookie.
func (c *Client) Login(ctx context.Context, loginID, password string) (string, error) {
	envelope, err := c.post(ctx, loginPath, url.Values{
		"loginID":  []string{strings.TrimSpace(loginID)},
		"password": []string{password},
	})
	if err != nil {
		return "", err
	}
	if envelope.SessionInfo == nil || strings.TrimSpace(envelope.SessionInfo.CookieValue) == "" {
		return "", core.MalformedResponseError("identity: login response is missing sessionInfo.cookieValue")
	}
	return envelope.SessionInfo.CookieValue, nil
}

// PersonID resolves the stable account-holder id behind a session cookie.
func (c *Client) PersonID(ctx context.Context, session string) (string, error) {
	envelope, err := c.post(ctx, accountInfoPath, url.Values{
		"login_token": []string{strings.TrimSpace(session)},
	})
	if err != nil {
		return "", err
	}
	if envelope.Data == nil || strings.TrimSpace(envelope.Data.PersonID) == "" {
		return "", core.MalformedResponseError("identity: account info response is missing data.personId")
	}
	return envelope.Data.PersonID, nil
}

// JWT mints a short-lived signed token from a session cookie, requesting the
// person-id and data-center claims the resource API keys on.
func (c *Client) JWT(ctx context.Context, session string) (string, error) {
	envelope, err := c.post(ctx, jwtPath, url.Values{
		"login_token": []string{strings.TrimSpace(session)},
		"fields":      []string{jwtFields},
		"expiration":  []string{strconv.Itoa(jwtExpirationSeconds)},
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(envelope.IDToken) == "" {
		return "", core.MalformedResponseError("identity: jwt response is missing id_token")
	}
	return envelope.IDToken, nil
}

type envelope struct {
	ErrorCode    int    `json:"errorCode"`
	ErrorDetails string `json:"errorDetails"`
	IDToken      string `json:"id_token"`
	SessionInfo  *struct {
		CookieValue string `json:"cookieValue"`
	} `json:"sessionInfo"`
	Data *struct {
		PersonID string `json:"personId"`
	} `json:"data"`
}

func (c *Client) post(ctx context.Context, path string, form url.Values) (envelope, error) {
	if c == nil || c.adapter == nil {
		return envelope{}, core.BadInputError("identity: client is not configured")
	}
	form.Set("apiKey", c.config.APIKey)

	res, err := c.adapter.Do(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    c.config.URL + path,
		Headers: map[string]string{
			"Content-Type": "application/x-www-form-urlencoded",
			"Accept":       "application/json",
		},
		Body:    []byte(form.Encode()),
		Timeout: c.config.Timeout,
	})
	if err != nil {
		return envelope{}, err
	}

	// The provider reports failures inside a 200 envelope; any other status
	// means something between us and it answered instead.
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return envelope{}, core.UpstreamStatusError(res.StatusCode,
			"identity: provider returned status "+strconv.Itoa(res.StatusCode))
	}

	var parsed envelope
	if err := json.Unmarshal(res.Body, &parsed); err != nil {
		return envelope{}, core.MalformedResponseError("identity: decode provider response: " + err.Error())
	}
	if parsed.ErrorCode != 0 {
		return envelope{}, newAPIError(parsed.ErrorCode, parsed.ErrorDetails)
	}
	return parsed, nil
}

// denestErrorDetails flattens the provider's inconsistently nested error
// detail: the field is sometimes itself JSON carrying structured errors that
// belong in one human-readable string.
func denestErrorDetails(detail string) string {
	detail = strings.TrimSpace(detail)
	if detail == "" || !strings.HasPrefix(detail, "{") {
		return detail
	}
	var nested struct {
		Errors []struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
			Source struct {
				Pointer string `json:"pointer"`
			} `json:"source"`
		} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(detail), &nested); err != nil || len(nested.Errors) == 0 {
		return detail
	}
	parts := make([]string, 0, len(nested.Errors))
	for _, item := range nested.Errors {
		segment := strings.TrimSpace(item.Title)
		if pointer := strings.TrimSpace(item.Source.Pointer); pointer != "" {
			segment += " (" + pointer + ")"
		}
		if itemDetail := strings.TrimSpace(item.Detail); itemDetail != "" {
			if segment != "" {
				segment += ": "
			}
			segment += itemDetail
		}
		if segment != "" {
			parts = append(parts, segment)
		}
	}
	if len(parts) == 0 {
		return detail
	}
	return strings.Join(parts, "; ")
}

var _ core.IdentityClient = (*Client)(nil)
