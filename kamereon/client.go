// Package kamereon talks to the vehicle resource API. Every operation takes
// the already minted access token as a plain argument: the client holds no
// session state, which keeps it trivially testable and leaves refresh policy
// to the session manager in core.
package kamereon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-telematics/core"
	"github.com/goliatone/go-telematics/transport"
)

const defaultRequestTimeout = 30 * time.Second

const accessTokenHeader = "x-gigya-id_token"

// Read endpoints are version 1 or version 2 depending on the attribute set
// they return. The version belongs to the endpoint, not the caller; it must
// track the remote contract.
var readEndpointVersions = map[string]int{
	"battery-status":    2,
	"cockpit":           2,
	"hvac-status":       1,
	"charge-mode":       1,
	"location":          1,
	"lock-status":       1,
	"charging-settings": 1,
}

var actionEndpointVersions = map[string]int{
	"hvac-start":      1,
	"charging-start":  1,
	"charge-mode":     1,
	"charge-schedule": 2,
}

type Config struct {
	URL     string
	APIKey  string
	Country string
	Timeout time.Duration
}

type Client struct {
	config  Config
	adapter transport.Adapter
}

func NewClient(cfg Config, adapter transport.Adapter) (*Client, error) {
	cfg.URL = strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Country = strings.ToUpper(strings.TrimSpace(cfg.Country))
	if cfg.URL == "" {
		return nil, core.BadInputError("kamereon: resource api url is required")
	}
	if cfg.APIKey == "" {
		return nil, core.BadInputError("kamereon: api key is required")
	}
	if cfg.Country == "" {
		return nil, core.BadInputError("kamereon: country code is required")
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

// Person fetches the account-holder record with its account links.
func (c *Client) Person(ctx context.Context, accessToken, personID string) (Person, error) {
	var person Person
	body, err := c.call(ctx, http.MethodGet, fmt.Sprintf("/commerce/v1/persons/%s", strings.TrimSpace(personID)), accessToken, nil)
	if err != nil {
		return Person{}, err
	}
	if err := json.Unmarshal(body, &person); err != nil {
		return Person{}, core.MalformedResponseError("kamereon: decode person: " + err.Error())
	}
	return person, nil
}

// Vehicles lists the vehicle links of one account.
func (c *Client) Vehicles(ctx context.Context, accessToken, accountID string) (VehicleList, error) {
	var list VehicleList
	body, err := c.call(ctx, http.MethodGet, fmt.Sprintf("/commerce/v1/accounts/%s/vehicles", strings.TrimSpace(accountID)), accessToken, nil)
	if err != nil {
		return VehicleList{}, err
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return VehicleList{}, core.MalformedResponseError("kamereon: decode vehicles: " + err.Error())
	}
	return list, nil
}

// BatteryStatus reads the battery endpoint (v2 attribute set).
func (c *Client) BatteryStatus(ctx context.Context, accessToken, accountID, vin string) (BatteryStatus, error) {
	var status BatteryStatus
	err := c.readVehicleData(ctx, accessToken, accountID, vin, "battery-status", &status)
	return status, err
}

// Cockpit reads mileage and fuel figures (v2 attribute set).
func (c *Client) Cockpit(ctx context.Context, accessToken, accountID, vin string) (Cockpit, error) {
	var cockpit Cockpit
	err := c.readVehicleData(ctx, accessToken, accountID, vin, "cockpit", &cockpit)
	return cockpit, err
}

func (c *Client) HvacStatus(ctx context.Context, accessToken, accountID, vin string) (HvacStatus, error) {
	var status HvacStatus
	err := c.readVehicleData(ctx, accessToken, accountID, vin, "hvac-status", &status)
	return status, err
}

func (c *Client) ChargeMode(ctx context.Context, accessToken, accountID, vin string) (ChargeMode, error) {
	var mode ChargeMode
	err := c.readVehicleData(ctx, accessToken, accountID, vin, "charge-mode", &mode)
	return mode, err
}

func (c *Client) Location(ctx context.Context, accessToken, accountID, vin string) (Location, error) {
	var location Location
	err := c.readVehicleData(ctx, accessToken, accountID, vin, "location", &location)
	return location, err
}

func (c *Client) LockStatus(ctx context.Context, accessToken, accountID, vin string) (LockStatus, error) {
	var status LockStatus
	err := c.readVehicleData(ctx, accessToken, accountID, vin, "lock-status", &status)
	return status, err
}

func (c *Client) ChargingSettings(ctx context.Context, accessToken, accountID, vin string) (ChargingSettings, error) {
	var settings ChargingSettings
	err := c.readVehicleData(ctx, accessToken, accountID, vin, "charging-settings", &settings)
	return settings, err
}

// SetChargeMode posts the charge-mode action ("always", "always_charging",
// "schedule_mode").
func (c *Client) SetChargeMode(ctx context.Context, accessToken, accountID, vin, mode string) (ActionResult, error) {
	return c.postAction(ctx, accessToken, accountID, vin, "charge-mode", "ChargeMode", map[string]any{
		"action": strings.TrimSpace(mode),
	})
}

// StartCharging posts an immediate charge request.
func (c *Client) StartCharging(ctx context.Context, accessToken, accountID, vin string) (ActionResult, error) {
	return c.postAction(ctx, accessToken, accountID, vin, "charging-start", "ChargingStart", map[string]any{
		"action": "start",
	})
}

// StartHvac posts an air-conditioning start, optionally deferred to a
// wire-format start time produced by FormatStartTime.
func (c *Client) StartHvac(ctx context.Context, accessToken, accountID, vin string, targetTemperature float64, startTime string) (ActionResult, error) {
	attributes := map[string]any{
		"action":            "start",
		"targetTemperature": targetTemperature,
	}
	if strings.TrimSpace(startTime) != "" {
		attributes["startDateTime"] = strings.TrimSpace(startTime)
	}
	return c.postAction(ctx, accessToken, accountID, vin, "hvac-start", "HvacStart", attributes)
}

// StopHvac cancels air conditioning through the same action endpoint.
func (c *Client) StopHvac(ctx context.Context, accessToken, accountID, vin string) (ActionResult, error) {
	return c.postAction(ctx, accessToken, accountID, vin, "hvac-start", "HvacStart", map[string]any{
		"action": "cancel",
	})
}

// SetChargeSchedules replaces the weekly charging plans.
func (c *Client) SetChargeSchedules(ctx context.Context, accessToken, accountID, vin string, schedules []ChargeSchedule) (ActionResult, error) {
	return c.postAction(ctx, accessToken, accountID, vin, "charge-schedule", "ChargeSchedule", map[string]any{
		"schedules": schedules,
	})
}

func (c *Client) readVehicleData(ctx context.Context, accessToken, accountID, vin, endpoint string, target any) error {
	version, ok := readEndpointVersions[endpoint]
	if !ok {
		return core.BadInputError(fmt.Sprintf("kamereon: unknown read endpoint %q", endpoint))
	}
	path := fmt.Sprintf(
		"/commerce/v1/accounts/%s/kamereon/kca/car-adapter/v%d/cars/%s/%s",
		strings.TrimSpace(accountID), version, strings.TrimSpace(vin), endpoint,
	)
	body, err := c.call(ctx, http.MethodGet, path, accessToken, nil)
	if err != nil {
		return err
	}
	return decodeDataAttributes(body, endpoint, target)
}

func (c *Client) postAction(ctx context.Context, accessToken, accountID, vin, endpoint, dataType string, attributes map[string]any) (ActionResult, error) {
	version, ok := actionEndpointVersions[endpoint]
	if !ok {
		return ActionResult{}, core.BadInputError(fmt.Sprintf("kamereon: unknown action endpoint %q", endpoint))
	}
	path := fmt.Sprintf(
		"/commerce/v1/accounts/%s/kamereon/kca/car-adapter/v%d/cars/%s/actions/%s",
		strings.TrimSpace(accountID), version, strings.TrimSpace(vin), endpoint,
	)
	payload, err := json.Marshal(map[string]any{
		"data": map[string]any{
			"type":       dataType,
			"attributes": attributes,
		},
	})
	if err != nil {
		return ActionResult{}, core.BadInputError("kamereon: encode action payload: " + err.Error())
	}

	body, err := c.call(ctx, http.MethodPost, path, accessToken, payload)
	if err != nil {
		return ActionResult{}, err
	}
	var parsed struct {
		Data ActionResult `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ActionResult{}, core.MalformedResponseError("kamereon: decode action result: " + err.Error())
	}
	return parsed.Data, nil
}

func (c *Client) call(ctx context.Context, method, path, accessToken string, body []byte) ([]byte, error) {
	if c == nil || c.adapter == nil {
		return nil, core.BadInputError("kamereon: client is not configured")
	}
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, core.BadInputError("kamereon: access token is required")
	}

	headers := map[string]string{
		"apikey":          c.config.APIKey,
		accessTokenHeader: accessToken,
		"Accept":          "application/json",
	}
	if method == http.MethodPost {
		headers["Content-Type"] = "application/vnd.api+json"
	}

	res, err := c.adapter.Do(ctx, transport.Request{
		Method:  method,
		URL:     c.config.URL + path,
		Headers: headers,
		Query:   map[string]string{"country": c.config.Country},
		Body:    body,
		Timeout: c.config.Timeout,
	})
	if err != nil {
		return nil, err
	}

	// Error envelopes legitimately ride on 4xx/5xx statuses, so the envelope
	// is consulted first; the status only decides when the body carries no
	// application-level verdict (proxy error pages, gateway JSON).
	badStatus := res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices
	if err := checkErrorEnvelope(res.Body); err != nil {
		if badStatus && core.IsMalformedResponse(err) {
			return nil, core.UpstreamStatusError(res.StatusCode,
				"kamereon: remote returned status "+strconv.Itoa(res.StatusCode))
		}
		return nil, err
	}
	if badStatus {
		return nil, core.UpstreamStatusError(res.StatusCode,
			"kamereon: remote returned status "+strconv.Itoa(res.StatusCode))
	}
	return res.Body, nil
}

func checkErrorEnvelope(body []byte) error {
	var envelope struct {
		Errors []struct {
			ErrorCode    string `json:"errorCode"`
			ErrorMessage string `json:"errorMessage"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return core.MalformedResponseError("kamereon: decode response envelope: " + err.Error())
	}
	if len(envelope.Errors) == 0 {
		return nil
	}
	first := envelope.Errors[0]
	return newAPIError(first.ErrorCode, first.ErrorMessage)
}

func decodeDataAttributes(body []byte, endpoint string, target any) error {
	var envelope struct {
		Data *struct {
			Attributes json.RawMessage `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return core.MalformedResponseError("kamereon: decode data envelope: " + err.Error())
	}
	if envelope.Data == nil || len(envelope.Data.Attributes) == 0 {
		return core.MalformedResponseError(fmt.Sprintf("kamereon: %s response is missing data.attributes", endpoint))
	}
	if err := json.Unmarshal(envelope.Data.Attributes, target); err != nil {
		return core.MalformedResponseError(fmt.Sprintf("kamereon: decode %s attributes: %s", endpoint, err.Error()))
	}
	return nil
}
