package kamereon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-telematics/core"
	"github.com/goliatone/go-telematics/transport"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(Config{
		URL:     server.URL,
		APIKey:  "resource-key",
		Country: "FR",
	}, transport.NewRESTAdapter(server.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestClientBatteryStatus(t *testing.T) {
	var receivedPath string
	var receivedToken string
	var receivedAPIKey string
	var receivedCountry string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		receivedToken = r.Header.Get("x-gigya-id_token")
		receivedAPIKey = r.Header.Get("apikey")
		receivedCountry = r.URL.Query().Get("country")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"type": "Car",
				"id":   "VF1AAAAA555777999",
				"attributes": map[string]any{
					"timestamp":       "2026-08-31T11:58:00Z",
					"batteryLevel":    72,
					"batteryAutonomy": 281.0,
					"plugStatus":      1,
					"chargingStatus":  1.0,
					"futureField":     "ignored",
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	status, err := client.BatteryStatus(context.Background(), "token-1", "account-1", "VF1AAAAA555777999")
	if err != nil {
		t.Fatalf("battery status: %v", err)
	}

	// battery-status is a v2 endpoint; the version is part of the contract.
	wantPath := "/commerce/v1/accounts/account-1/kamereon/kca/car-adapter/v2/cars/VF1AAAAA555777999/battery-status"
	if receivedPath != wantPath {
		t.Fatalf("expected path %q, got %q", wantPath, receivedPath)
	}
	if receivedToken != "token-1" {
		t.Fatalf("expected access token header, got %q", receivedToken)
	}
	if receivedAPIKey != "resource-key" {
		t.Fatalf("expected apikey header, got %q", receivedAPIKey)
	}
	if receivedCountry != "FR" {
		t.Fatalf("expected country query parameter, got %q", receivedCountry)
	}
	if status.BatteryLevel == nil || *status.BatteryLevel != 72 {
		t.Fatalf("unexpected battery level %+v", status.BatteryLevel)
	}
	if status.BatteryTemperature != nil {
		t.Fatalf("absent attribute should stay nil")
	}
}

func TestClientReadEndpointVersions(t *testing.T) {
	cases := []struct {
		endpoint string
		version  string
		read     func(*Client) error
	}{
		{endpoint: "cockpit", version: "v2", read: func(c *Client) error {
			_, err := c.Cockpit(context.Background(), "t", "a", "vin")
			return err
		}},
		{endpoint: "hvac-status", version: "v1", read: func(c *Client) error {
			_, err := c.HvacStatus(context.Background(), "t", "a", "vin")
			return err
		}},
		{endpoint: "charge-mode", version: "v1", read: func(c *Client) error {
			_, err := c.ChargeMode(context.Background(), "t", "a", "vin")
			return err
		}},
		{endpoint: "location", version: "v1", read: func(c *Client) error {
			_, err := c.Location(context.Background(), "t", "a", "vin")
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.endpoint, func(t *testing.T) {
			var receivedPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				receivedPath = r.URL.Path
				_ = json.NewEncoder(w).Encode(map[string]any{
					"data": map[string]any{"attributes": map[string]any{}},
				})
			}))
			defer server.Close()

			if err := tc.read(newTestClient(t, server)); err != nil {
				t.Fatalf("read %s: %v", tc.endpoint, err)
			}
			want := "/commerce/v1/accounts/a/kamereon/kca/car-adapter/" + tc.version + "/cars/vin/" + tc.endpoint
			if receivedPath != want {
				t.Fatalf("expected path %q, got %q", want, receivedPath)
			}
		})
	}
}

func TestClientQuotaExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{
				"errorCode":    "err.func.wired.overloaded",
				"errorMessage": "You have reached your quota limit",
			}},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.BatteryStatus(context.Background(), "token", "account-1", "vin")
	if err == nil {
		t.Fatalf("expected quota error")
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != "err.func.wired.overloaded" {
		t.Fatalf("unexpected code %q", apiErr.Code)
	}
	if apiErr.Message != "You have reached your quota limit" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestClientErrorCodeTable(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{code: "err.func.403", want: ErrAccessDenied},
		{code: "err.func.404", want: ErrNotFound},
		{code: "err.tech.501", want: ErrNotSupported},
		{code: "err.tech.500", want: ErrInvalidUpstream},
		{code: "err.func.400", want: ErrInvalidInput},
		{code: "err.unknown.999", want: ErrResourceFailed},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"errors": []map[string]any{{"errorCode": tc.code, "errorMessage": "detail"}},
				})
			}))
			defer server.Close()

			_, err := newTestClient(t, server).HvacStatus(context.Background(), "token", "a", "vin")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v for code %s, got %v", tc.want, tc.code, err)
			}
		})
	}
}

func TestClientPersonAndVehicles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/commerce/v1/persons/p1":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"country": "FR",
				"accounts": []map[string]any{
					{"accountId": "account-1", "accountType": "MYRENAULT", "accountStatus": "ACTIVE"},
				},
			})
		case "/commerce/v1/accounts/account-1/vehicles":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"accountId": "account-1",
				"country":   "FR",
				"vehicleLinks": []map[string]any{
					{"brand": "RENAULT", "vin": "VF1AAAAA555777999", "status": "ACTIVE"},
				},
			})
		default:
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server)
	person, err := client.Person(context.Background(), "token", "p1")
	if err != nil {
		t.Fatalf("person: %v", err)
	}
	if len(person.Accounts) != 1 || person.Accounts[0].AccountID != "account-1" {
		t.Fatalf("unexpected person payload %+v", person)
	}

	vehicles, err := client.Vehicles(context.Background(), "token", "account-1")
	if err != nil {
		t.Fatalf("vehicles: %v", err)
	}
	if len(vehicles.VehicleLinks) != 1 || vehicles.VehicleLinks[0].VIN != "VF1AAAAA555777999" {
		t.Fatalf("unexpected vehicles payload %+v", vehicles)
	}
}

func TestClientPostAction(t *testing.T) {
	var receivedPath string
	var receivedContentType string
	var receivedBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		receivedContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &receivedBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"type":       "ChargeMode",
				"id":         "guid-1",
				"attributes": map[string]any{"action": "schedule_mode"},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	result, err := client.SetChargeMode(context.Background(), "token", "account-1", "vin", "schedule_mode")
	if err != nil {
		t.Fatalf("set charge mode: %v", err)
	}

	wantPath := "/commerce/v1/accounts/account-1/kamereon/kca/car-adapter/v1/cars/vin/actions/charge-mode"
	if receivedPath != wantPath {
		t.Fatalf("expected path %q, got %q", wantPath, receivedPath)
	}
	if receivedContentType != "application/vnd.api+json" {
		t.Fatalf("unexpected content type %q", receivedContentType)
	}
	data, _ := receivedBody["data"].(map[string]any)
	if data["type"] != "ChargeMode" {
		t.Fatalf("unexpected action type %v", data["type"])
	}
	attributes, _ := data["attributes"].(map[string]any)
	if attributes["action"] != "schedule_mode" {
		t.Fatalf("unexpected action attribute %v", attributes["action"])
	}
	if result.Type != "ChargeMode" || result.ID != "guid-1" {
		t.Fatalf("unexpected action result %+v", result)
	}
}

func TestClientChargeScheduleActionUsesV2(t *testing.T) {
	var receivedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"type": "ChargeSchedule", "id": "guid-2"},
		})
	}))
	defer server.Close()

	day, err := ParseDaySchedule("23:30", 120)
	if err != nil {
		t.Fatalf("parse day schedule: %v", err)
	}
	client := newTestClient(t, server)
	_, err = client.SetChargeSchedules(context.Background(), "token", "account-1", "vin", []ChargeSchedule{
		{ID: 1, Activated: true, Monday: day},
	})
	if err != nil {
		t.Fatalf("set charge schedules: %v", err)
	}
	wantPath := "/commerce/v1/accounts/account-1/kamereon/kca/car-adapter/v2/cars/vin/actions/charge-schedule"
	if receivedPath != wantPath {
		t.Fatalf("expected path %q, got %q", wantPath, receivedPath)
	}
}

func TestClientErrorStatusWithoutEnvelopeIsExternalFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>Bad Gateway</html>"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.BatteryStatus(context.Background(), "token", "account-1", "vin")
	if !core.IsExternalFailure(err) {
		t.Fatalf("expected external-failure error, got %v", err)
	}
	if core.IsMalformedResponse(err) {
		t.Fatalf("error status must not report as malformed response: %v", err)
	}
}

func TestClientErrorStatusWithJSONBodyIsExternalFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "try later"})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.BatteryStatus(context.Background(), "token", "account-1", "vin")
	if !core.IsExternalFailure(err) {
		t.Fatalf("expected external-failure error, got %v", err)
	}
}

func TestClientEnvelopeErrorOnErrorStatusWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{
				"errorCode":    "err.func.403",
				"errorMessage": "access denied",
			}},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.BatteryStatus(context.Background(), "token", "account-1", "vin")
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied from envelope, got %v", err)
	}
	if core.IsExternalFailure(err) {
		t.Fatalf("envelope verdict must win over the status code: %v", err)
	}
}

func TestClientMissingAttributesIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	}))
	defer server.Close()

	_, err := newTestClient(t, server).BatteryStatus(context.Background(), "token", "a", "vin")
	if !core.IsMalformedResponse(err) {
		t.Fatalf("expected malformed-response error, got %v", err)
	}
}

func TestClientRequiresAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("request must not reach the server without a token")
	}))
	defer server.Close()

	_, err := newTestClient(t, server).BatteryStatus(context.Background(), "", "a", "vin")
	if err == nil {
		t.Fatalf("expected missing token error")
	}
}
