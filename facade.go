package telematics

import (
	"context"
	"strings"

	"github.com/goliatone/go-telematics/core"
	"github.com/goliatone/go-telematics/kamereon"
)

// Profile navigates the resource API for the logged-in person. Every call
// re-resolves the access token through the session, so expired tokens are
// re-minted transparently. Nothing is cached beyond identifiers.
type Profile struct {
	session  *Session
	resource *kamereon.Client
}

func (p *Profile) Person(ctx context.Context) (kamereon.Person, error) {
	if p == nil {
		return kamereon.Person{}, core.NotLoggedInError("telematics: profile is nil")
	}
	token, err := p.session.AccessToken(ctx)
	if err != nil {
		return kamereon.Person{}, err
	}
	personID, err := p.session.PersonID(ctx)
	if err != nil {
		return kamereon.Person{}, err
	}
	return p.resource.Person(ctx, token, personID)
}

func (p *Profile) Accounts(ctx context.Context) ([]kamereon.AccountLink, error) {
	person, err := p.Person(ctx)
	if err != nil {
		return nil, err
	}
	return person.Accounts, nil
}

func (p *Profile) Account(accountID string) (*Account, error) {
	if p == nil {
		return nil, core.NotLoggedInError("telematics: profile is nil")
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, core.BadInputError("telematics: account id is required")
	}
	return &Account{session: p.session, resource: p.resource, accountID: accountID}, nil
}

// Account scopes resource calls to one commerce account.
type Account struct {
	session   *Session
	resource  *kamereon.Client
	accountID string
}

func (a *Account) ID() string {
	if a == nil {
		return ""
	}
	return a.accountID
}

func (a *Account) Vehicles(ctx context.Context) (kamereon.VehicleList, error) {
	if a == nil {
		return kamereon.VehicleList{}, core.NotLoggedInError("telematics: account is nil")
	}
	token, err := a.session.AccessToken(ctx)
	if err != nil {
		return kamereon.VehicleList{}, err
	}
	return a.resource.Vehicles(ctx, token, a.accountID)
}

func (a *Account) Vehicle(vin string) (*Vehicle, error) {
	if a == nil {
		return nil, core.NotLoggedInError("telematics: account is nil")
	}
	vin = strings.TrimSpace(vin)
	if vin == "" {
		return nil, core.BadInputError("telematics: vin is required")
	}
	return &Vehicle{
		session:   a.session,
		resource:  a.resource,
		accountID: a.accountID,
		vin:       vin,
	}, nil
}

// Vehicle scopes car-adapter reads and actions to one VIN.
type Vehicle struct {
	session   *Session
	resource  *kamereon.Client
	accountID string
	vin       string
}

func (v *Vehicle) VIN() string {
	if v == nil {
		return ""
	}
	return v.vin
}

func (v *Vehicle) token(ctx context.Context) (string, error) {
	if v == nil {
		return "", core.NotLoggedInError("telematics: vehicle is nil")
	}
	return v.session.AccessToken(ctx)
}

func (v *Vehicle) BatteryStatus(ctx context.Context) (kamereon.BatteryStatus, error) {
	token, err := v.token(ctx)
	if err != nil {
		return kamereon.BatteryStatus{}, err
	}
	return v.resource.BatteryStatus(ctx, token, v.accountID, v.vin)
}

func (v *Vehicle) Cockpit(ctx context.Context) (kamereon.Cockpit, error) {
	token, err := v.token(ctx)
	if err != nil {
		return kamereon.Cockpit{}, err
	}
	return v.resource.Cockpit(ctx, token, v.accountID, v.vin)
}

func (v *Vehicle) HvacStatus(ctx context.Context) (kamereon.HvacStatus, error) {
	token, err := v.token(ctx)
	if err != nil {
		return kamereon.HvacStatus{}, err
	}
	return v.resource.HvacStatus(ctx, token, v.accountID, v.vin)
}

func (v *Vehicle) ChargeMode(ctx context.Context) (kamereon.ChargeMode, error) {
	token, err := v.token(ctx)
	if err != nil {
		return kamereon.ChargeMode{}, err
	}
	return v.resource.ChargeMode(ctx, token, v.accountID, v.vin)
}

func (v *Vehicle) Location(ctx context.Context) (kamereon.Location, error) {
	token, err := v.token(ctx)
	if err != nil {
		return kamereon.Location{}, err
	}
	return v.resource.Location(ctx, token, v.accountID, v.vin)
}

func (v *Vehicle) LockStatus(ctx context.Context) (kamereon.LockStatus, error) {
	token, err := v.token(ctx)
	if err != nil {
		return kamereon.LockStatus{}, err
	}
	return v.resource.LockStatus(ctx, token, v.accountID, v.vin)
}

func (v *Vehicle) ChargingSettings(ctx context.Context) (kamereon.ChargingSettings, error) {
	token, err := v.token(ctx)
	if err != nil {
		return kamereon.ChargingSettings{}, err
	}
	return v.resource.ChargingSettings(ctx, token, v.accountID, v.vin)
}

func (v *Vehicle) SetChargeMode(ctx context.Context, mode string) (kamereon.ActionResult, error) {
	token, err := v.token(ctx)
	if err != nil {
		return kamereon.ActionResult{}, err
	}
	return v.resource.SetChargeMode(ctx, token, v.accountID, v.vin, mode)
}

func (v *Vehicle) StartCharging(ctx context.Context) (kamereon.ActionResult, error) {
	token, err := v.token(ctx)
	if err != nil {
		return kamereon.ActionResult{}, err
	}
	return v.resource.StartCharging(ctx, token, v.accountID, v.vin)
}

func (v *Vehicle) StartHvac(ctx context.Context, targetTemperature float64, startTime string) (kamereon.ActionResult, error) {
	token, err := v.token(ctx)
	if err != nil {
		return kamereon.ActionResult{}, err
	}
	return v.resource.StartHvac(ctx, token, v.accountID, v.vin, targetTemperature, startTime)
}

func (v *Vehicle) StopHvac(ctx context.Context) (kamereon.ActionResult, error) {
	token, err := v.token(ctx)
	if err != nil {
		return kamereon.ActionResult{}, err
	}
	return v.resource.StopHvac(ctx, token, v.accountID, v.vin)
}

func (v *Vehicle) SetChargeSchedules(ctx context.Context, schedules []kamereon.ChargeSchedule) (kamereon.ActionResult, error) {
	token, err := v.token(ctx)
	if err != nil {
		return kamereon.ActionResult{}, err
	}
	return v.resource.SetChargeSchedules(ctx, token, v.accountID, v.vin, schedules)
}
