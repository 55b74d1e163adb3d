package kamereon

// Typed attribute payloads for the car-adapter read endpoints. Each endpoint
// returns a versioned, partially optional attribute set; unknown fields are
// tolerated by decoding, optional fields stay pointers so absence survives
// the round trip.

type Person struct {
	Country  string        `json:"country"`
	Accounts []AccountLink `json:"accounts"`
}

type AccountLink struct {
	AccountID     string `json:"accountId"`
	AccountType   string `json:"accountType"`
	AccountStatus string `json:"accountStatus"`
}

type VehicleList struct {
	AccountID    string        `json:"accountId"`
	Country      string        `json:"country"`
	VehicleLinks []VehicleLink `json:"vehicleLinks"`
}

type VehicleLink struct {
	Brand          string          `json:"brand"`
	VIN            string          `json:"vin"`
	Status         string          `json:"status"`
	VehicleDetails *VehicleDetails `json:"vehicleDetails"`
}

type VehicleDetails struct {
	VIN                string `json:"vin"`
	RegistrationNumber string `json:"registrationNumber"`
	Model              struct {
		Label string `json:"label"`
	} `json:"model"`
	Engine struct {
		Type string `json:"type"`
	} `json:"engineType"`
}

type BatteryStatus struct {
	Timestamp                  string   `json:"timestamp"`
	BatteryLevel               *int     `json:"batteryLevel"`
	BatteryAutonomy            *float64 `json:"batteryAutonomy"`
	BatteryCapacity            *float64 `json:"batteryCapacity"`
	BatteryAvailableEnergy     *float64 `json:"batteryAvailableEnergy"`
	BatteryTemperature         *int     `json:"batteryTemperature"`
	PlugStatus                 *int     `json:"plugStatus"`
	ChargingStatus             *float64 `json:"chargingStatus"`
	ChargingRemainingTime      *int     `json:"chargingRemainingTime"`
	ChargingInstantaneousPower *float64 `json:"chargingInstantaneousPower"`
}

type Cockpit struct {
	FuelAutonomy *float64 `json:"fuelAutonomy"`
	FuelQuantity *float64 `json:"fuelQuantity"`
	TotalMileage *float64 `json:"totalMileage"`
}

type HvacStatus struct {
	ExternalTemperature *float64 `json:"externalTemperature"`
	HvacStatus          string   `json:"hvacStatus"`
	NextHvacStartDate   string   `json:"nextHvacStartDate"`
}

type ChargeMode struct {
	ChargeMode string `json:"chargeMode"`
}

type Location struct {
	Latitude       *float64 `json:"gpsLatitude"`
	Longitude      *float64 `json:"gpsLongitude"`
	LastUpdateTime string   `json:"lastUpdateTime"`
}

type LockStatus struct {
	LockStatus          string `json:"lockStatus"`
	DoorStatusRearLeft  string `json:"doorStatusRearLeft"`
	DoorStatusRearRight string `json:"doorStatusRearRight"`
	DoorStatusDriver    string `json:"doorStatusDriver"`
	DoorStatusPassenger string `json:"doorStatusPassenger"`
	LastUpdateTime      string `json:"lastUpdateTime"`
}

type ChargingSettings struct {
	Mode      string           `json:"mode"`
	Schedules []ChargeSchedule `json:"schedules"`
}

// ActionResult echoes the accepted action back from the resource API.
type ActionResult struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Attributes map[string]any `json:"attributes"`
}
