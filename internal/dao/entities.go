package dao

import (
	"strconv"
	"time"
)

// Role is a user role on the platform.
type Role string

const (
	RoleSuperAdmin Role = "S"
	RoleAdmin      Role = "A"
	RoleBasic      Role = "B"
	RoleDemo       Role = "D"
)

// User represents a platform user.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"firstName,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role,omitempty"`
}

func (u User) GetID() string { return u.ID }

// UserSession is the outcome of authenticating with the token.
type UserSession struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Role             Role     `json:"role"`
	SitesAdmin       []string `json:"sitesAdmin"`
	SitesOwner       []string `json:"sitesOwner"`
	ActiveComponents []string `json:"activeComponents"`
}

// Named is the lookup shape shared by sites, site areas, charging stations,
// users and tags when they are picked in a dialog.
type Named struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	Description string `json:"description,omitempty"`
}

func (n Named) GetID() string { return n.ID }

// Label returns the text identifying the entity to a human.
func (n Named) Label() string {
	switch {
	case n.Name != "" && n.FirstName != "":
		return n.Name + " " + n.FirstName
	case n.Name != "":
		return n.Name
	case n.Description != "":
		return n.Description
	default:
		return n.ID
	}
}

// Site represents a charging site.
type Site struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SiteArea represents an area of a site.
type SiteArea struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	SiteID       string  `json:"siteID,omitempty"`
	MaximumPower float64 `json:"maximumPower,omitempty"`
}

// AssetType tells whether an asset produces or consumes energy.
type AssetType string

const (
	AssetProduction            AssetType = "PR"
	AssetConsumption           AssetType = "CO"
	AssetConsumptionProduction AssetType = "CO-PR"
)

// Asset represents an energy asset such as a building or solar panels.
type Asset struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	SiteAreaID          string    `json:"siteAreaID,omitempty"`
	SiteArea            *SiteArea `json:"siteArea,omitempty"`
	AssetType           AssetType `json:"assetType"`
	DynamicAsset        bool      `json:"dynamicAsset"`
	CurrentInstantWatts float64   `json:"currentInstantWatts"`
	Coordinates         []float64 `json:"coordinates,omitempty"`
	ConnectionID        string    `json:"connectionID,omitempty"`
	MeterID             string    `json:"meterID,omitempty"`
}

func (a Asset) GetID() string { return a.ID }

// HasCoordinates returns true if the asset can be located on a map.
func (a Asset) HasCoordinates() bool {
	return len(a.Coordinates) == 2 && (a.Coordinates[0] != 0 || a.Coordinates[1] != 0)
}

// CarType is the usage of a car.
type CarType string

const (
	CarPrivate CarType = "P"
	CarCompany CarType = "C"
	CarPoolCar CarType = "PC"
)

// CarCatalog is a car model from the catalog.
type CarCatalog struct {
	ID                  int     `json:"id"`
	VehicleMake         string  `json:"vehicleMake"`
	VehicleModel        string  `json:"vehicleModel"`
	VehicleModelVersion string  `json:"vehicleModelVersion,omitempty"`
	BatteryCapacityFull float64 `json:"batteryCapacityFull,omitempty"`
}

// UserCar links a user to a car.
type UserCar struct {
	User    *User `json:"user,omitempty"`
	Default bool  `json:"default"`
	Owner   bool  `json:"owner"`
}

// Car represents a user's electric vehicle.
type Car struct {
	ID            string      `json:"id,omitempty"`
	VIN           string      `json:"vin"`
	LicensePlate  string      `json:"licensePlate"`
	CarCatalogID  int         `json:"carCatalogID"`
	CarCatalog    *CarCatalog `json:"carCatalog,omitempty"`
	Type          CarType     `json:"type"`
	ConverterType string      `json:"converterType,omitempty"`
	UsersAdded    []UserCar   `json:"usersAdded,omitempty"`
	UsersRemoved  []UserCar   `json:"usersRemoved,omitempty"`
	CarUsers      []UserCar   `json:"carUsers,omitempty"`
	Forced        bool        `json:"forced,omitempty"`
}

func (c Car) GetID() string { return c.ID }

// CarMaker is a car manufacturer of the catalog.
type CarMaker struct {
	CarMaker string `json:"carMaker"`
}

func (c CarMaker) GetID() string { return c.CarMaker }

// ChargingStation represents a charging station.
type ChargingStation struct {
	ID         string    `json:"id"`
	SiteAreaID string    `json:"siteAreaID,omitempty"`
	SiteArea   *SiteArea `json:"siteArea,omitempty"`
	SiteID     string    `json:"siteID,omitempty"`
}

// ChargingSchedulePeriod is a power limit applying from an offset.
type ChargingSchedulePeriod struct {
	StartPeriod int     `json:"startPeriod"`
	Limit       float64 `json:"limit"`
}

// Profile is the OCPP charging profile.
type Profile struct {
	ChargingProfileID      int    `json:"chargingProfileId"`
	StackLevel             int    `json:"stackLevel"`
	ChargingProfilePurpose string `json:"chargingProfilePurpose"`
	ChargingProfileKind    string `json:"chargingProfileKind"`
	ChargingSchedule       struct {
		ChargingRateUnit       string                   `json:"chargingRateUnit"`
		ChargingSchedulePeriod []ChargingSchedulePeriod `json:"chargingSchedulePeriod"`
	} `json:"chargingSchedule"`
}

// ChargingProfile is a charging plan applied to a charging station.
type ChargingProfile struct {
	ID                string           `json:"id"`
	ChargingStationID string           `json:"chargingStationID"`
	ChargingStation   *ChargingStation `json:"chargingStation,omitempty"`
	ConnectorID       int              `json:"connectorID"`
	Profile           Profile          `json:"profile"`
}

func (c ChargingProfile) GetID() string { return c.ID }

// SiteID returns the site of the charging station the plan applies to.
func (c ChargingProfile) SiteID() string {
	if c.ChargingStation == nil {
		return ""
	}
	if c.ChargingStation.SiteID != "" {
		return c.ChargingStation.SiteID
	}
	if c.ChargingStation.SiteArea != nil {
		return c.ChargingStation.SiteArea.SiteID
	}
	return ""
}

// RegistrationToken lets a charging station register itself on the platform.
type RegistrationToken struct {
	ID             string     `json:"id"`
	Description    string     `json:"description"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	RevocationDate *time.Time `json:"revocationDate,omitempty"`
	SiteAreaID     string     `json:"siteAreaID,omitempty"`
	SiteArea       *SiteArea  `json:"siteArea,omitempty"`
	CreatedOn      *time.Time `json:"createdOn,omitempty"`
}

func (r RegistrationToken) GetID() string { return r.ID }

// Transaction represents a charging session.
type Transaction struct {
	ID                         int       `json:"id"`
	TagID                      string    `json:"tagID"`
	Timestamp                  time.Time `json:"timestamp"`
	User                       *User     `json:"user,omitempty"`
	ChargeBoxID                string    `json:"chargeBoxID"`
	ConnectorID                int       `json:"connectorId"`
	SiteID                     string    `json:"siteID,omitempty"`
	CurrentInstantWatts        float64   `json:"currentInstantWatts"`
	CurrentTotalConsumptionWh  float64   `json:"currentTotalConsumptionWh"`
	CurrentStateOfCharge       float64   `json:"currentStateOfCharge"`
	StateOfCharge              float64   `json:"stateOfCharge"`
	CurrentTotalDurationSecs   int       `json:"currentTotalDurationSecs"`
	CurrentTotalInactivitySecs int       `json:"currentTotalInactivitySecs"`
}

func (t Transaction) GetID() string { return strconv.Itoa(t.ID) }
