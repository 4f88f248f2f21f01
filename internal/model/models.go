package model

import "time"

// VehicleStatus is the availability state of a vehicle.
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "AVAILABLE"
	VehicleInUse       VehicleStatus = "IN_USE"
	VehicleMaintenance VehicleStatus = "MAINTENANCE"
)

// FuelType is the fuel a vehicle runs on.
type FuelType string

const (
	FuelDiesel   FuelType = "Diesel"
	FuelGasolina FuelType = "Gasolina"
	FuelFlex     FuelType = "Flex"
	FuelEletrico FuelType = "Elétrico"
	FuelGNV      FuelType = "GNV"
)

// FuelTypes lists every accepted fuel type in display order.
var FuelTypes = []FuelType{FuelDiesel, FuelGasolina, FuelFlex, FuelEletrico, FuelGNV}

// Severity grades an occurrence.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationOccurrence NotificationType = "occurrence"
	NotificationInfo       NotificationType = "info"
	NotificationSystem     NotificationType = "system"
)

// Vehicle is a fleet asset. LastChecklist is a denormalised copy of the checklist
// taken at the most recent trip start and may drift from the checklist collection.
type Vehicle struct {
	ID            string        `json:"id"`
	Plate         string        `json:"plate"` // upper case, unique
	Model         string        `json:"model"`
	Brand         string        `json:"brand"`
	Year          int           `json:"year"`
	CurrentKm     int           `json:"currentKm"`
	FuelLevel     int           `json:"fuelLevel"` // percent
	FuelType      FuelType      `json:"fuelType"`
	Status        VehicleStatus `json:"status"`
	LastChecklist *Checklist    `json:"lastChecklist,omitempty"`
}

// Driver is a roster entry and also a login account.
type Driver struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	License         string `json:"license"`
	Username        string `json:"username"` // lower case, no whitespace, unique
	Password        string `json:"password,omitempty"`
	PasswordChanged bool   `json:"passwordChanged"`
	Avatar          string `json:"avatar,omitempty"` // data URL
	ActiveVehicleID string `json:"activeVehicleId,omitempty"`
}

// Checklist is the pre-trip inspection. Its ID equals the ID of the trip it belongs to.
type Checklist struct {
	ID           string    `json:"id"`
	VehicleID    string    `json:"vehicleId"`
	DriverID     string    `json:"driverId"`
	Timestamp    time.Time `json:"timestamp"`
	Km           int       `json:"km"`
	FuelLevel    int       `json:"fuelLevel"`
	OilChecked   bool      `json:"oilChecked"`
	WaterChecked bool      `json:"waterChecked"`
	TiresChecked bool      `json:"tiresChecked"`
	Comments     string    `json:"comments"`
}

// Trip is either active (EndTime nil) or completed.
type Trip struct {
	ID             string     `json:"id"`
	DriverID       string     `json:"driverId"`
	VehicleID      string     `json:"vehicleId"`
	Origin         string     `json:"origin"`
	Destination    string     `json:"destination"`
	Waypoints      []string   `json:"waypoints,omitempty"`
	City           string     `json:"city,omitempty"`
	State          string     `json:"state,omitempty"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	StartKm        int        `json:"startKm"`
	Distance       int        `json:"distance,omitempty"`
	FuelExpense    float64    `json:"fuelExpense,omitempty"`
	OtherExpense   float64    `json:"otherExpense,omitempty"`
	ExpenseNotes   string     `json:"expenseNotes,omitempty"`
	PlannedArrival *time.Time `json:"plannedArrival,omitempty"`
}

// Active reports whether the trip has not been ended.
func (t Trip) Active() bool {
	return t.EndTime == nil
}

// Expenses are merged into a trip when it ends.
type Expenses struct {
	FuelExpense  float64
	OtherExpense float64
	Notes        string
}

// ScheduledTrip is a future trip intent. It does not reserve the vehicle.
type ScheduledTrip struct {
	ID             string     `json:"id"`
	DriverID       string     `json:"driverId"`
	VehicleID      string     `json:"vehicleId"`
	Origin         string     `json:"origin"`
	Destination    string     `json:"destination"`
	Waypoints      []string   `json:"waypoints,omitempty"`
	City           string     `json:"city,omitempty"`
	State          string     `json:"state,omitempty"`
	ZipCode        string     `json:"zipCode,omitempty"`
	ScheduledDate  time.Time  `json:"scheduledDate"`
	Notes          string     `json:"notes,omitempty"`
	PlannedArrival *time.Time `json:"plannedArrival,omitempty"`
}

// MaintenanceRecord is open while ReturnDate is nil.
type MaintenanceRecord struct {
	ID          string     `json:"id"`
	VehicleID   string     `json:"vehicleId"`
	Date        time.Time  `json:"date"`
	ReturnDate  *time.Time `json:"returnDate,omitempty"`
	ServiceType string     `json:"serviceType"`
	Cost        float64    `json:"cost"`
	Km          int        `json:"km"`
	Notes       string     `json:"notes"`
}

// Open reports whether the vehicle is still out of service for this record.
func (m MaintenanceRecord) Open() bool {
	return m.ReturnDate == nil
}

// TireChangeService is the service type used by the tire change preset.
const TireChangeService = "Troca de Pneus"

// Fine is a traffic fine. Immutable once created.
type Fine struct {
	ID          string    `json:"id"`
	DriverID    string    `json:"driverId"`
	VehicleID   string    `json:"vehicleId"`
	Date        time.Time `json:"date"`
	Value       float64   `json:"value"`
	Points      int       `json:"points"`
	Description string    `json:"description"`
}

// Occurrence is an incident reported during a trip.
type Occurrence struct {
	ID          string    `json:"id"`
	TripID      string    `json:"tripId"`
	VehicleID   string    `json:"vehicleId"`
	DriverID    string    `json:"driverId"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Timestamp   time.Time `json:"timestamp"`
	Resolved    bool      `json:"resolved"`
}

// Notification is append-only except for IsRead, which only goes false -> true.
type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"isRead"`
	Timestamp time.Time        `json:"timestamp"`
}

// Operation is one recorded console command that mutated the store.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     string
}
