// internal/models/car.go
package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// CarInfo holds the identity and tenancy of a tracked vehicle. GroupID and
// AccountID are the car's tenancy coordinate, fixed at creation.
type CarInfo struct {
	Name                string     `json:"name"`
	PlateNumber         string     `json:"plate_number" gorm:"size:20"`
	FuelConsumptionRate float64    `json:"fuel_consumption_rate"`
	// One physical GPS device per car, enforced globally.
	GPSDevice      string         `json:"gps_device" gorm:"size:20;uniqueIndex"`
	ActivationDate time.Time      `json:"activation_date"`
	ExpirationDate *time.Time     `json:"expiration_date"`
	SimNumber      string         `json:"sim_number" gorm:"size:20"`
	VIN            string         `json:"vin" gorm:"size:20"`
	EngineNumber   string         `json:"engine_number" gorm:"size:20"`
	Color          string         `json:"color" gorm:"size:20"`
	TankSize       float64        `json:"tank_size"`
	PathID         *uint          `json:"path_id"`
	DriverID       *uint          `json:"driver_id"`
	GroupID        uint           `json:"group_id" gorm:"index"`
	AccountID      uint           `json:"account_id" gorm:"index"`
	Tokens         pq.StringArray `json:"tokens" gorm:"type:text[]"`
	Photo          string         `json:"photo"`
}

type Installation struct {
	InstalledBy string         `json:"installed_by" gorm:"size:20"`
	Time        time.Time      `json:"time"`
	Company     string         `json:"company" gorm:"size:20"`
	Location    string         `json:"location" gorm:"size:1024"`
	Photos      pq.StringArray `json:"photos" gorm:"type:text[]"`
}

type GeoFence struct {
	Alert       bool     `json:"alert"`
	TopLeft     GeoPoint `json:"top_left" gorm:"embedded;embeddedPrefix:top_left_"`
	BottomRight GeoPoint `json:"bottom_right" gorm:"embedded;embeddedPrefix:bottom_right_"`
}

type AlertSettings struct {
	EngineOn   bool     `json:"engine_on" gorm:"default:true"`
	EngineOff  bool     `json:"engine_off" gorm:"default:true"`
	DoorOpen   bool     `json:"door_open" gorm:"default:true"`
	DoorClosed bool     `json:"door_closed" gorm:"default:true"`
	FuelLeak   bool     `json:"fuel_leak" gorm:"default:true"`
	Refuel     bool     `json:"refuel" gorm:"default:true"`
	SpeedAlert bool     `json:"speed_alert" gorm:"default:true"`
	SpeedLimit float64  `json:"speed_limit" gorm:"default:100"`
	GeoFence   GeoFence `json:"geo_fence" gorm:"embedded;embeddedPrefix:geo_fence_"`
}

// Dashboard is the last reported state of the vehicle. The ingestion
// pipeline that fills it lives outside this service; the fields are only
// modeled and served here.
type Dashboard struct {
	Speed     float64    `json:"speed"`
	Odometer  float64    `json:"odometer"`
	FuelLevel float64    `json:"fuel_level"`
	Location  GeoPoint   `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	LastSeen  *time.Time `json:"last_seen"`
}

type ServicePoint struct {
	Time     *time.Time `json:"time"`
	Odometer float64    `json:"odometer"`
}

type Maintenance struct {
	Last ServicePoint `json:"last" gorm:"embedded;embeddedPrefix:last_"`
	Next ServicePoint `json:"next" gorm:"embedded;embeddedPrefix:next_"`
}

type Car struct {
	gorm.Model

	Info          CarInfo       `json:"info" gorm:"embedded;embeddedPrefix:info_"`
	Installation  Installation  `json:"installation" gorm:"embedded;embeddedPrefix:installation_"`
	AlertSettings AlertSettings `json:"alert_settings" gorm:"embedded;embeddedPrefix:alert_"`
	Dashboard     Dashboard     `json:"dashboard" gorm:"embedded;embeddedPrefix:dashboard_"`
	Maintenance   Maintenance   `json:"maintenance" gorm:"embedded;embeddedPrefix:maintenance_"`
}
