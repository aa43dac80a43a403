// internal/models/account.go
package models

import (
	"gorm.io/gorm"
)

// Account is the root of a tenancy subtree. Groups, drivers, cars and
// non-root users all hang off exactly one account.
type Account struct {
	gorm.Model

	// Account names are unique across the whole system.
	Name     string   `json:"name" gorm:"size:20;uniqueIndex" binding:"required,min=3,max=20"`
	Location GeoPoint `json:"location" gorm:"embedded;embeddedPrefix:location_"`

	Groups []Group `json:"groups,omitempty" gorm:"foreignKey:AccountID"`
}

// GeoPoint is a plain latitude/longitude pair shared by accounts, groups
// and car dashboards.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
