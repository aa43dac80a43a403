// internal/models/driver.go
package models

import (
	"gorm.io/gorm"
)

// Rating is a running mean over all votes a driver has received. Counts
// only ever grows; the value is recomputed on every vote.
type Rating struct {
	Value  float64 `json:"value"`
	Counts int     `json:"counts"`
}

type Driver struct {
	gorm.Model

	// Driver names are unique within their group.
	Name      string `json:"name" gorm:"size:20;uniqueIndex:idx_drivers_group_name"`
	GroupID   uint   `json:"group_id" gorm:"uniqueIndex:idx_drivers_group_name;index"`
	AccountID uint   `json:"account_id" gorm:"index"`

	Phone   string `json:"phone" gorm:"size:20"`
	Address string `json:"address" gorm:"size:1024"`
	Photo   string `json:"photo"`
	Rating  Rating `json:"rating" gorm:"embedded;embeddedPrefix:rating_"`

	// CarID is nil while the driver has no car assigned.
	CarID *uint `json:"car_id" gorm:"index"`
}
