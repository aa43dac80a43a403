// internal/models/group.go
package models

import (
	"gorm.io/gorm"
)

// Group is a branch office or sub-fleet under an account. Its AccountID is
// set at creation and never changes; drivers, cars and paths reference the
// group through their own tenancy columns.
type Group struct {
	gorm.Model

	// Group names are unique within their account, not globally.
	Name      string   `json:"name" gorm:"size:20;uniqueIndex:idx_groups_account_name" binding:"required,min=3,max=20"`
	AccountID uint     `json:"account_id" gorm:"uniqueIndex:idx_groups_account_name;index"`
	Account   *Account `json:"account,omitempty" gorm:"foreignKey:AccountID"`
	Address   GeoPoint `json:"address" gorm:"embedded;embeddedPrefix:address_"`

	Paths []Path `json:"paths,omitempty" gorm:"foreignKey:GroupID"`
}
