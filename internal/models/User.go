// internal/models/user.go
package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Name     string `json:"name" gorm:"size:50"`
	Email    string `json:"email" gorm:"size:50;uniqueIndex"`
	Password string `json:"-" gorm:"size:1024"`
	Phone    string `json:"phone" gorm:"size:20"`

	// "root", "account" (account manager) or "group" (group admin).
	Role string `json:"role" gorm:"size:20"`

	// AccountID is required for every non-root user; GroupID additionally
	// for group admins. Nil means out of scope for the role.
	AccountID *uint    `json:"account_id"`
	GroupID   *uint    `json:"group_id"`
	Account   *Account `json:"account,omitempty" gorm:"foreignKey:AccountID"`
	Group     *Group   `json:"group,omitempty" gorm:"foreignKey:GroupID"`

	Photo string `json:"photo"`
}
