// internal/models/gps_device.go
package models

import "gorm.io/gorm"

// GPSDevice is the inventory record of a physical tracker unit. Assignment
// to a car happens through Car.Info.GPSDevice (the IMEI), not a foreign key.
type GPSDevice struct {
	gorm.Model

	DeviceModel string `json:"model" gorm:"column:model;size:20" binding:"required,min=3,max=20"`
	IMEI        string `json:"imei" gorm:"size:20;uniqueIndex" binding:"required,max=20"`
}
