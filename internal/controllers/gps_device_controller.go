package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet_tracker/internal/authz"
	"fleet_tracker/internal/config"
	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/models"
)

// GPS devices are global hardware inventory, not tenant resources, so
// writes are root-only and reads need only authentication.

type createGPSDeviceInput struct {
	Model string `json:"model" binding:"required"`
	IMEI  string `json:"imei" binding:"required,min=10,max=20"`
}

// CreateGPSDevice registers a device in the inventory. Root only.
func CreateGPSDevice(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if principal.Role != authz.RoleRoot {
		respondForbidden(c)
		return
	}

	var input createGPSDeviceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	var existing models.GPSDevice
	if err := config.DB.Where("imei = ?", input.IMEI).First(&existing).Error; err == nil {
		respondConflict(c, "IMEI already registered")
		return
	}

	device := models.GPSDevice{DeviceModel: input.Model, IMEI: input.IMEI}
	if err := config.DB.Create(&device).Error; err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, "IMEI already registered")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create GPS device: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"gps_device": device})
}

// GetGPSDevice retrieves a device by ID.
func GetGPSDevice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var device models.GPSDevice
	if err := config.DB.First(&device, id).Error; err != nil {
		respondNotFound(c, "GPS device")
		return
	}
	c.JSON(http.StatusOK, gin.H{"gps_device": device})
}

// ListGPSDevicesByModel lists devices of one hardware model.
func ListGPSDevicesByModel(c *gin.Context) {
	var devices []models.GPSDevice
	if err := config.DB.Where("model = ?", c.Param("model")).Find(&devices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch GPS devices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": devices})
}

// FindGPSDevicesByIMEI finds devices whose IMEI starts with the given
// prefix.
func FindGPSDevicesByIMEI(c *gin.Context) {
	var devices []models.GPSDevice
	if err := config.DB.Where("imei ILIKE ?", prefixPattern(c.Param("imei"))).Find(&devices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch GPS devices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": devices})
}

// DeleteGPSDevice removes a device from the inventory. Root only.
func DeleteGPSDevice(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if principal.Role != authz.RoleRoot {
		respondForbidden(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var device models.GPSDevice
	if err := config.DB.First(&device, id).Error; err != nil {
		respondNotFound(c, "GPS device")
		return
	}
	if err := config.DB.Delete(&device).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete GPS device"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gps_device": device})
}
