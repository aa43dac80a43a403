package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fleet_tracker/internal/authz"
	"fleet_tracker/internal/config"
	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/models"
)

type createDriverInput struct {
	Name      string `json:"name" binding:"required,min=3,max=20"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Photo     string `json:"photo"`
	GroupID   uint   `json:"groupId" binding:"required"`
	AccountID uint   `json:"accountId" binding:"required"`
}

// CreateDriver registers a driver under a group. The group must exist and
// must belong to the account named in the payload before the caller is
// authorized against that coordinate.
func CreateDriver(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	var input createDriverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	var group models.Group
	if err := config.DB.First(&group, input.GroupID).Error; err != nil {
		respondNotFound(c, "Group")
		return
	}
	if group.AccountID != input.AccountID {
		respondInvalid(c, "Group does not belong to this account")
		return
	}

	if !authz.CanAccessResource(principal, authz.Coordinate{AccountID: input.AccountID, GroupID: input.GroupID}) {
		respondForbidden(c)
		return
	}

	var existing models.Driver
	if err := config.DB.Where("group_id = ? AND name = ?", input.GroupID, input.Name).
		First(&existing).Error; err == nil {
		respondConflict(c, "Driver name already exists in this group")
		return
	}

	driver := models.Driver{
		Name:      input.Name,
		Phone:     input.Phone,
		Address:   input.Address,
		Photo:     input.Photo,
		GroupID:   input.GroupID,
		AccountID: input.AccountID,
	}
	if err := config.DB.Create(&driver).Error; err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, "Driver name already exists in this group")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create driver: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"driver": driver})
}

// loadDriverGuarded fetches a driver by id and authorizes the caller
// against its tenancy coordinate.
func loadDriverGuarded(c *gin.Context, id uint) (*models.Driver, bool) {
	var driver models.Driver
	if err := config.DB.First(&driver, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "Driver")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return nil, false
	}

	principal := middleware.CurrentPrincipal(c)
	if !authz.CanAccessResource(principal, authz.Coordinate{AccountID: driver.AccountID, GroupID: driver.GroupID}) {
		respondForbidden(c)
		return nil, false
	}
	return &driver, true
}

// GetDriver retrieves a driver by ID.
func GetDriver(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	driver, ok := loadDriverGuarded(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// scopeDrivers narrows a driver query to the caller's tenancy. Rows
// outside the caller's scope simply never appear in results.
func scopeDrivers(q *gorm.DB, p authz.Principal) *gorm.DB {
	switch p.Role {
	case authz.RoleRoot:
		return q
	case authz.RoleAccountManager:
		return q.Where("account_id = ?", p.AccountID)
	default:
		return q.Where("group_id = ?", p.GroupID)
	}
}

// SearchDrivers finds drivers whose name or phone starts with the given
// prefix, within the caller's scope.
func SearchDrivers(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	pattern := prefixPattern(c.Param("key"))

	q := scopeDrivers(config.DB.Model(&models.Driver{}), principal).
		Where("name ILIKE ? OR phone ILIKE ?", pattern, pattern)

	var drivers []models.Driver
	if err := q.Find(&drivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch drivers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": drivers})
}

// ListDriversByGroup lists the drivers of one group, within the caller's
// scope.
func ListDriversByGroup(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	var drivers []models.Driver
	q := scopeDrivers(config.DB.Where("group_id = ?", groupID), principal)
	if err := q.Find(&drivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch drivers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": drivers})
}

// ListDriversByCar lists the drivers assigned to a car.
func ListDriversByCar(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	carID, ok := parseIDParam(c, "car_id")
	if !ok {
		return
	}

	var drivers []models.Driver
	q := scopeDrivers(config.DB.Where("car_id = ?", carID), principal)
	if err := q.Find(&drivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch drivers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": drivers})
}

// ListDriversWithoutCar lists drivers not assigned to any car, within the
// caller's scope.
func ListDriversWithoutCar(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	var drivers []models.Driver
	q := scopeDrivers(config.DB.Where("car_id IS NULL"), principal)
	if err := q.Find(&drivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch drivers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": drivers})
}

type updateDriverInput struct {
	Name    *string `json:"name" binding:"omitempty,min=3,max=20"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Photo   *string `json:"photo"`
	CarID   *uint   `json:"carId"`
}

// UpdateDriver edits a driver's profile and car assignment. The tenancy
// coordinates are not part of the input and cannot change.
func UpdateDriver(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	driver, ok := loadDriverGuarded(c, id)
	if !ok {
		return
	}

	var input updateDriverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	if input.Name != nil && *input.Name != driver.Name {
		var existing models.Driver
		if err := config.DB.Where("group_id = ? AND name = ? AND id <> ?",
			driver.GroupID, *input.Name, driver.ID).First(&existing).Error; err == nil {
			respondConflict(c, "Driver name already exists in this group")
			return
		}
		driver.Name = *input.Name
	}
	if input.Phone != nil {
		driver.Phone = *input.Phone
	}
	if input.Address != nil {
		driver.Address = *input.Address
	}
	if input.Photo != nil {
		driver.Photo = *input.Photo
	}
	if input.CarID != nil {
		if *input.CarID == 0 {
			driver.CarID = nil
		} else {
			coord, err := authz.ResolveCoordinate(config.DB, authz.KindCar, *input.CarID)
			if err != nil {
				respondNotFound(c, "Car")
				return
			}
			if coord.GroupID != driver.GroupID {
				respondInvalid(c, "Car does not belong to the driver's group")
				return
			}
			driver.CarID = input.CarID
		}
	}

	if err := config.DB.Save(driver).Error; err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, "Driver name already exists in this group")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update driver: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// nextRating folds a new rating into the running mean.
func nextRating(r models.Rating, value float64) models.Rating {
	counts := r.Counts + 1
	return models.Rating{
		Value:  (r.Value*float64(r.Counts) + value) / float64(counts),
		Counts: counts,
	}
}

// RateDriver records a rating in [0, 5] and updates the driver's running
// average. Any authenticated user may rate; the value is validated before
// the driver is looked up.
func RateDriver(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	value, err := strconv.ParseFloat(c.Param("value"), 64)
	if err != nil || value < 0 || value > 5 {
		respondInvalid(c, "Rating must be a number between 0 and 5")
		return
	}

	var driver models.Driver
	if err := config.DB.First(&driver, id).Error; err != nil {
		respondNotFound(c, "Driver")
		return
	}

	driver.Rating = nextRating(driver.Rating, value)
	if err := config.DB.Save(&driver).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update driver: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// DeleteDriver removes a driver. Cars referencing the driver keep their
// stale driver id.
func DeleteDriver(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	driver, ok := loadDriverGuarded(c, id)
	if !ok {
		return
	}

	if err := config.DB.Delete(driver).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete driver"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}
