package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fleet_tracker/internal/authz"
	"fleet_tracker/internal/config"
	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/models"
)

// carInput is the write shape for cars. Dashboard is absent on purpose:
// last-reported state belongs to the ingestion side, not the API.
type carInput struct {
	Info          models.CarInfo       `json:"info"`
	Installation  models.Installation  `json:"installation"`
	AlertSettings models.AlertSettings `json:"alert_settings"`
	Maintenance   models.Maintenance   `json:"maintenance"`
}

// validateCarPayload checks the fields binding tags cannot reach inside
// the embedded sections.
func validateCarPayload(info *models.CarInfo) error {
	if len(info.Name) < 3 || len(info.Name) > 20 {
		return errors.New("Car name must be between 3 and 20 characters")
	}
	if info.GPSDevice == "" {
		return errors.New("GPS device IMEI is required")
	}
	if info.TankSize <= 0 {
		return errors.New("Tank size is required")
	}
	if info.GroupID == 0 || info.AccountID == 0 {
		return errors.New("Group and account are required")
	}
	return nil
}

// CreateCar registers a vehicle. Root only. The GPS device must not be
// installed in another car.
func CreateCar(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if principal.Role != authz.RoleRoot {
		respondForbidden(c)
		return
	}

	var input carInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, err.Error())
		return
	}
	if err := validateCarPayload(&input.Info); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	var group models.Group
	if err := config.DB.First(&group, input.Info.GroupID).Error; err != nil {
		respondNotFound(c, "Group")
		return
	}
	if group.AccountID != input.Info.AccountID {
		respondInvalid(c, "Group does not belong to this account")
		return
	}

	if ok := checkCarPathAssignment(c, &input.Info); !ok {
		return
	}

	var existing models.Car
	if err := config.DB.Where("info_gps_device = ?", input.Info.GPSDevice).
		First(&existing).Error; err == nil {
		respondConflict(c, "GPS device is already installed in another car")
		return
	}

	if input.Info.ActivationDate.IsZero() {
		input.Info.ActivationDate = time.Now().UTC()
	}

	car := models.Car{
		Info:          input.Info,
		Installation:  input.Installation,
		AlertSettings: input.AlertSettings,
		Maintenance:   input.Maintenance,
	}
	if err := config.DB.Create(&car).Error; err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, "GPS device is already installed in another car")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create car: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"car": car})
}

// checkCarPathAssignment verifies that an assigned path belongs to the
// car's own group. Paths resolve through their owning group, so the
// coordinate resolver does the double hop.
func checkCarPathAssignment(c *gin.Context, info *models.CarInfo) bool {
	if info.PathID == nil {
		return true
	}
	coord, err := authz.ResolveCoordinate(config.DB, authz.KindPath, *info.PathID)
	if err != nil {
		respondNotFound(c, "Path")
		return false
	}
	if coord.GroupID != info.GroupID {
		respondInvalid(c, "Path does not belong to the car's group")
		return false
	}
	return true
}

func loadCarGuarded(c *gin.Context, id uint) (*models.Car, bool) {
	var car models.Car
	if err := config.DB.First(&car, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "Car")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return nil, false
	}

	principal := middleware.CurrentPrincipal(c)
	if !authz.CanAccessResource(principal, authz.Coordinate{AccountID: car.Info.AccountID, GroupID: car.Info.GroupID}) {
		respondForbidden(c)
		return nil, false
	}
	return &car, true
}

// GetCar retrieves a car by ID.
func GetCar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	car, ok := loadCarGuarded(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"car": car})
}

// UpdateCar replaces the car's editable sections. The tenancy coordinate
// in the payload must equal the stored one; cars do not move between
// groups or accounts.
func UpdateCar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	car, ok := loadCarGuarded(c, id)
	if !ok {
		return
	}

	var input carInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, err.Error())
		return
	}
	if err := validateCarPayload(&input.Info); err != nil {
		respondInvalid(c, err.Error())
		return
	}
	if input.Info.GroupID != car.Info.GroupID || input.Info.AccountID != car.Info.AccountID {
		respondInvalid(c, "Car cannot change group or account")
		return
	}
	if ok := checkCarPathAssignment(c, &input.Info); !ok {
		return
	}

	if input.Info.GPSDevice != car.Info.GPSDevice {
		var existing models.Car
		if err := config.DB.Where("info_gps_device = ? AND id <> ?",
			input.Info.GPSDevice, car.ID).First(&existing).Error; err == nil {
			respondConflict(c, "GPS device is already installed in another car")
			return
		}
	}

	car.Info = input.Info
	car.Installation = input.Installation
	car.AlertSettings = input.AlertSettings
	car.Maintenance = input.Maintenance
	if err := config.DB.Save(car).Error; err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, "GPS device is already installed in another car")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update car: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"car": car})
}

type maintenanceInput struct {
	Months   int     `json:"months" binding:"min=0"`
	Distance float64 `json:"distance" binding:"min=0"`
}

// UpdateMaintenance records a completed service and schedules the next
// one: last service is stamped with now and the current odometer, the
// next with now plus the given months and odometer plus the given
// distance.
func UpdateMaintenance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	car, ok := loadCarGuarded(c, id)
	if !ok {
		return
	}

	var input maintenanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	now := time.Now().UTC()
	next := now.AddDate(0, input.Months, 0)
	car.Maintenance = models.Maintenance{
		Last: models.ServicePoint{Time: &now, Odometer: car.Dashboard.Odometer},
		Next: models.ServicePoint{Time: &next, Odometer: car.Dashboard.Odometer + input.Distance},
	}

	if err := config.DB.Save(car).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update car: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"car": car})
}

// RenewSubscription extends the car's tracking subscription by one year.
// Root only. A lapsed subscription restarts from now rather than from the
// old expiration date.
func RenewSubscription(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if principal.Role != authz.RoleRoot {
		respondForbidden(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var car models.Car
	if err := config.DB.First(&car, id).Error; err != nil {
		respondNotFound(c, "Car")
		return
	}

	base := time.Now().UTC()
	if car.Info.ExpirationDate != nil && car.Info.ExpirationDate.After(base) {
		base = *car.Info.ExpirationDate
	}
	renewed := base.AddDate(1, 0, 0)
	car.Info.ExpirationDate = &renewed

	if err := config.DB.Save(&car).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update car: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"car": car})
}

// DeleteCar removes a car. Root only. Drivers referencing the car keep
// their stale car id.
func DeleteCar(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if principal.Role != authz.RoleRoot {
		respondForbidden(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var car models.Car
	if err := config.DB.First(&car, id).Error; err != nil {
		respondNotFound(c, "Car")
		return
	}
	if err := config.DB.Delete(&car).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete car"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"car": car})
}

// scopeCars narrows a car query to the caller's tenancy using the
// embedded-column names.
func scopeCars(q *gorm.DB, p authz.Principal) *gorm.DB {
	switch p.Role {
	case authz.RoleRoot:
		return q
	case authz.RoleAccountManager:
		return q.Where("info_account_id = ?", p.AccountID)
	default:
		return q.Where("info_group_id = ?", p.GroupID)
	}
}

func listCars(c *gin.Context, q *gorm.DB) {
	var cars []models.Car
	if err := q.Find(&cars).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch cars"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cars})
}

// ListCarsByGroup lists the cars of one group, within the caller's scope.
func ListCarsByGroup(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}
	listCars(c, scopeCars(config.DB.Where("info_group_id = ?", groupID), principal))
}

// ListCarsByAccount lists the cars of one account, within the caller's
// scope.
func ListCarsByAccount(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	accountID, ok := parseIDParam(c, "account_id")
	if !ok {
		return
	}
	listCars(c, scopeCars(config.DB.Where("info_account_id = ?", accountID), principal))
}

// ListCarsByPath lists the cars assigned to a path, within the caller's
// scope.
func ListCarsByPath(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	pathID, ok := parseIDParam(c, "path_id")
	if !ok {
		return
	}
	listCars(c, scopeCars(config.DB.Where("info_path_id = ?", pathID), principal))
}

// ListCarsWithoutDriver lists cars with no assigned driver, within the
// caller's scope.
func ListCarsWithoutDriver(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	listCars(c, scopeCars(config.DB.Where("info_driver_id IS NULL"), principal))
}

// FindCarsByDriver lists the cars assigned to a driver, within the
// caller's scope.
func FindCarsByDriver(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	driverID, ok := parseIDParam(c, "driver_id")
	if !ok {
		return
	}
	listCars(c, scopeCars(config.DB.Where("info_driver_id = ?", driverID), principal))
}

// FindCarsByIMEI finds cars whose GPS device IMEI starts with the given
// prefix.
func FindCarsByIMEI(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	listCars(c, scopeCars(config.DB.Where("info_gps_device ILIKE ?", prefixPattern(c.Param("imei"))), principal))
}

// FindCarsBySim finds cars whose SIM number starts with the given prefix.
func FindCarsBySim(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	listCars(c, scopeCars(config.DB.Where("info_sim_number ILIKE ?", prefixPattern(c.Param("sim"))), principal))
}

// SearchCarsByInstaller finds cars by installer name prefix.
func SearchCarsByInstaller(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	listCars(c, scopeCars(config.DB.Where("installation_installed_by ILIKE ?", prefixPattern(c.Param("name"))), principal))
}

// SearchCarsByCompany finds cars by installation company prefix.
func SearchCarsByCompany(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	listCars(c, scopeCars(config.DB.Where("installation_company ILIKE ?", prefixPattern(c.Param("name"))), principal))
}

// SearchCarsByLocation finds cars by installation location prefix.
func SearchCarsByLocation(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	listCars(c, scopeCars(config.DB.Where("installation_location ILIKE ?", prefixPattern(c.Param("location"))), principal))
}

// parseDayRange reads from/to query parameters as 2006-01-02 dates and
// returns the half-open UTC interval [from 00:00, to+1d 00:00). A missing
// "to" collapses the range to the single "from" day.
func parseDayRange(from, to string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", from, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("Invalid from date, expected YYYY-MM-DD")
	}
	endDay := start
	if to != "" {
		endDay, err = time.ParseInLocation("2006-01-02", to, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("Invalid to date, expected YYYY-MM-DD")
		}
	}
	end := endDay.AddDate(0, 0, 1)
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("Date range is reversed")
	}
	return start, end, nil
}

func listCarsByDateColumn(c *gin.Context, column string) {
	principal := middleware.CurrentPrincipal(c)

	start, end, err := parseDayRange(c.Query("from"), c.Query("to"))
	if err != nil {
		respondInvalid(c, err.Error())
		return
	}

	q := scopeCars(config.DB.Where(column+" >= ? AND "+column+" < ?", start, end), principal)
	listCars(c, q)
}

// ListCarsByActivationDate lists cars activated within a day range.
func ListCarsByActivationDate(c *gin.Context) {
	listCarsByDateColumn(c, "info_activation_date")
}

// ListCarsByExpirationDate lists cars whose subscription expires within a
// day range.
func ListCarsByExpirationDate(c *gin.Context) {
	listCarsByDateColumn(c, "info_expiration_date")
}

// ListCarsByInstallationDate lists cars installed within a day range.
func ListCarsByInstallationDate(c *gin.Context) {
	listCarsByDateColumn(c, "installation_time")
}
