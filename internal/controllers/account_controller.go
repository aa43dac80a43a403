package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fleet_tracker/internal/authz"
	"fleet_tracker/internal/config"
	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/models"
)

// Accounts form the top of the tenancy hierarchy, so most operations here
// are root-only. Rename and set-location additionally allow the account's
// own manager. The authorization check runs before any lookup: the
// predicate needs nothing but the requested id, and denying foreign ids
// outright reveals nothing about whether they exist.

type createAccountInput struct {
	Name string `json:"name" binding:"required,min=3,max=20"`
}

// CreateAccount registers a new tenant root. Root only.
func CreateAccount(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if principal.Role != authz.RoleRoot {
		respondForbidden(c)
		return
	}

	var input createAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	var existing models.Account
	if err := config.DB.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		respondConflict(c, "Account name already exists")
		return
	}

	account := models.Account{Name: input.Name}
	if err := config.DB.Create(&account).Error; err != nil {
		if isUniqueViolation(err) {
			// Lost a race against a concurrent create; the unique index
			// on name is the authoritative arbiter.
			respondConflict(c, "Account name already exists")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create account: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// GetAccount retrieves an Account by ID. Root only.
func GetAccount(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if principal.Role != authz.RoleRoot {
		respondForbidden(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var account models.Account
	if err := config.DB.Preload("Groups").First(&account, id).Error; err != nil {
		respondNotFound(c, "Account")
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account})
}

// ListAccounts lists all accounts. Root only.
func ListAccounts(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if principal.Role != authz.RoleRoot {
		respondForbidden(c)
		return
	}

	var accounts []models.Account
	if err := config.DB.Find(&accounts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch accounts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": accounts})
}

// SearchAccountsByName finds accounts whose name starts with the given
// prefix. Root only.
func SearchAccountsByName(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if principal.Role != authz.RoleRoot {
		respondForbidden(c)
		return
	}

	var accounts []models.Account
	if err := config.DB.Where("name ILIKE ?", prefixPattern(c.Param("name"))).Find(&accounts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch accounts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": accounts})
}

// UpdateAccount renames an account. Root, or the account's own manager.
func UpdateAccount(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !authz.CanAccessAccount(principal, id) {
		respondForbidden(c)
		return
	}

	var input createAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	var account models.Account
	if err := config.DB.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "Account")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	var existing models.Account
	if err := config.DB.Where("name = ? AND id <> ?", input.Name, id).First(&existing).Error; err == nil {
		respondConflict(c, "Account name already exists")
		return
	}

	account.Name = input.Name
	if err := config.DB.Save(&account).Error; err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, "Account name already exists")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

type setLocationInput struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// SetAccountLocation stores the account's base coordinates.
func SetAccountLocation(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !authz.CanAccessAccount(principal, id) {
		respondForbidden(c)
		return
	}

	var input setLocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, "Location error")
		return
	}

	var account models.Account
	if err := config.DB.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "Account")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	account.Location = models.GeoPoint{Latitude: *input.Latitude, Longitude: *input.Longitude}
	if err := config.DB.Save(&account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount removes an account. Root only. Child groups and users are
// deliberately left in place referencing the missing account; cascading
// cleanup is a separate operational concern.
func DeleteAccount(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if principal.Role != authz.RoleRoot {
		respondForbidden(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var account models.Account
	if err := config.DB.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "Account")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if err := config.DB.Delete(&account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}
