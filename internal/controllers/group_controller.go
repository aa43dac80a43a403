package controllers

import (
	"encoding/binary"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
	"gorm.io/gorm"

	"fleet_tracker/internal/authz"
	"fleet_tracker/internal/config"
	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/models"
)

type createGroupInput struct {
	Name      string  `json:"name" binding:"required,min=3,max=20"`
	AccountID uint    `json:"accountId" binding:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateGroup creates a group under an account. Root, or the account's
// own manager. The parent account must exist.
func CreateGroup(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	var input createGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	if !authz.CanActAsAccountManager(principal) || !authz.CanAccessAccount(principal, input.AccountID) {
		respondForbidden(c)
		return
	}

	var account models.Account
	if err := config.DB.First(&account, input.AccountID).Error; err != nil {
		respondNotFound(c, "Account")
		return
	}

	var existing models.Group
	if err := config.DB.Where("account_id = ? AND name = ?", input.AccountID, input.Name).
		First(&existing).Error; err == nil {
		respondConflict(c, "Group name already exists in this account")
		return
	}

	group := models.Group{
		Name:      input.Name,
		AccountID: input.AccountID,
		Address:   models.GeoPoint{Latitude: input.Latitude, Longitude: input.Longitude},
	}
	if err := config.DB.Create(&group).Error; err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, "Group name already exists in this account")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create group: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"group": group})
}

// loadGroupGuarded fetches the group and authorizes the caller against it.
// Existence is established first so that a group admin probing their own
// scope gets an honest 404, then the tenancy check runs.
func loadGroupGuarded(c *gin.Context, id uint) (*models.Group, bool) {
	var group models.Group
	if err := config.DB.First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "Group")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return nil, false
	}

	principal := middleware.CurrentPrincipal(c)
	if !authz.CanAccessGroup(principal, group.ID, group.AccountID) {
		respondForbidden(c)
		return nil, false
	}
	return &group, true
}

// GetGroup retrieves a group by ID, including its paths.
func GetGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	group, ok := loadGroupGuarded(c, id)
	if !ok {
		return
	}

	if err := config.DB.Preload("Paths").First(group, group.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": group})
}

// ListGroupsByAccount lists the groups under an account. Root or the
// account's own manager; group admins see only their own group.
func ListGroupsByAccount(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	accountID, ok := parseIDParam(c, "account_id")
	if !ok {
		return
	}

	q := config.DB.Where("account_id = ?", accountID)
	switch principal.Role {
	case authz.RoleRoot:
	case authz.RoleAccountManager:
		if principal.AccountID != accountID {
			respondForbidden(c)
			return
		}
	case authz.RoleGroupAdmin:
		// Their own group or nothing.
		q = q.Where("id = ?", principal.GroupID)
	default:
		respondForbidden(c)
		return
	}

	var groups []models.Group
	if err := q.Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch groups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": groups})
}

// SearchGroupsByName finds groups whose name starts with the given prefix,
// filtered to the caller's tenancy scope.
func SearchGroupsByName(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	q := config.DB.Where("name ILIKE ?", prefixPattern(c.Param("name")))
	switch principal.Role {
	case authz.RoleRoot:
	case authz.RoleAccountManager:
		q = q.Where("account_id = ?", principal.AccountID)
	case authz.RoleGroupAdmin:
		q = q.Where("id = ?", principal.GroupID)
	default:
		respondForbidden(c)
		return
	}

	var groups []models.Group
	if err := q.Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch groups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": groups})
}

type updateGroupInput struct {
	Name      string   `json:"name" binding:"required,min=3,max=20"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// UpdateGroup renames a group and optionally moves its address. Root or
// the owning account's manager; group admins may not rename their own
// group. The group's account is immutable.
func UpdateGroup(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if !authz.CanActAsAccountManager(principal) {
		respondForbidden(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	group, ok := loadGroupGuarded(c, id)
	if !ok {
		return
	}

	var input updateGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	if input.Name != group.Name {
		var existing models.Group
		if err := config.DB.Where("account_id = ? AND name = ? AND id <> ?",
			group.AccountID, input.Name, group.ID).First(&existing).Error; err == nil {
			respondConflict(c, "Group name already exists in this account")
			return
		}
	}

	group.Name = input.Name
	if input.Latitude != nil && input.Longitude != nil {
		group.Address = models.GeoPoint{Latitude: *input.Latitude, Longitude: *input.Longitude}
	}
	if err := config.DB.Save(group).Error; err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, "Group name already exists in this account")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": group})
}

// DeleteGroup removes a group. Root or the owning account's manager.
// Drivers, cars and paths under it are left dangling rather than
// cascaded.
func DeleteGroup(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if !authz.CanActAsAccountManager(principal) {
		respondForbidden(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	group, ok := loadGroupGuarded(c, id)
	if !ok {
		return
	}

	if err := config.DB.Delete(group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete group"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": group})
}

// --- Paths -----------------------------------------------------------

// PathResponse carries the geometry as a GeoJSON string; the stored form
// is WKB and never serializes directly.
type PathResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	GroupID  uint   `json:"group_id"`
	Geometry string `json:"geometry,omitempty"`
}

func toPathResponse(p *models.Path) PathResponse {
	jsonGeom, _ := convertWKBToGeoJSON(p.Geometry)
	return PathResponse{
		ID:       p.ID,
		Name:     p.Name,
		GroupID:  p.GroupID,
		Geometry: jsonGeom,
	}
}

// parseAndConvertGeometry parses a GeoJSON geometry string into WKB bytes.
func parseAndConvertGeometry(raw string) ([]byte, error) {
	if raw == "" {
		return nil, errors.New("empty geometry")
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	out, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

type addPathInput struct {
	Name     string `json:"name" binding:"required,min=1,max=50"`
	Geometry string `json:"geometry"`
}

// AddPath appends a named path to a group. Any principal that can access
// the group may manage its paths, group admins included.
func AddPath(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	group, ok := loadGroupGuarded(c, groupID)
	if !ok {
		return
	}

	var input addPathInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	var existing models.Path
	if err := config.DB.Where("group_id = ? AND name = ?", group.ID, input.Name).
		First(&existing).Error; err == nil {
		respondConflict(c, "Path name already exists in this group")
		return
	}

	path := models.Path{Name: input.Name, GroupID: group.ID}
	if input.Geometry != "" {
		wkbGeom, err := parseAndConvertGeometry(input.Geometry)
		if err != nil {
			respondInvalid(c, "Invalid geometry: "+err.Error())
			return
		}
		path.Geometry = wkbGeom
	}

	if err := config.DB.Create(&path).Error; err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, "Path name already exists in this group")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create path: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"path": toPathResponse(&path)})
}

type updatePathInput struct {
	Name     string  `json:"name" binding:"required,min=1,max=50"`
	Geometry *string `json:"geometry"`
}

// RenamePath renames a path and optionally replaces its geometry. The
// path is addressed through its owning group; moving a path between
// groups is not supported.
func RenamePath(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pathID, ok := parseIDParam(c, "path_id")
	if !ok {
		return
	}

	group, ok := loadGroupGuarded(c, groupID)
	if !ok {
		return
	}

	var path models.Path
	if err := config.DB.Where("id = ? AND group_id = ?", pathID, group.ID).
		First(&path).Error; err != nil {
		respondNotFound(c, "Path")
		return
	}

	var input updatePathInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	if input.Name != path.Name {
		var existing models.Path
		if err := config.DB.Where("group_id = ? AND name = ? AND id <> ?",
			group.ID, input.Name, path.ID).First(&existing).Error; err == nil {
			respondConflict(c, "Path name already exists in this group")
			return
		}
	}

	path.Name = input.Name
	if input.Geometry != nil {
		if *input.Geometry == "" {
			path.Geometry = nil
		} else {
			wkbGeom, err := parseAndConvertGeometry(*input.Geometry)
			if err != nil {
				respondInvalid(c, "Invalid geometry: "+err.Error())
				return
			}
			path.Geometry = wkbGeom
		}
	}

	if err := config.DB.Save(&path).Error; err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, "Path name already exists in this group")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update path: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": toPathResponse(&path)})
}

// ListPaths lists a group's paths.
func ListPaths(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	group, ok := loadGroupGuarded(c, groupID)
	if !ok {
		return
	}

	var paths []models.Path
	if err := config.DB.Where("group_id = ?", group.ID).Find(&paths).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch paths"})
		return
	}

	out := make([]PathResponse, 0, len(paths))
	for i := range paths {
		out = append(out, toPathResponse(&paths[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// DeletePath removes a path from its group. Cars referencing it keep
// their stale path id.
func DeletePath(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pathID, ok := parseIDParam(c, "path_id")
	if !ok {
		return
	}

	group, ok := loadGroupGuarded(c, groupID)
	if !ok {
		return
	}

	var path models.Path
	if err := config.DB.Where("id = ? AND group_id = ?", pathID, group.ID).
		First(&path).Error; err != nil {
		respondNotFound(c, "Path")
		return
	}

	if err := config.DB.Delete(&path).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete path"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": toPathResponse(&path)})
}
