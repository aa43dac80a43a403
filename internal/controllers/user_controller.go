package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleet_tracker/internal/authz"
	"fleet_tracker/internal/config"
	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/models"
)

type registerUserInput struct {
	Name      string `json:"name" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email,max=50"`
	Password  string `json:"password" binding:"required,max=72"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
	Role      string `json:"role" binding:"required,oneof=root account group"`
	AccountID *uint  `json:"account_id"`
	GroupID   *uint  `json:"group_id"`
}

// RegisterUser creates a new user under an account/group. Root may create
// any user; an account manager only group admins inside their own account.
func RegisterUser(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	var input registerUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, err.Error())
		return
	}
	input.Name = strings.ToLower(input.Name)
	input.Email = strings.ToLower(input.Email)

	// Role-conditional required fields
	if input.Role != authz.RoleRoot && input.AccountID == nil {
		respondInvalid(c, "account_id is required for non-root users")
		return
	}
	if input.Role == authz.RoleGroupAdmin && input.GroupID == nil {
		respondInvalid(c, "group_id is required for group admins")
		return
	}

	var targetAccount uint
	if input.AccountID != nil {
		targetAccount = *input.AccountID
	}
	if !authz.CanCreateUser(principal, input.Role, targetAccount) {
		respondForbidden(c)
		return
	}

	// Referenced parents must exist; a group must belong to the same
	// account the user is being placed in. A mismatched group is an
	// authorization outcome, not a missing resource: the caller already
	// knows the group id, only the cross-account assignment is refused.
	if input.AccountID != nil {
		var account models.Account
		if err := config.DB.First(&account, *input.AccountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondNotFound(c, "Account")
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
			return
		}
	}
	if input.GroupID != nil {
		var group models.Group
		if err := config.DB.First(&group, *input.GroupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondNotFound(c, "Group")
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
			return
		}
		if input.AccountID == nil || group.AccountID != *input.AccountID {
			respondForbidden(c)
			return
		}
	}

	var existing models.User
	if err := config.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		respondConflict(c, "User email already exists")
		return
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	user := models.User{
		Name:      input.Name,
		Email:     input.Email,
		Password:  hashed,
		Phone:     input.Phone,
		Role:      input.Role,
		AccountID: input.AccountID,
		GroupID:   input.GroupID,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, "User email already exists")
			return
		}
		logrus.WithError(err).Error("RegisterUser: insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// userScope narrows a user query to what the principal may see: root sees
// everything, an account manager only the group admins of their own
// account. Cross-tenant users are filtered out rather than rejected, so
// the response reveals nothing about other tenants.
func userScope(q *gorm.DB, p authz.Principal) *gorm.DB {
	if p.Role == authz.RoleAccountManager {
		q = q.Where("account_id = ? AND role = ?", p.AccountID, authz.RoleGroupAdmin)
	}
	return q
}

// GetUser returns a single user by id. Account-manager level required.
func GetUser(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if !authz.CanActAsAccountManager(principal) {
		respondForbidden(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var user models.User
	q := userScope(config.DB.Where("id = ?", id), principal).
		Preload("Account").
		Preload("Group")
	if err := q.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "User")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// SearchUsers finds users by name, email or phone prefix.
func SearchUsers(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if !authz.CanActAsAccountManager(principal) {
		respondForbidden(c)
		return
	}

	key := c.Param("key")
	if key != "name" && key != "email" && key != "phone" {
		respondInvalid(c, "search key must be one of name, email, phone")
		return
	}
	value := strings.ToLower(c.Param("value"))

	var users []models.User
	q := userScope(config.DB.Where(key+" ILIKE ?", prefixPattern(value)), principal).
		Preload("Account").
		Preload("Group").
		Order("name")
	if err := q.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error searching users: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": users})
}

// ListUsersByAccount lists all users of an account.
func ListUsersByAccount(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !authz.CanAccessAccount(principal, id) {
		respondForbidden(c)
		return
	}

	var users []models.User
	q := userScope(config.DB.Where("account_id = ?", id), principal).
		Preload("Account").
		Preload("Group").
		Order("name")
	if err := q.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing users: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": users})
}

// ListUsersByGroup lists the users attached to one group.
func ListUsersByGroup(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if !authz.CanActAsAccountManager(principal) {
		respondForbidden(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var users []models.User
	q := userScope(config.DB.Where("group_id = ?", id), principal).
		Preload("Account").
		Preload("Group").
		Order("name")
	if err := q.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing users: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": users})
}

type updateUserInput struct {
	Name    *string `json:"name" binding:"omitempty,min=3,max=50"`
	Phone   *string `json:"phone" binding:"omitempty,max=20"`
	GroupID *uint   `json:"group_id"`
}

// UpdateUser modifies name, phone and (for group admins) the assigned
// group. The user's account never changes; moving a group admin is only
// allowed between groups of the same account.
func UpdateUser(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "User")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	var targetAccount uint
	if user.AccountID != nil {
		targetAccount = *user.AccountID
	}
	if !authz.CanManageUser(principal, targetAccount) {
		// Root anywhere, account managers inside their own account
		respondForbidden(c)
		return
	}

	var input updateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	if input.Name != nil {
		user.Name = strings.ToLower(*input.Name)
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.GroupID != nil {
		if user.Role != authz.RoleGroupAdmin {
			respondInvalid(c, "only group admins can be assigned to a group")
			return
		}
		var group models.Group
		if err := config.DB.First(&group, *input.GroupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondNotFound(c, "Group")
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
			}
			return
		}
		if user.AccountID == nil || group.AccountID != *user.AccountID {
			respondForbidden(c)
			return
		}
		user.GroupID = input.GroupID
	}

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type changePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,max=72"`
}

// ChangePassword lets a user change their own password. This is an
// identity check plus a current-password check; roles and tenancy play no
// part in it.
func ChangePassword(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input changePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "User")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if principal.UserID != user.ID {
		respondForbidden(c)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
		respondForbidden(c)
		return
	}

	hashed, err := hashPassword(input.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}
	user.Password = hashed
	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type resetPasswordInput struct {
	Password string `json:"password" binding:"required,max=72"`
}

// ResetPassword sets a new password without knowing the old one. Root may
// reset anyone; an account manager only users within their own account.
func ResetPassword(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input resetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "User")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	var targetAccount uint
	if user.AccountID != nil {
		targetAccount = *user.AccountID
	}
	if !authz.CanManageUser(principal, targetAccount) {
		respondForbidden(c)
		return
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}
	user.Password = hashed
	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser removes a user. Same rule as password reset: root anywhere,
// account managers inside their own account.
func DeleteUser(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "User")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	var targetAccount uint
	if user.AccountID != nil {
		targetAccount = *user.AccountID
	}
	if !authz.CanManageUser(principal, targetAccount) {
		respondForbidden(c)
		return
	}

	if err := config.DB.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
