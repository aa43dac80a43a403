package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet_tracker/internal/authz"
	"fleet_tracker/internal/models"
)

func authTestRouter(captured *authz.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", RequireAuth(), func(c *gin.Context) {
		*captured = CurrentPrincipal(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireAuthRoundTrip(t *testing.T) {
	accountID := uint(5)
	groupID := uint(9)
	user := models.User{
		Role:      authz.RoleGroupAdmin,
		AccountID: &accountID,
		GroupID:   &groupID,
	}
	user.ID = 42

	token, err := GenerateToken(&user)
	require.NoError(t, err)

	var got authz.Principal
	r := authTestRouter(&got)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, authz.Principal{UserID: 42, Role: authz.RoleGroupAdmin, AccountID: 5, GroupID: 9}, got)
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	var got authz.Principal
	r := authTestRouter(&got)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsGarbageToken(t *testing.T) {
	var got authz.Principal
	r := authTestRouter(&got)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
