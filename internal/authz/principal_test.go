package authz

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromClaimsRoot(t *testing.T) {
	p, err := FromClaims(jwt.MapClaims{
		"user_id": float64(7),
		"role":    "root",
	})
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: 7, Role: RoleRoot}, p)
}

func TestFromClaimsAccountManager(t *testing.T) {
	p, err := FromClaims(jwt.MapClaims{
		"user_id":    float64(3),
		"role":       "account",
		"account_id": float64(5),
	})
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: 3, Role: RoleAccountManager, AccountID: 5}, p)
}

func TestFromClaimsGroupAdmin(t *testing.T) {
	p, err := FromClaims(jwt.MapClaims{
		"user_id":    float64(4),
		"role":       "group",
		"account_id": float64(5),
		"group_id":   float64(9),
	})
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: 4, Role: RoleGroupAdmin, AccountID: 5, GroupID: 9}, p)
}

func TestFromClaimsRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"missing user id", jwt.MapClaims{"role": "root"}},
		{"zero user id", jwt.MapClaims{"user_id": float64(0), "role": "root"}},
		{"missing role", jwt.MapClaims{"user_id": float64(1)}},
		{"unknown role", jwt.MapClaims{"user_id": float64(1), "role": "superuser"}},
		{"manager without account", jwt.MapClaims{"user_id": float64(1), "role": "account"}},
		{"group admin without group", jwt.MapClaims{
			"user_id": float64(1), "role": "group", "account_id": float64(2),
		}},
		{"group admin without account", jwt.MapClaims{
			"user_id": float64(1), "role": "group", "group_id": float64(2),
		}},
		{"string user id", jwt.MapClaims{"user_id": "1", "role": "root"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromClaims(tc.claims)
			assert.ErrorIs(t, err, ErrBadClaims)
		})
	}
}
