package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The fixture topology mirrors a two-tenant deployment: account 1 with
// groups 11 and 12, account 2 with group 21.
var (
	root    = Principal{UserID: 1, Role: RoleRoot}
	mgrA    = Principal{UserID: 2, Role: RoleAccountManager, AccountID: 1}
	mgrB    = Principal{UserID: 3, Role: RoleAccountManager, AccountID: 2}
	adminA1 = Principal{UserID: 4, Role: RoleGroupAdmin, AccountID: 1, GroupID: 11}
)

func TestCanAccessAccount(t *testing.T) {
	assert.True(t, CanAccessAccount(root, 1))
	assert.True(t, CanAccessAccount(root, 2))

	assert.True(t, CanAccessAccount(mgrA, 1))
	assert.False(t, CanAccessAccount(mgrA, 2))

	// Group admins never reach account scope, even their own account's
	assert.False(t, CanAccessAccount(adminA1, 1))
	assert.False(t, CanAccessAccount(adminA1, 2))
}

func TestCanAccessGroup(t *testing.T) {
	cases := []struct {
		name           string
		p              Principal
		groupID        uint
		groupAccountID uint
		want           bool
	}{
		{"root any group", root, 21, 2, true},
		{"manager own account group", mgrA, 11, 1, true},
		{"manager other account group", mgrA, 21, 2, false},
		{"manager b own group", mgrB, 21, 2, true},
		{"admin own group", adminA1, 11, 1, true},
		{"admin sibling group same account", adminA1, 12, 1, false},
		{"admin foreign group", adminA1, 21, 2, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanAccessGroup(tc.p, tc.groupID, tc.groupAccountID))
		})
	}
}

func TestCanAccessResource(t *testing.T) {
	inA1 := Coordinate{AccountID: 1, GroupID: 11}
	inA2 := Coordinate{AccountID: 1, GroupID: 12}
	inB1 := Coordinate{AccountID: 2, GroupID: 21}

	assert.True(t, CanAccessResource(root, inB1))

	assert.True(t, CanAccessResource(mgrA, inA1))
	assert.True(t, CanAccessResource(mgrA, inA2))
	assert.False(t, CanAccessResource(mgrA, inB1))

	assert.True(t, CanAccessResource(adminA1, inA1))
	// Matching account is not enough for a group admin
	assert.False(t, CanAccessResource(adminA1, inA2))
	assert.False(t, CanAccessResource(adminA1, inB1))
}

func TestCanCreateUser(t *testing.T) {
	assert.True(t, CanCreateUser(root, RoleRoot, 0))
	assert.True(t, CanCreateUser(root, RoleAccountManager, 2))
	assert.True(t, CanCreateUser(root, RoleGroupAdmin, 1))

	assert.True(t, CanCreateUser(mgrA, RoleGroupAdmin, 1))
	assert.False(t, CanCreateUser(mgrA, RoleGroupAdmin, 2))
	assert.False(t, CanCreateUser(mgrA, RoleAccountManager, 1))
	assert.False(t, CanCreateUser(mgrA, RoleRoot, 1))

	assert.False(t, CanCreateUser(adminA1, RoleGroupAdmin, 1))
}

func TestCanActAsAccountManager(t *testing.T) {
	assert.True(t, CanActAsAccountManager(root))
	assert.True(t, CanActAsAccountManager(mgrA))
	assert.False(t, CanActAsAccountManager(adminA1))
}

func TestCanManageUser(t *testing.T) {
	assert.True(t, CanManageUser(root, 2))
	assert.True(t, CanManageUser(mgrA, 1))
	assert.False(t, CanManageUser(mgrA, 2))
	assert.False(t, CanManageUser(adminA1, 1))
}
