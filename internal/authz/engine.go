// Package authz is the authorization and tenancy-isolation engine: pure
// decision functions over a Principal and a resource's tenancy coordinate.
// Nothing in this file touches storage; every function is safe to call
// concurrently.
//
// Role evaluation is strictly top-down: root bypasses all scope checks,
// account managers are checked against account scope only, group admins
// against group scope only. A deny here must surface to the client as a
// uniform Forbidden with no hint of which check failed.
package authz

// Coordinate places a resource inside the account/group ownership
// hierarchy. GroupID is zero for account-level resources.
type Coordinate struct {
	AccountID uint
	GroupID   uint
}

// CanAccessAccount reports whether p may operate on the account itself
// (rename, set location, list its users). Group admins are always denied:
// account-level operations sit above their scope.
func CanAccessAccount(p Principal, accountID uint) bool {
	switch p.Role {
	case RoleRoot:
		return true
	case RoleAccountManager:
		return p.AccountID == accountID
	default:
		return false
	}
}

// CanAccessGroup reports whether p may operate on a group. Account
// managers qualify through the group's owning account, group admins only
// through the group itself.
func CanAccessGroup(p Principal, groupID, groupAccountID uint) bool {
	switch p.Role {
	case RoleRoot:
		return true
	case RoleAccountManager:
		return p.AccountID == groupAccountID
	case RoleGroupAdmin:
		return p.GroupID == groupID
	default:
		return false
	}
}

// CanActAsAccountManager gates operations that need at least account
// manager privilege, such as registering users or creating groups.
func CanActAsAccountManager(p Principal) bool {
	return p.Role == RoleRoot || p.Role == RoleAccountManager
}

// CanCreateUser reports whether p may register a user with the given role
// under the given account. Root may create anyone anywhere; an account
// manager may only create group admins inside their own account.
func CanCreateUser(p Principal, targetRole string, targetAccountID uint) bool {
	switch p.Role {
	case RoleRoot:
		return true
	case RoleAccountManager:
		return targetRole == RoleGroupAdmin && targetAccountID == p.AccountID
	default:
		return false
	}
}

// CanAccessResource reports whether p may operate on a group-scoped
// resource (driver or car) at the given coordinate. A group admin must
// match the resource's group, not merely its account: group scope is
// strictly narrower than account scope.
func CanAccessResource(p Principal, at Coordinate) bool {
	switch p.Role {
	case RoleRoot:
		return true
	case RoleAccountManager:
		return p.AccountID == at.AccountID
	case RoleGroupAdmin:
		return p.GroupID == at.GroupID
	default:
		return false
	}
}

// CanManageUser reports whether p may administer (update, reset the
// password of, delete) a user belonging to targetAccountID. Root may
// manage anyone; an account manager only users within their own account.
func CanManageUser(p Principal, targetAccountID uint) bool {
	switch p.Role {
	case RoleRoot:
		return true
	case RoleAccountManager:
		return p.AccountID == targetAccountID
	default:
		return false
	}
}
