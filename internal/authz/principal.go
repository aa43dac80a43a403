package authz

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Role values as they appear in issued tokens.
const (
	RoleRoot           = "root"
	RoleAccountManager = "account"
	RoleGroupAdmin     = "group"
)

// Principal is the decoded identity of an authenticated request. It is
// built once from verified token claims, passed explicitly to every guard,
// and never persisted.
//
// Invariants: account managers and group admins always carry AccountID;
// group admins additionally carry GroupID. Root carries neither (both zero).
type Principal struct {
	UserID    uint
	Role      string
	AccountID uint
	GroupID   uint
}

var ErrBadClaims = errors.New("token claims do not form a valid principal")

// FromClaims decodes a Principal from verified JWT claims. Numeric claims
// arrive as float64 after JSON decoding.
func FromClaims(claims jwt.MapClaims) (Principal, error) {
	p := Principal{}

	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return Principal{}, ErrBadClaims
	}
	p.UserID = uint(id)

	role, ok := claims["role"].(string)
	if !ok {
		return Principal{}, ErrBadClaims
	}
	p.Role = role

	if acc, ok := claims["account_id"].(float64); ok {
		p.AccountID = uint(acc)
	}
	if grp, ok := claims["group_id"].(float64); ok {
		p.GroupID = uint(grp)
	}

	switch p.Role {
	case RoleRoot:
		// Root is scoped to nothing.
	case RoleAccountManager:
		if p.AccountID == 0 {
			return Principal{}, ErrBadClaims
		}
	case RoleGroupAdmin:
		if p.AccountID == 0 || p.GroupID == 0 {
			return Principal{}, ErrBadClaims
		}
	default:
		return Principal{}, ErrBadClaims
	}

	return p, nil
}
