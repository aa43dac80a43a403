package authz

import (
	"errors"

	"gorm.io/gorm"

	"fleet_tracker/internal/models"
)

// Kind names a resource type for coordinate resolution.
type Kind string

const (
	KindGroup  Kind = "group"
	KindDriver Kind = "driver"
	KindCar    Kind = "car"
	KindPath   Kind = "path"
	KindUser   Kind = "user"
)

// ErrNotFound marks a missing resource (or missing parent) during
// coordinate resolution. It is an existence outcome, never an
// authorization one.
var ErrNotFound = errors.New("resource not found")

// ResolveCoordinate loads the tenancy coordinate of a resource by id.
// Every type is a single hop except Path, which has no account column and
// goes Path -> Group -> AccountID. The dispatch is deliberately explicit:
// the hierarchy depth is fixed, so there is nothing to gain from a generic
// graph walk.
func ResolveCoordinate(db *gorm.DB, kind Kind, id uint) (Coordinate, error) {
	switch kind {
	case KindGroup:
		var g models.Group
		if err := db.Select("id", "account_id").First(&g, id).Error; err != nil {
			return Coordinate{}, translate(err)
		}
		return Coordinate{AccountID: g.AccountID, GroupID: g.ID}, nil

	case KindDriver:
		var d models.Driver
		if err := db.Select("id", "group_id", "account_id").First(&d, id).Error; err != nil {
			return Coordinate{}, translate(err)
		}
		return Coordinate{AccountID: d.AccountID, GroupID: d.GroupID}, nil

	case KindCar:
		var c models.Car
		if err := db.Select("id", "info_group_id", "info_account_id").First(&c, id).Error; err != nil {
			return Coordinate{}, translate(err)
		}
		return Coordinate{AccountID: c.Info.AccountID, GroupID: c.Info.GroupID}, nil

	case KindPath:
		var p models.Path
		if err := db.Select("id", "group_id").First(&p, id).Error; err != nil {
			return Coordinate{}, translate(err)
		}
		// Second hop: the owning group carries the account. A missing
		// group here is a data-integrity gap, still reported as not found.
		var g models.Group
		if err := db.Select("id", "account_id").First(&g, p.GroupID).Error; err != nil {
			return Coordinate{}, translate(err)
		}
		return Coordinate{AccountID: g.AccountID, GroupID: g.ID}, nil

	case KindUser:
		var u models.User
		if err := db.Select("id", "account_id", "group_id").First(&u, id).Error; err != nil {
			return Coordinate{}, translate(err)
		}
		coord := Coordinate{}
		if u.AccountID != nil {
			coord.AccountID = *u.AccountID
		}
		if u.GroupID != nil {
			coord.GroupID = *u.GroupID
		}
		return coord, nil
	}

	return Coordinate{}, errors.New("unknown resource kind: " + string(kind))
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
