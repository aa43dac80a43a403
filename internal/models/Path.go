// internal/models/path.go
package models

import (
	"gorm.io/gorm"
)

// Path is a named service route belonging to exactly one group. It carries
// no account column of its own; its account is reached through the group.
type Path struct {
	gorm.Model

	Name    string `json:"name" gorm:"size:50;uniqueIndex:idx_paths_group_name" binding:"required,max=50"`
	GroupID uint   `json:"group_id" gorm:"uniqueIndex:idx_paths_group_name;index"`

	// Geometry stored as WKB (LINESTRING, SRID 4326). The API speaks
	// GeoJSON; controllers convert on the way in and out.
	Geometry []byte `json:"-" gorm:"type:bytea"`
}
