package model

import (
	"time"

	"gorm.io/gorm"
)

// Revision is embedded by rows the portal keeps locally. Version starts at 1
// and is bumped by every guarded update; rows are soft-deleted so a student's
// unique live row can be replaced.
type Revision struct {
	Version   int            `gorm:"not null;default:1"                   json:"version"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"   json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"   json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index"                                json:"-"`
}

// Matches reports whether a client-held version is still current.
func (r Revision) Matches(version int) bool { return r.Version == version }
