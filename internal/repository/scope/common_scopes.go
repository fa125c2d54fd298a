package scope

import (
	"time"

	"gorm.io/gorm"
)

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

func OrderByCreatedAsc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// CreatedBefore keeps rows strictly older than cutoff.
func CreatedBefore(cutoff time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at < ?", cutoff)
	}
}
