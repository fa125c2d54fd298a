package specification

import "gorm.io/gorm"

type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}

type ByGroupName struct {
	Name string
}

func (s ByGroupName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}
