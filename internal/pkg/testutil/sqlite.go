// Package testutil opens migrated in-memory databases for package tests.
package testutil

import (
	"testing"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/model"
	"collabnote-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewSQLite returns a fresh migrated database holding the two special groups.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.NewInMemorySQLite("test-" + uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	require.NoError(t, db.Create(&[]model.Group{
		{Name: entity.SpecialGroupEveryone, DisplayName: "Everyone", IsSpecial: true},
		{Name: entity.SpecialGroupLoggedIn, DisplayName: "Logged-in users", IsSpecial: true},
	}).Error)
	return db
}

// GroupId looks up a group by name.
func GroupId(t testing.TB, db *gorm.DB, name string) uint {
	t.Helper()
	var group model.Group
	require.NoError(t, db.Where("name = ?", name).First(&group).Error)
	return group.Id
}

// CreateUser inserts a user without a password.
func CreateUser(t testing.TB, db *gorm.DB, username string) uint {
	t.Helper()
	user := model.User{Username: username, DisplayName: username}
	require.NoError(t, db.Create(&user).Error)
	return user.Id
}

// Count returns the number of rows of the given model.
func Count(t testing.TB, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}
