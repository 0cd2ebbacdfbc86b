package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shakgill786/luxury-car-service/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Spot{},
		&model.SpotImage{},
		&model.Review{},
		&model.ReviewImage{},
		&model.Booking{},
	))
	return db
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation(model.DateLayout, value, time.UTC)
	require.NoError(t, err)
	return parsed
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "$2a$10$0123456789012345678901uCBg0GEL8WJdOg0bE9zUqR1ZCFPSmPe",
		FirstName:      "Test",
		LastName:       "User",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestSpot(t *testing.T, db *gorm.DB, ownerID uint) *model.Spot {
	t.Helper()
	spot := &model.Spot{
		OwnerID: ownerID,
		Address: "123 Main St",
		City:    "Seattle",
		State:   "WA",
		Country: "USA",
		Lat:     47.6,
		Lng:     -122.3,
		Name:    "Lakefront Cabin",
		Price:   250,
	}
	require.NoError(t, db.Create(spot).Error)
	return spot
}
