package services

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/filmatch/filmatch-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&types.Movie{}, &types.Rating{}, &types.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func seedMovie(t *testing.T, db *gorm.DB, id int, title string, year int, genre, cast string) {
	t.Helper()
	m := &types.Movie{
		ID:    id,
		Title: title,
		Year:  intPtr(year),
		Genre: strPtr(genre),
		Cast:  strPtr(cast),
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("failed to seed movie %d: %v", id, err)
	}
}

func seedRating(t *testing.T, db *gorm.DB, userID, movieID int, value float32) {
	t.Helper()
	if err := db.Create(&types.Rating{UserID: userID, MovieID: movieID, Value: value}).Error; err != nil {
		t.Fatalf("failed to seed rating (%d,%d): %v", userID, movieID, err)
	}
}
