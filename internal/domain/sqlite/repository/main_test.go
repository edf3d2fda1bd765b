package repository

import (
	"testing"

	"noteweaver/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// Single connection so every query sees the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&entity.User{}, &entity.Note{}, &entity.Tag{}, &entity.NoteTag{})
	require.NoError(t, err)

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, email string) *entity.User {
	t.Helper()

	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
		Country:      "United States",
		TimeZone:     "America/New_York",
		CreatedAt:    1_700_000_000_000,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedNote(t *testing.T, db *gorm.DB, userID int, title string) *entity.Note {
	t.Helper()

	note := &entity.Note{
		UserID:     userID,
		Title:      title,
		Content:    "content of " + title,
		NoteDate:   1_700_000_000_000,
		LastEdited: 1_700_000_000_000,
	}
	require.NoError(t, db.Create(note).Error)
	return note
}
