package repository

import (
	"testing"

	"noteweaver/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user := seedUser(t, db, "margaret", "margaret@example.com")

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "margaret", found.Username)

	found, err = repo.FindByEmail("margaret@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	found, err = repo.FindByUsername("margaret")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
}

func TestUserRepository_NotFoundIsNil(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	found, err := repo.FindByID(999999)
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.FindByEmail("ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	seedUser(t, db, "margaret", "margaret@example.com")

	dup := &entity.User{
		Username:     "margaret",
		Email:        "other@example.com",
		PasswordHash: "x",
		CreatedAt:    1,
	}
	err := repo.Create(dup)
	assert.ErrorIs(t, err, ErrUniqueViolation)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	seedUser(t, db, "margaret", "margaret@example.com")

	dup := &entity.User{
		Username:     "other",
		Email:        "margaret@example.com",
		PasswordHash: "x",
		CreatedAt:    1,
	}
	err := repo.Create(dup)
	assert.ErrorIs(t, err, ErrUniqueViolation)
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	seedUser(t, db, "margaret", "margaret@example.com")

	exists, err := repo.ExistsByEmail("margaret@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail("ghost@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	tagRepo := NewTagRepository(db)

	user := seedUser(t, db, "margaret", "margaret@example.com")
	other := seedUser(t, db, "bystander", "bystander@example.com")

	note := seedNote(t, db, user.ID, "mine")
	otherNote := seedNote(t, db, other.ID, "not mine")

	tag, err := tagRepo.FindOrCreateByLabel("urgent")
	require.NoError(t, err)
	require.NoError(t, tagRepo.Attach(note.ID, tag.ID))
	require.NoError(t, tagRepo.Attach(otherNote.ID, tag.ID))

	require.NoError(t, repo.Delete(user))

	// The user and their notes are gone, associations included.
	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	var noteCount int64
	require.NoError(t, db.Model(&entity.Note{}).Where("user_id = ?", user.ID).Count(&noteCount).Error)
	assert.Zero(t, noteCount)

	var linkCount int64
	require.NoError(t, db.Model(&entity.NoteTag{}).Where("note_id = ?", note.ID).Count(&linkCount).Error)
	assert.Zero(t, linkCount)

	// The shared tag and the other user's association survive.
	tags, err := tagRepo.TagsByNote(otherNote.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "urgent", tags[0].Label)
}
