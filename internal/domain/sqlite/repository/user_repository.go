package repository

import (
	"errors"
	"fmt"

	"noteweaver/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

// Create inserts a new user. Duplicate usernames or emails surface as
// ErrUniqueViolation.
func (u *DefaultUserRepository) Create(user *entity.User) error {
	err := u.db.Create(user).Error
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrUniqueViolation, err)
	}
	return err
}

func (u *DefaultUserRepository) FindByID(id int) (*entity.User, error) {
	var user entity.User
	err := u.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := u.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) FindByUsername(username string) (*entity.User, error) {
	var user entity.User
	err := u.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) ExistsByEmail(email string) (bool, error) {
	var exists int
	err := u.db.
		Raw("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", email).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (u *DefaultUserRepository) Save(user *entity.User) error {
	err := u.db.Save(user).Error
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrUniqueViolation, err)
	}
	return err
}

// Delete removes the user together with their notes and those notes'
// tag associations. The tags themselves survive, possibly orphaned.
func (u *DefaultUserRepository) Delete(user *entity.User) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("note_id IN (?)", tx.Model(&entity.Note{}).Select("id").Where("user_id = ?", user.ID)).
			Delete(&entity.NoteTag{}).Error
		if err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&entity.Note{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}
