package service

import (
	"strconv"

	"noteweaver/internal/domain/entity"
	"noteweaver/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

// UserLoader resolves a persisted session identifier back into a User.
// The auth middleware calls it once per authenticated request; it never
// mutates user state.
type UserLoader struct {
	UserRepo UserRepository
}

func NewUserLoader(userRepo UserRepository) *UserLoader {
	return &UserLoader{UserRepo: userRepo}
}

// LoadUser parses raw as an integer primary key and looks the user up.
// A malformed identifier is a client error, not a crash; an unknown id
// yields (nil, nil).
func (l *UserLoader) LoadUser(raw string) (*entity.User, apierror.ErrorResponse) {
	id, perr := ParseID(raw)
	if perr != nil {
		return nil, perr
	}

	user, err := l.UserRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to load user %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return user, nil
}

// ParseID parses a route or session identifier into a positive integer key.
func ParseID(raw string) (int, apierror.ErrorResponse) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, apierror.InvalidIDError
	}
	return id, nil
}
