package service

import (
	"errors"

	"noteweaver/internal/auth"
	"noteweaver/internal/domain/entity"
	"noteweaver/internal/domain/policy"
	"noteweaver/internal/domain/sqlite/repository"
	"noteweaver/internal/utils"
	"noteweaver/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

const (
	defaultCountry  = "United States"
	defaultTimeZone = "America/New_York"
)

type UserRepository interface {
	Create(user *entity.User) error
	FindByID(id int) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	FindByUsername(username string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	Save(user *entity.User) error
	Delete(user *entity.User) error
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=80,nospaces"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64,hasspecial,hasdigit,hasupper,haslower"`
	Country  string `json:"country" validate:"omitempty,max=80"`
	TimeZone string `json:"time_zone" validate:"omitempty,max=64"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=2,max=80,nospaces"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Country  *string `json:"country" validate:"omitempty,max=80"`
	TimeZone *string `json:"time_zone" validate:"omitempty,max=64"`
}

type ChangePasswordRequest struct {
	Current string `json:"current" validate:"required"`
	New     string `json:"new" validate:"required,min=8,max=64,hasspecial,hasdigit,hasupper,haslower"`
}

type UserResponse struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Country   string `json:"country"`
	TimeZone  string `json:"time_zone"`
	CreatedAt string `json:"created_at"`
}

type UserLoginResponse struct {
	AccessToken string `json:"access_token"`
}

type UserService struct {
	UserRepo   UserRepository
	Validate   *validator.Validate
	Tokens     *auth.TokenIssuer
	UserPolicy *policy.UserPolicy
}

func NewUserService(userRepo UserRepository, validate *validator.Validate, tokens *auth.TokenIssuer, userPolicy *policy.UserPolicy) *UserService {
	return &UserService{
		UserRepo:   userRepo,
		Validate:   validate,
		Tokens:     tokens,
		UserPolicy: userPolicy,
	}
}

// Register creates a new user with a freshly derived password hash.
// Country and time zone fall back to the platform defaults when omitted.
func (u *UserService) Register(req *RegisterRequest) (*UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	taken, err := u.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check email availability: %v", err)
		return nil, apierror.InternalServerError
	}
	if taken {
		return nil, apierror.EmailTakenError
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Country:      req.Country,
		TimeZone:     req.TimeZone,
		CreatedAt:    utils.NowUTC(),
	}
	if user.Country == "" {
		user.Country = defaultCountry
	}
	if user.TimeZone == "" {
		user.TimeZone = defaultTimeZone
	}

	if err := u.UserRepo.Create(user); err != nil {
		return nil, u.mapUniqueViolation(err, user)
	}
	return toUserResponse(user), nil
}

// Login verifies the credentials and issues a session token. A missing user
// and a wrong password yield the same error, so the response does not reveal
// which emails are registered.
func (u *UserService) Login(req *UserLoginRequest) (*UserLoginResponse, apierror.ErrorResponse) {
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.CredentialsMismatchError
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		// Corrupt stored hash, nothing the client can do about it.
		log.Errorf("stored password hash for user %d is unreadable: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	if !ok {
		return nil, apierror.CredentialsMismatchError
	}

	token, err := u.Tokens.Issue(user)
	if err != nil {
		log.Errorf("failed to issue session token: %v", err)
		return nil, apierror.InternalServerError
	}
	return &UserLoginResponse{AccessToken: token}, nil
}

func (u *UserService) GetUser(actor *entity.User, rawID string) (*UserResponse, apierror.ErrorResponse) {
	target, apierr := u.fetchByID(rawID)
	if apierr != nil {
		return nil, apierr
	}
	return toUserResponse(target), nil
}

func (u *UserService) UpdateProfile(actor *entity.User, targetRawID string, req *UpdateProfileRequest) (*UserResponse, apierror.ErrorResponse) {
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	target, apierr := u.fetchByID(targetRawID)
	if apierr != nil {
		return nil, apierr
	}

	if perr := u.UserPolicy.CanUpdateProfile(actor, target); perr != nil {
		return nil, perr
	}

	dirty := false
	setString := func(newVal *string, field *string) {
		if newVal == nil || *newVal == *field {
			return
		}
		*field = *newVal
		dirty = true
	}

	setString(req.Username, &target.Username)
	setString(req.Email, &target.Email)
	setString(req.Country, &target.Country)
	setString(req.TimeZone, &target.TimeZone)

	if dirty {
		if err := u.UserRepo.Save(target); err != nil {
			return nil, u.mapUniqueViolation(err, target)
		}
	}
	return toUserResponse(target), nil
}

// ChangePassword replaces the stored hash after verifying the current
// password. The old hash is overwritten irreversibly.
func (u *UserService) ChangePassword(actor *entity.User, req *ChangePasswordRequest) apierror.ErrorResponse {
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	ok, err := auth.VerifyPassword(actor.PasswordHash, req.Current)
	if err != nil {
		log.Errorf("stored password hash for user %d is unreadable: %v", actor.ID, err)
		return apierror.InternalServerError
	}

	if !ok {
		return apierror.PasswordMismatchError
	}

	hash, err := auth.HashPassword(req.New)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return apierror.InternalServerError
	}

	actor.PasswordHash = hash
	if err := u.UserRepo.Save(actor); err != nil {
		log.Errorf("failed to update password for user %d: %v", actor.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

// DeleteUser removes the account; the repository cascades over the user's
// notes and their tag associations.
func (u *UserService) DeleteUser(actor *entity.User, targetRawID string) apierror.ErrorResponse {
	target, apierr := u.fetchByID(targetRawID)
	if apierr != nil {
		return apierr
	}

	if perr := u.UserPolicy.CanDeleteUser(actor, target); perr != nil {
		return perr
	}

	if err := u.UserRepo.Delete(target); err != nil {
		log.Errorf("failed to delete user %d: %v", target.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (u *UserService) fetchByID(rawID string) (*entity.User, apierror.ErrorResponse) {
	id, perr := ParseID(rawID)
	if perr != nil {
		return nil, perr
	}

	user, err := u.UserRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch user %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.NotFoundError
	}
	return user, nil
}

// mapUniqueViolation decides whether a duplicate insert collided on the
// username or the email. The target's own row is skipped so an email
// collision on an unchanged username is not misattributed.
func (u *UserService) mapUniqueViolation(err error, user *entity.User) apierror.ErrorResponse {
	if !errors.Is(err, repository.ErrUniqueViolation) {
		log.Errorf("failed to persist user: %v", err)
		return apierror.InternalServerError
	}

	holder, ferr := u.UserRepo.FindByUsername(user.Username)
	if ferr == nil && holder != nil && holder.ID != user.ID {
		return apierror.UsernameTakenError
	}
	return apierror.EmailTakenError
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Country:   user.Country,
		TimeZone:  user.TimeZone,
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
	}
}
