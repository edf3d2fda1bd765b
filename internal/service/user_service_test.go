package service

import (
	"net/http"
	"testing"

	"noteweaver/internal/auth"
	"noteweaver/internal/utils/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	env := newTestEnv(t)

	resp, apierr := env.users.Register(&RegisterRequest{
		Username: "margaret",
		Email:    "margaret@example.com",
		Password: "Sup3r-Secret!",
	})
	require.Nil(t, apierr)
	assert.Equal(t, "margaret", resp.Username)
	assert.Equal(t, "United States", resp.Country)
	assert.Equal(t, "America/New_York", resp.TimeZone)
	assert.NotEmpty(t, resp.CreatedAt)

	stored, err := env.userRepo.FindByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	// Never the plaintext, and it must verify.
	assert.NotEqual(t, "Sup3r-Secret!", stored.PasswordHash)
	ok, err := auth.VerifyPassword(stored.PasswordHash, "Sup3r-Secret!")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserService_RegisterKeepsExplicitLocale(t *testing.T) {
	env := newTestEnv(t)

	resp, apierr := env.users.Register(&RegisterRequest{
		Username: "margaret",
		Email:    "margaret@example.com",
		Password: "Sup3r-Secret!",
		Country:  "Portugal",
		TimeZone: "Europe/Lisbon",
	})
	require.Nil(t, apierr)
	assert.Equal(t, "Portugal", resp.Country)
	assert.Equal(t, "Europe/Lisbon", resp.TimeZone)
}

func TestUserService_RegisterDuplicates(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "margaret", "margaret@example.com")

	_, apierr := env.users.Register(&RegisterRequest{
		Username: "margaret",
		Email:    "fresh@example.com",
		Password: "Sup3r-Secret!",
	})
	require.NotNil(t, apierr)
	assert.Equal(t, apierror.UsernameTakenError, apierr)

	_, apierr = env.users.Register(&RegisterRequest{
		Username: "fresh",
		Email:    "margaret@example.com",
		Password: "Sup3r-Secret!",
	})
	require.NotNil(t, apierr)
	assert.Equal(t, apierror.EmailTakenError, apierr)
}

func TestUserService_RegisterWeakPassword(t *testing.T) {
	env := newTestEnv(t)

	_, apierr := env.users.Register(&RegisterRequest{
		Username: "margaret",
		Email:    "margaret@example.com",
		Password: "alllowercase",
	})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())
}

func TestUserService_Login(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "margaret", "margaret@example.com")

	resp, apierr := env.users.Login(&UserLoginRequest{
		Email:    "margaret@example.com",
		Password: "Sup3r-Secret!",
	})
	require.Nil(t, apierr)
	require.NotEmpty(t, resp.AccessToken)

	subject, err := env.tokenIssuer.Parse(resp.AccessToken)
	require.NoError(t, err)

	user, lerr := env.loader.LoadUser(subject)
	require.Nil(t, lerr)
	require.NotNil(t, user)
	assert.Equal(t, "margaret", user.Username)
}

func TestUserService_LoginMismatch(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "margaret", "margaret@example.com")

	// Wrong password and unknown email produce the same error.
	_, apierr := env.users.Login(&UserLoginRequest{
		Email:    "margaret@example.com",
		Password: "Wrong-Secret1!",
	})
	assert.Equal(t, apierror.CredentialsMismatchError, apierr)

	_, apierr = env.users.Login(&UserLoginRequest{
		Email:    "ghost@example.com",
		Password: "Sup3r-Secret!",
	})
	assert.Equal(t, apierror.CredentialsMismatchError, apierr)
}

func TestUserService_LoginCorruptHash(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "margaret", "margaret@example.com")

	user.PasswordHash = "not-an-encoded-hash"
	require.NoError(t, env.userRepo.Save(user))

	_, apierr := env.users.Login(&UserLoginRequest{
		Email:    "margaret@example.com",
		Password: "Sup3r-Secret!",
	})
	assert.Equal(t, apierror.InternalServerError, apierr)
}

func TestUserService_ChangePassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "margaret", "margaret@example.com")

	apierr := env.users.ChangePassword(user, &ChangePasswordRequest{
		Current: "Wrong-Secret1!",
		New:     "N3w-Secret!!",
	})
	assert.Equal(t, apierror.PasswordMismatchError, apierr)

	apierr = env.users.ChangePassword(user, &ChangePasswordRequest{
		Current: "Sup3r-Secret!",
		New:     "N3w-Secret!!",
	})
	require.Nil(t, apierr)

	_, loginErr := env.users.Login(&UserLoginRequest{
		Email:    "margaret@example.com",
		Password: "N3w-Secret!!",
	})
	assert.Nil(t, loginErr)
}

func TestUserService_UpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "margaret", "margaret@example.com")

	country := "Canada"
	resp, apierr := env.users.UpdateProfile(user, itoa(user.ID), &UpdateProfileRequest{Country: &country})
	require.Nil(t, apierr)
	assert.Equal(t, "Canada", resp.Country)
}

func TestUserService_UpdateProfileForbiddenForOthers(t *testing.T) {
	env := newTestEnv(t)
	actor := env.register(t, "margaret", "margaret@example.com")
	target := env.register(t, "bystander", "bystander@example.com")

	country := "Canada"
	_, apierr := env.users.UpdateProfile(actor, itoa(target.ID), &UpdateProfileRequest{Country: &country})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusForbidden, apierr.Code())
}

func TestUserService_UpdateProfileDuplicates(t *testing.T) {
	env := newTestEnv(t)
	actor := env.register(t, "margaret", "margaret@example.com")
	other := env.register(t, "bystander", "bystander@example.com")

	// Taking another user's email must not be blamed on the username,
	// even though the actor's own username row exists.
	email := other.Email
	_, apierr := env.users.UpdateProfile(actor, itoa(actor.ID), &UpdateProfileRequest{Email: &email})
	require.NotNil(t, apierr)
	assert.Equal(t, apierror.EmailTakenError, apierr)

	username := other.Username
	_, apierr = env.users.UpdateProfile(actor, itoa(actor.ID), &UpdateProfileRequest{Username: &username})
	require.NotNil(t, apierr)
	assert.Equal(t, apierror.UsernameTakenError, apierr)
}

func TestUserService_DeleteUser(t *testing.T) {
	env := newTestEnv(t)
	actor := env.register(t, "margaret", "margaret@example.com")
	other := env.register(t, "bystander", "bystander@example.com")

	apierr := env.users.DeleteUser(actor, itoa(other.ID))
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusForbidden, apierr.Code())

	apierr = env.users.DeleteUser(actor, itoa(actor.ID))
	require.Nil(t, apierr)

	found, err := env.userRepo.FindByID(actor.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}
