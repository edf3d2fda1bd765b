package service

import (
	"strconv"
	"testing"
	"time"

	"noteweaver/internal/auth"
	"noteweaver/internal/contract"
	"noteweaver/internal/domain/entity"
	"noteweaver/internal/domain/policy"
	"noteweaver/internal/domain/sqlite/repository"
	"noteweaver/internal/utils/validators"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	userRepo    *repository.DefaultUserRepository
	noteRepo    *repository.DefaultNoteRepository
	tagRepo     *repository.DefaultTagRepository
	users       *UserService
	notes       *DefaultNoteService
	loader      *UserLoader
	tokenIssuer *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&entity.User{}, &entity.Note{}, &entity.Tag{}, &entity.NoteTag{})
	require.NoError(t, err)

	validate := validator.New()
	require.NoError(t, validate.RegisterValidation("hasupper", validators.HasUpper))
	require.NoError(t, validate.RegisterValidation("haslower", validators.HasLower))
	require.NoError(t, validate.RegisterValidation("hasdigit", validators.HasDigit))
	require.NoError(t, validate.RegisterValidation("hasspecial", validators.HasSpecial))
	require.NoError(t, validate.RegisterValidation("nodupes", validators.NoDupes))
	require.NoError(t, validate.RegisterValidation("nospaces", validators.NoWhiteSpaces))

	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	tagRepo := repository.NewTagRepository(db)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)

	return &testEnv{
		db:          db,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		tagRepo:     tagRepo,
		users:       NewUserService(userRepo, validate, tokens, policy.NewUserPolicy()),
		notes:       NewNoteService(noteRepo, tagRepo, policy.NewNotePolicy(), validate),
		loader:      NewUserLoader(userRepo),
		tokenIssuer: tokens,
	}
}

func (e *testEnv) register(t *testing.T, username, email string) *entity.User {
	t.Helper()

	resp, apierr := e.users.Register(&RegisterRequest{
		Username: username,
		Email:    email,
		Password: "Sup3r-Secret!",
	})
	require.Nil(t, apierr)

	user, err := e.userRepo.FindByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func (e *testEnv) createNote(t *testing.T, actor *entity.User, title string, tags ...string) *contract.NoteResponse {
	t.Helper()

	resp, apierr := e.notes.CreateNote(actor, &contract.CreateNoteRequest{
		Title:   title,
		Content: "content of " + title,
		Tags:    tags,
	})
	require.Nil(t, apierr)
	return resp
}

func itoa(id int) string {
	return strconv.Itoa(id)
}
