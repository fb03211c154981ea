package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/vocabflash/internal/db"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
	"github.com/vytor/vocabflash/internal/repository/sqlite"
	"github.com/vytor/vocabflash/internal/testutil"
)

type UserRepositorySuite struct {
	suite.Suite
	db   *db.DB
	repo repository.UserRepository
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewUserRepository(s.db.DB)
}

func (s *UserRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *UserRepositorySuite) TestCreateAndGet() {
	ctx := context.Background()

	id, err := s.repo.Create(ctx, models.User{
		Email:        "Ada@Example.com",
		PasswordHash: "hash",
		Name:         "Ada",
		Settings:     models.DefaultUserSettings(),
	})
	s.Require().NoError(err)

	u, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(u)
	s.Equal("ada@example.com", u.Email)
	s.Equal(models.RoleUser, u.Role)
	s.Equal(models.DefaultUserSettings(), u.Settings)
	s.Equal(models.UserStats{}, u.Stats)

	byEmail, err := s.repo.GetByEmail(ctx, "ADA@example.com ")
	s.Require().NoError(err)
	s.Require().NotNil(byEmail)
	s.Equal(id, byEmail.ID)
}

func (s *UserRepositorySuite) TestCreateDuplicateEmail() {
	ctx := context.Background()
	u := models.User{Email: "ada@example.com", PasswordHash: "hash", Name: "Ada", Settings: models.DefaultUserSettings()}

	_, err := s.repo.Create(ctx, u)
	s.Require().NoError(err)

	_, err = s.repo.Create(ctx, u)
	s.ErrorIs(err, repository.ErrDuplicate)
}

func (s *UserRepositorySuite) TestGetMissing() {
	u, err := s.repo.Get(context.Background(), 42)
	s.NoError(err)
	s.Nil(u)
}

func (s *UserRepositorySuite) TestUpdateSettings() {
	ctx := context.Background()
	id := testutil.InsertUser(s.T(), s.db, "ada@example.com")

	settings := models.UserSettings{
		DailyGoal:            50,
		TargetLevels:         []models.Level{models.LevelB1, models.LevelB2},
		NewWordLimit:         25,
		NotificationsEnabled: false,
	}
	s.Require().NoError(s.repo.UpdateSettings(ctx, id, settings))

	u, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal(settings, u.Settings)

	s.ErrorIs(s.repo.UpdateSettings(ctx, 999, settings), sql.ErrNoRows)
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}
