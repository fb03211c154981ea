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

type WordRepositorySuite struct {
	suite.Suite
	db   *db.DB
	repo repository.WordRepository
}

func (s *WordRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewWordRepository(s.db.DB)
}

func (s *WordRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func word(w string, level models.Level) models.Word {
	return models.Word{
		Word:             w,
		Definition:       "definition of " + w,
		Meaning:          "meaning of " + w,
		ExampleSentences: models.StringList{"An example with " + w + "."},
		Level:            level,
	}
}

func (s *WordRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	id, err := s.repo.Insert(ctx, word("apple", models.LevelA1))
	s.Require().NoError(err)
	s.Greater(id, int64(0))

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("apple", got.Word)
	s.Equal(models.LevelA1, got.Level)
	s.Equal(models.StringList{"An example with apple."}, got.ExampleSentences)
	s.Nil(got.CreatedBy)
	s.False(got.CreatedAt.IsZero())
}

func (s *WordRepositorySuite) TestGetMissingReturnsNil() {
	got, err := s.repo.Get(context.Background(), 999)
	s.NoError(err)
	s.Nil(got)
}

func (s *WordRepositorySuite) TestInsertDuplicate() {
	ctx := context.Background()

	_, err := s.repo.Insert(ctx, word("apple", models.LevelA1))
	s.Require().NoError(err)

	_, err = s.repo.Insert(ctx, word("apple", models.LevelA1))
	s.ErrorIs(err, repository.ErrDuplicate)

	// Same headword at another level is a different entry.
	_, err = s.repo.Insert(ctx, word("apple", models.LevelB1))
	s.NoError(err)
}

func (s *WordRepositorySuite) TestInsertBatchSkipsDuplicates() {
	ctx := context.Background()
	_, err := s.repo.Insert(ctx, word("cat", models.LevelA1))
	s.Require().NoError(err)

	res, err := s.repo.InsertBatch(ctx, []models.Word{
		word("cat", models.LevelA1),
		word("dog", models.LevelA1),
		word("dog", models.LevelA1),
		word("horse", models.LevelA2),
	})
	s.Require().NoError(err)
	s.Equal(4, res.Total)
	s.Equal(2, res.Inserted)
	s.Equal(2, res.Skipped)

	count, err := s.repo.Count(ctx, models.WordFilter{})
	s.Require().NoError(err)
	s.Equal(3, count)
}

func (s *WordRepositorySuite) TestListFilterAndPaginate() {
	ctx := context.Background()
	for _, w := range []models.Word{
		word("apple", models.LevelA1),
		word("banana", models.LevelA1),
		word("negotiate", models.LevelB2),
		word("pineapple", models.LevelA2),
	} {
		_, err := s.repo.Insert(ctx, w)
		s.Require().NoError(err)
	}

	a1, err := s.repo.List(ctx, models.WordFilter{Level: models.LevelA1})
	s.Require().NoError(err)
	s.Len(a1, 2)

	apples, err := s.repo.List(ctx, models.WordFilter{Search: "APPLE"})
	s.Require().NoError(err)
	s.Len(apples, 2)

	total, err := s.repo.Count(ctx, models.WordFilter{Search: "apple"})
	s.Require().NoError(err)
	s.Equal(2, total)

	page1, err := s.repo.List(ctx, models.WordFilter{Limit: 3})
	s.Require().NoError(err)
	s.Len(page1, 3)
	page2, err := s.repo.List(ctx, models.WordFilter{Limit: 3, Offset: 3})
	s.Require().NoError(err)
	s.Len(page2, 1)
	for _, w := range page1 {
		s.NotEqual(page2[0].ID, w.ID)
	}
}

func (s *WordRepositorySuite) TestUpdateAndDelete() {
	ctx := context.Background()
	id, err := s.repo.Insert(ctx, word("run", models.LevelA1))
	s.Require().NoError(err)

	w, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	w.Definition = "move fast on foot"
	w.Level = models.LevelA2
	s.Require().NoError(s.repo.Update(ctx, *w))

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal("move fast on foot", got.Definition)
	s.Equal(models.LevelA2, got.Level)

	s.Require().NoError(s.repo.Delete(ctx, id))
	s.ErrorIs(s.repo.Delete(ctx, id), sql.ErrNoRows)
	s.ErrorIs(s.repo.Update(ctx, *w), sql.ErrNoRows)
}

func (s *WordRepositorySuite) TestFindByIDs() {
	ctx := context.Background()
	a, _ := s.repo.Insert(ctx, word("a", models.LevelA1))
	_, _ = s.repo.Insert(ctx, word("b", models.LevelA1))
	c, _ := s.repo.Insert(ctx, word("c", models.LevelA1))

	words, err := s.repo.FindByIDs(ctx, []int64{a, c, 12345})
	s.Require().NoError(err)
	s.Len(words, 2)

	none, err := s.repo.FindByIDs(ctx, nil)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *WordRepositorySuite) TestUnseenIDsExcludesStudiedWords() {
	ctx := context.Background()
	userID := testutil.InsertUser(s.T(), s.db, "learner@example.com")
	otherID := testutil.InsertUser(s.T(), s.db, "other@example.com")
	seen := testutil.InsertWord(s.T(), s.db, "seen", models.LevelA1)
	unseen := testutil.InsertWord(s.T(), s.db, "unseen", models.LevelA1)
	other := testutil.InsertWord(s.T(), s.db, "other", models.LevelB1)

	_, err := s.db.ExecContext(ctx, `
INSERT INTO user_progress (user_id, word_id, next_review_at, created_at, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP),
       (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
`, userID, seen, otherID, unseen)
	s.Require().NoError(err)

	ids, err := s.repo.UnseenIDs(ctx, userID, []models.Level{models.LevelA1})
	s.Require().NoError(err)
	s.Equal([]int64{unseen}, ids)

	all, err := s.repo.UnseenIDs(ctx, userID, models.AllLevels)
	s.Require().NoError(err)
	s.ElementsMatch([]int64{unseen, other}, all)
}

func TestWordRepositorySuite(t *testing.T) {
	suite.Run(t, new(WordRepositorySuite))
}
