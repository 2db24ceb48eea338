package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/validate"
)

func reviewFixture() (*MockReviewRepository, *MockTitleRepository, ReviewService) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	return reviewRepo, titleRepo, NewReviewService(reviewRepo, titleRepo)
}

func expectTitle(titleRepo *MockTitleRepository, id int64) {
	titleRepo.On("GetByID", mock.Anything, id).Return(&models.Title{ID: id, Name: "Some Title"}, nil)
}

func TestCreateReview_Success(t *testing.T) {
	reviewRepo, titleRepo, svc := reviewFixture()
	author := &models.User{ID: "u-1", Username: "alice", Role: models.RoleUser}

	expectTitle(titleRepo, 7)
	reviewRepo.On("ExistsByAuthorAndTitle", mock.Anything, "u-1", int64(7)).Return(false, nil)
	reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Review).ID = 42
		}).Return(nil)
	reviewRepo.On("GetByID", mock.Anything, int64(42)).Return(&models.Review{
		ID: 42, Text: "great", Score: 9, AuthorID: "u-1", TitleID: 7,
		Author: *author,
	}, nil)

	resp, err := svc.Create(context.Background(), author, 7, dto.CreateReviewDTO{Text: "great", Score: 9})

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "alice", resp.Author)
	assert.Equal(t, 9, resp.Score)
	reviewRepo.AssertExpectations(t)
}

func TestCreateReview_AnonymousUnauthorized(t *testing.T) {
	_, _, svc := reviewFixture()

	_, err := svc.Create(context.Background(), nil, 7, dto.CreateReviewDTO{Text: "x", Score: 5})

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreateReview_UnknownTitle(t *testing.T) {
	_, titleRepo, svc := reviewFixture()
	titleRepo.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), &models.User{ID: "u-1"}, 404, dto.CreateReviewDTO{Text: "x", Score: 5})

	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestCreateReview_ScoreOutOfRange(t *testing.T) {
	_, titleRepo, svc := reviewFixture()
	expectTitle(titleRepo, 7)

	_, err := svc.Create(context.Background(), &models.User{ID: "u-1"}, 7, dto.CreateReviewDTO{Text: "x", Score: 11})

	var fieldErrs validate.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "score")
}

func TestCreateReview_SecondReviewRejected(t *testing.T) {
	reviewRepo, titleRepo, svc := reviewFixture()
	expectTitle(titleRepo, 7)
	reviewRepo.On("ExistsByAuthorAndTitle", mock.Anything, "u-1", int64(7)).Return(true, nil)

	_, err := svc.Create(context.Background(), &models.User{ID: "u-1"}, 7, dto.CreateReviewDTO{Text: "x", Score: 5})

	assert.ErrorIs(t, err, ErrReviewExists)
	reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReview_UniqueIndexWinsRace(t *testing.T) {
	reviewRepo, titleRepo, svc := reviewFixture()
	expectTitle(titleRepo, 7)
	reviewRepo.On("ExistsByAuthorAndTitle", mock.Anything, "u-1", int64(7)).Return(false, nil)
	reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).
		Return(&pgconn.PgError{Code: "23505"})

	_, err := svc.Create(context.Background(), &models.User{ID: "u-1"}, 7, dto.CreateReviewDTO{Text: "x", Score: 5})

	assert.ErrorIs(t, err, ErrReviewExists)
}

func TestGetReview_WrongTitleInPath(t *testing.T) {
	reviewRepo, titleRepo, svc := reviewFixture()
	expectTitle(titleRepo, 8)
	reviewRepo.On("GetByID", mock.Anything, int64(42)).Return(&models.Review{ID: 42, TitleID: 7}, nil)

	_, err := svc.Get(context.Background(), 8, 42)

	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestUpdateReview_AuthorCanEditOwn(t *testing.T) {
	reviewRepo, titleRepo, svc := reviewFixture()
	author := &models.User{ID: "u-1", Username: "alice", Role: models.RoleUser}
	expectTitle(titleRepo, 7)
	reviewRepo.On("GetByID", mock.Anything, int64(42)).Return(&models.Review{
		ID: 42, Text: "old", Score: 5, AuthorID: "u-1", TitleID: 7, Author: *author,
	}, nil)
	reviewRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.Review")).Return(nil)

	text := "updated"
	score := 8
	resp, err := svc.Update(context.Background(), author, 7, 42, dto.UpdateReviewDTO{Text: &text, Score: &score})

	require.NoError(t, err)
	assert.Equal(t, "updated", resp.Text)
	assert.Equal(t, 8, resp.Score)
}

func TestUpdateReview_OtherUserForbidden(t *testing.T) {
	reviewRepo, titleRepo, svc := reviewFixture()
	expectTitle(titleRepo, 7)
	reviewRepo.On("GetByID", mock.Anything, int64(42)).Return(&models.Review{
		ID: 42, AuthorID: "u-1", TitleID: 7,
	}, nil)

	text := "vandalism"
	_, err := svc.Update(context.Background(), &models.User{ID: "u-2", Role: models.RoleUser}, 7, 42, dto.UpdateReviewDTO{Text: &text})

	assert.ErrorIs(t, err, ErrForbidden)
	reviewRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDeleteReview_OtherUserForbidden(t *testing.T) {
	reviewRepo, titleRepo, svc := reviewFixture()
	expectTitle(titleRepo, 7)
	reviewRepo.On("GetByID", mock.Anything, int64(42)).Return(&models.Review{
		ID: 42, AuthorID: "u-1", TitleID: 7,
	}, nil)

	err := svc.Delete(context.Background(), &models.User{ID: "u-2", Role: models.RoleUser}, 7, 42)

	assert.ErrorIs(t, err, ErrForbidden)
	reviewRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteReview_ModeratorAllowed(t *testing.T) {
	reviewRepo, titleRepo, svc := reviewFixture()
	expectTitle(titleRepo, 7)
	reviewRepo.On("GetByID", mock.Anything, int64(42)).Return(&models.Review{
		ID: 42, AuthorID: "u-1", TitleID: 7,
	}, nil)
	reviewRepo.On("Delete", mock.Anything, int64(42)).Return(nil)

	err := svc.Delete(context.Background(), &models.User{ID: "mod-1", Role: models.RoleModerator}, 7, 42)

	require.NoError(t, err)
	reviewRepo.AssertExpectations(t)
}
