package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/permissions"
	"reviewhub/internal/repository"
	"reviewhub/internal/validate"
)

type ReviewService interface {
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, principal *models.User, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Update(ctx context.Context, principal *models.User, titleID, reviewID int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, principal *models.User, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
	}
}

// requireTitle resolves the path-embedded parent before any nested operation.
func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

// requireReview resolves a review and checks it belongs to the title in the path.
func (s *reviewService) requireReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedResponse, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPaginatedResponse(responses, total, page, pageSize), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.requireReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Create(ctx context.Context, principal *models.User, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if !permissions.CanCreateContent(principal) {
		return nil, ErrUnauthorized
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	fieldErrs := validate.FieldErrors{}
	if err := validate.Score(req.Score); err != nil {
		fieldErrs.Add("score", err.Error())
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	// Pre-check is only for the happy path; the composite unique index is the
	// authoritative guard against the race between two concurrent POSTs.
	exists, err := s.reviewRepo.ExistsByAuthorAndTitle(ctx, principal.ID, titleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrReviewExists
	}

	review := &models.Review{
		Text:     req.Text,
		Score:    req.Score,
		AuthorID: principal.ID,
		TitleID:  titleID,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrReviewExists
		}
		return nil, err
	}

	// Reload with author data
	review, err = s.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Update(ctx context.Context, principal *models.User, titleID, reviewID int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	if principal == nil {
		return nil, ErrUnauthorized
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.requireReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanModifyContent(principal, review.AuthorID) {
		return nil, ErrForbidden
	}

	fieldErrs := validate.FieldErrors{}
	if req.Score != nil {
		if err := validate.Score(*req.Score); err != nil {
			fieldErrs.Add("score", err.Error())
		}
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Delete(ctx context.Context, principal *models.User, titleID, reviewID int64) error {
	if principal == nil {
		return ErrUnauthorized
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return err
	}
	review, err := s.requireReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if !permissions.CanModifyContent(principal, review.AuthorID) {
		return ErrForbidden
	}

	return s.reviewRepo.Delete(ctx, reviewID)
}
