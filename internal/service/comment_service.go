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

type CommentService interface {
	ListByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(ctx context.Context, principal *models.User, titleID, reviewID int64, req dto.CreateCommentDTO) (*dto.CommentResponse, error)
	Update(ctx context.Context, principal *models.User, titleID, reviewID, commentID int64, req dto.UpdateCommentDTO) (*dto.CommentResponse, error)
	Delete(ctx context.Context, principal *models.User, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

// requireReview resolves the path parents: the review must exist and belong
// to the title named in the path.
func (s *commentService) requireReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
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

// requireComment resolves a comment and checks it belongs to the review.
func (s *commentService) requireComment(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.ReviewID != reviewID {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

func (s *commentService) ListByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PaginatedResponse, error) {
	if _, err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *dto.FromModelToCommentResponse(&comments[i]))
	}
	return dto.NewPaginatedResponse(responses, total, page, pageSize), nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	if _, err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.requireComment(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Create(ctx context.Context, principal *models.User, titleID, reviewID int64, req dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	if !permissions.CanCreateContent(principal) {
		return nil, ErrUnauthorized
	}
	if _, err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	fieldErrs := validate.FieldErrors{}
	if err := validate.CommentText(req.Text); err != nil {
		fieldErrs.Add("text", err.Error())
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	comment := &models.Comment{
		Text:     req.Text,
		AuthorID: principal.ID,
		ReviewID: reviewID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Reload with author data
	comment, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Update(ctx context.Context, principal *models.User, titleID, reviewID, commentID int64, req dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	if principal == nil {
		return nil, ErrUnauthorized
	}
	if _, err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.requireComment(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanModifyContent(principal, comment.AuthorID) {
		return nil, ErrForbidden
	}

	fieldErrs := validate.FieldErrors{}
	if req.Text != nil {
		if err := validate.CommentText(*req.Text); err != nil {
			fieldErrs.Add("text", err.Error())
		}
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}

	if err := s.commentRepo.Save(ctx, comment); err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Delete(ctx context.Context, principal *models.User, titleID, reviewID, commentID int64) error {
	if principal == nil {
		return ErrUnauthorized
	}
	if _, err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return err
	}
	comment, err := s.requireComment(ctx, reviewID, commentID)
	if err != nil {
		return err
	}
	if !permissions.CanModifyContent(principal, comment.AuthorID) {
		return ErrForbidden
	}

	return s.commentRepo.Delete(ctx, commentID)
}
