package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
	"reviewhub/internal/validate"
)

type GenreService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse, error)
	Create(ctx context.Context, principal *models.User, req dto.CreateGenreDTO) (*dto.GenreResponse, error)
	Delete(ctx context.Context, principal *models.User, slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse, error) {
	genres, total, err := s.genreRepo.GetAll(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GenreResponse, 0, len(genres))
	for i := range genres {
		responses = append(responses, *dto.FromModelToGenreResponse(&genres[i]))
	}
	return dto.NewPaginatedResponse(responses, total, page, pageSize), nil
}

func (s *genreService) Create(ctx context.Context, principal *models.User, req dto.CreateGenreDTO) (*dto.GenreResponse, error) {
	if err := requireCatalogWrite(principal); err != nil {
		return nil, err
	}

	fieldErrs := validate.FieldErrors{}
	if _, err := s.genreRepo.FindBySlug(ctx, req.Slug); err == nil {
		fieldErrs.Add("slug", "genre with this slug already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	genre := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		if repository.IsUniqueViolation(err) {
			fieldErrs.Add("slug", "genre with this slug already exists")
			return nil, fieldErrs
		}
		return nil, err
	}

	return dto.FromModelToGenreResponse(genre), nil
}

func (s *genreService) Delete(ctx context.Context, principal *models.User, slug string) error {
	if err := requireCatalogWrite(principal); err != nil {
		return err
	}

	if err := s.genreRepo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}
