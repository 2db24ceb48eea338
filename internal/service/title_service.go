package service

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"

	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
	"reviewhub/internal/validate"
)

type TitleService interface {
	List(ctx context.Context, filters dto.TitleFilters) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, principal *models.User, req dto.CreateTitleDTO) (*dto.TitleResponse, error)
	Update(ctx context.Context, principal *models.User, id int64, req dto.UpdateTitleDTO) (*dto.TitleResponse, error)
	Delete(ctx context.Context, principal *models.User, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
	}
}

// roundedRating converts a mean score to the public rating value. Ties round
// half away from zero (math.Round).
func roundedRating(avg *float64) *int {
	if avg == nil {
		return nil
	}
	rating := int(math.Round(*avg))
	return &rating
}

func (s *titleService) List(ctx context.Context, filters dto.TitleFilters) (*dto.PaginatedResponse, error) {
	titles, total, err := s.titleRepo.GetAll(ctx,
		filters.Name, filters.Year, filters.CategorySlug, filters.GenreSlug,
		filters.Page, filters.PageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(titles))
	for i := range titles {
		ids = append(ids, titles[i].ID)
	}
	averages, err := s.titleRepo.AverageScores(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		var avg *float64
		if value, ok := averages[titles[i].ID]; ok {
			avg = &value
		}
		responses = append(responses, *dto.FromModelToTitleResponse(&titles[i], roundedRating(avg)))
	}
	return dto.NewPaginatedResponse(responses, total, filters.Page, filters.PageSize), nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	avg, err := s.titleRepo.AverageScore(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(title, roundedRating(avg)), nil
}

// resolveCategory maps a slug to its row, reporting a field error when absent.
func (s *titleService) resolveCategory(ctx context.Context, slug string, fieldErrs validate.FieldErrors) (*models.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fieldErrs.Add("category", "category with this slug does not exist")
			return nil, nil
		}
		return nil, err
	}
	return category, nil
}

// resolveGenres maps slugs to rows, reporting a field error for any miss.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string, fieldErrs validate.FieldErrors) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	genres, err := s.genreRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		found := make(map[string]bool, len(genres))
		for i := range genres {
			found[genres[i].Slug] = true
		}
		for _, slug := range slugs {
			if !found[slug] {
				fieldErrs.Add("genre", "genre with slug "+slug+" does not exist")
			}
		}
	}
	return genres, nil
}

func (s *titleService) Create(ctx context.Context, principal *models.User, req dto.CreateTitleDTO) (*dto.TitleResponse, error) {
	if err := requireCatalogWrite(principal); err != nil {
		return nil, err
	}

	fieldErrs := validate.FieldErrors{}
	if err := validate.Year(req.Year); err != nil {
		fieldErrs.Add("year", err.Error())
	}

	category, err := s.resolveCategory(ctx, req.Category, fieldErrs)
	if err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(ctx, req.Genres, fieldErrs)
	if err != nil {
		return nil, err
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  category.ID,
		Category:    *category,
		Genres:      genres,
	}
	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}

	// a fresh title has no reviews, so no rating
	return dto.FromModelToTitleResponse(title, nil), nil
}

func (s *titleService) Update(ctx context.Context, principal *models.User, id int64, req dto.UpdateTitleDTO) (*dto.TitleResponse, error) {
	if err := requireCatalogWrite(principal); err != nil {
		return nil, err
	}

	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	fieldErrs := validate.FieldErrors{}
	if req.Year != nil {
		if err := validate.Year(*req.Year); err != nil {
			fieldErrs.Add("year", err.Error())
		}
	}

	var category *models.Category
	if req.Category != nil {
		category, err = s.resolveCategory(ctx, *req.Category, fieldErrs)
		if err != nil {
			return nil, err
		}
	}
	var genres []models.Genre
	if req.Genres != nil {
		genres, err = s.resolveGenres(ctx, *req.Genres, fieldErrs)
		if err != nil {
			return nil, err
		}
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if category != nil {
		title.CategoryID = category.ID
		title.Category = *category
	}

	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}
	if req.Genres != nil {
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
		title.Genres = genres
	}

	avg, err := s.titleRepo.AverageScore(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(title, roundedRating(avg)), nil
}

func (s *titleService) Delete(ctx context.Context, principal *models.User, id int64) error {
	if err := requireCatalogWrite(principal); err != nil {
		return err
	}

	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}
