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

type CategoryService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse, error)
	Create(ctx context.Context, principal *models.User, req dto.CreateCategoryDTO) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, principal *models.User, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse, error) {
	categories, total, err := s.categoryRepo.GetAll(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, *dto.FromModelToCategoryResponse(&categories[i]))
	}
	return dto.NewPaginatedResponse(responses, total, page, pageSize), nil
}

func (s *categoryService) Create(ctx context.Context, principal *models.User, req dto.CreateCategoryDTO) (*dto.CategoryResponse, error) {
	if err := requireCatalogWrite(principal); err != nil {
		return nil, err
	}

	fieldErrs := validate.FieldErrors{}
	if _, err := s.categoryRepo.FindBySlug(ctx, req.Slug); err == nil {
		fieldErrs.Add("slug", "category with this slug already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		// the unique index wins any race past the pre-check
		if repository.IsUniqueViolation(err) {
			fieldErrs.Add("slug", "category with this slug already exists")
			return nil, fieldErrs
		}
		return nil, err
	}

	return dto.FromModelToCategoryResponse(category), nil
}

func (s *categoryService) Delete(ctx context.Context, principal *models.User, slug string) error {
	if err := requireCatalogWrite(principal); err != nil {
		return err
	}

	if err := s.categoryRepo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		if repository.IsForeignKeyViolation(err) {
			return ErrCategoryInUse
		}
		return err
	}
	return nil
}

// requireCatalogWrite distinguishes the anonymous (401) and insufficient-role
// (403) denials for category/genre/title writes.
func requireCatalogWrite(principal *models.User) error {
	if principal == nil {
		return ErrUnauthorized
	}
	if !permissions.CanWriteCatalog(principal) {
		return ErrForbidden
	}
	return nil
}
