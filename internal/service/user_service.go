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

type UserService interface {
	List(ctx context.Context, principal *models.User, search string, page, pageSize int) (*dto.PaginatedResponse, error)
	Create(ctx context.Context, principal *models.User, req dto.CreateUserDTO) (*dto.UserResponse, error)
	GetByUsername(ctx context.Context, principal *models.User, username string) (*dto.UserResponse, error)
	Update(ctx context.Context, principal *models.User, username string, req dto.UpdateUserDTO) (*dto.UserResponse, error)
	Delete(ctx context.Context, principal *models.User, username string) error
	GetProfile(ctx context.Context, principal *models.User) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, principal *models.User, req dto.UpdateProfileDTO) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func requireUserAdmin(principal *models.User) error {
	if principal == nil {
		return ErrUnauthorized
	}
	if !permissions.CanAdministerUsers(principal) {
		return ErrForbidden
	}
	return nil
}

func validRole(role string) bool {
	return role == models.RoleUser || role == models.RoleModerator || role == models.RoleAdmin
}

// checkIdentity validates username/email syntax and uniqueness against users
// other than excludeID. Results accumulate in fieldErrs.
func (s *userService) checkIdentity(ctx context.Context, username, email, excludeID string, fieldErrs validate.FieldErrors) error {
	if username != "" {
		if err := validate.Username(username); err != nil {
			fieldErrs.Add("username", err.Error())
		} else if existing, err := s.userRepo.FindByUsername(ctx, username); err == nil {
			if existing.ID != excludeID {
				fieldErrs.Add("username", "user with this username already exists")
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if email != "" {
		if err := validate.Email(email); err != nil {
			fieldErrs.Add("email", err.Error())
		} else if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil {
			if existing.ID != excludeID {
				fieldErrs.Add("email", "user with this email already exists")
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return nil
}

func (s *userService) List(ctx context.Context, principal *models.User, search string, page, pageSize int) (*dto.PaginatedResponse, error) {
	if err := requireUserAdmin(principal); err != nil {
		return nil, err
	}

	users, total, err := s.userRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToUserResponse(&users[i]))
	}
	return dto.NewPaginatedResponse(responses, total, page, pageSize), nil
}

func (s *userService) Create(ctx context.Context, principal *models.User, req dto.CreateUserDTO) (*dto.UserResponse, error) {
	if err := requireUserAdmin(principal); err != nil {
		return nil, err
	}

	fieldErrs := validate.FieldErrors{}
	if req.Username == "" {
		fieldErrs.Add("username", "username is required")
	}
	if req.Email == "" {
		fieldErrs.Add("email", "email is required")
	}
	if req.Role != "" && !validRole(req.Role) {
		fieldErrs.Add("role", "role must be one of: user, moderator, admin")
	}
	if err := s.checkIdentity(ctx, req.Username, req.Email, "", fieldErrs); err != nil {
		return nil, err
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      req.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) GetByUsername(ctx context.Context, principal *models.User, username string) (*dto.UserResponse, error) {
	if err := requireUserAdmin(principal); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, principal *models.User, username string, req dto.UpdateUserDTO) (*dto.UserResponse, error) {
	if err := requireUserAdmin(principal); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	fieldErrs := validate.FieldErrors{}
	newUsername, newEmail := "", ""
	if req.Username != nil {
		newUsername = *req.Username
	}
	if req.Email != nil {
		newEmail = *req.Email
	}
	if req.Role != nil && !validRole(*req.Role) {
		fieldErrs.Add("role", "role must be one of: user, moderator, admin")
	}
	if err := s.checkIdentity(ctx, newUsername, newEmail, user.ID, fieldErrs); err != nil {
		return nil, err
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, principal *models.User, username string) error {
	if err := requireUserAdmin(principal); err != nil {
		return err
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.userRepo.Delete(ctx, user.ID)
}

func (s *userService) GetProfile(ctx context.Context, principal *models.User) (*dto.UserResponse, error) {
	if !permissions.CanAccessProfile(principal) {
		return nil, ErrUnauthorized
	}
	return dto.FromModelToUserResponse(principal), nil
}

// UpdateProfile applies a partial update to the principal's own row. The DTO
// carries no role field, so a caller can never change their own role here.
func (s *userService) UpdateProfile(ctx context.Context, principal *models.User, req dto.UpdateProfileDTO) (*dto.UserResponse, error) {
	if !permissions.CanAccessProfile(principal) {
		return nil, ErrUnauthorized
	}

	fieldErrs := validate.FieldErrors{}
	newUsername, newEmail := "", ""
	if req.Username != nil {
		newUsername = *req.Username
	}
	if req.Email != nil {
		newEmail = *req.Email
	}
	if err := s.checkIdentity(ctx, newUsername, newEmail, principal.ID, fieldErrs); err != nil {
		return nil, err
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	if req.Username != nil {
		principal.Username = *req.Username
	}
	if req.Email != nil {
		principal.Email = *req.Email
	}
	if req.FirstName != nil {
		principal.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		principal.LastName = *req.LastName
	}
	if req.Bio != nil {
		principal.Bio = *req.Bio
	}

	if err := s.userRepo.Save(ctx, principal); err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(principal), nil
}
