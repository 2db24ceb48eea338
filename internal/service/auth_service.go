package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"reviewhub/internal/auth"
	"reviewhub/internal/dto"
	"reviewhub/internal/mailer"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
	"reviewhub/internal/validate"
)

type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error)
	IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	codes    *auth.CodeIssuer
	tokens   *auth.TokenManager
	mail     mailer.Mailer
}

func NewAuthService(
	userRepo repository.UserRepository,
	codes *auth.CodeIssuer,
	tokens *auth.TokenManager,
	mail mailer.Mailer,
) AuthService {
	return &authService{
		userRepo: userRepo,
		codes:    codes,
		tokens:   tokens,
		mail:     mail,
	}
}

// Signup registers a user and mails a confirmation code. Registering again
// with the exact same (username, email) pair succeeds idempotently: the
// input is echoed back, no duplicate row is created and no new code is sent.
func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	if _, err := s.userRepo.FindByUsernameAndEmail(ctx, req.Username, req.Email); err == nil {
		return &dto.SignupResponse{Username: req.Username, Email: req.Email}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fieldErrs := validate.FieldErrors{}
	if err := validate.Username(req.Username); err != nil {
		fieldErrs.Add("username", err.Error())
	} else if err := validate.ReservedUsername(req.Username); err != nil {
		fieldErrs.Add("username", err.Error())
	}
	if err := validate.Email(req.Email); err != nil {
		fieldErrs.Add("email", err.Error())
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	// Collisions with a *different* existing identity are validation errors;
	// the pair-match case was handled above.
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		fieldErrs.Add("username", "user with this username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		fieldErrs.Add("email", "user with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	code := s.codes.Issue(user)
	// fire-and-forget: delivery failures are not surfaced to the caller
	s.mail.Send(
		user.Email,
		"Confirmation code",
		fmt.Sprintf("Your confirmation code for obtaining a token: %s", code),
	)

	return &dto.SignupResponse{Username: user.Username, Email: user.Email}, nil
}

// IssueToken exchanges a confirmation code for a bearer access token. The
// last-login update changes the state fingerprint the code was derived from,
// so a code can be redeemed only once.
func (s *authService) IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !s.codes.Check(user, req.ConfirmationCode) {
		fieldErrs := validate.FieldErrors{}
		fieldErrs.Add("confirmation_code", "invalid confirmation code")
		return nil, fieldErrs
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Mint(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: token}, nil
}
