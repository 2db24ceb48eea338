package service

import "errors"

// Sentinel errors handlers translate into HTTP statuses.
var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("insufficient permissions")

	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrTitleNotFound    = errors.New("title not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrUserNotFound     = errors.New("user not found")

	// ErrReviewExists covers both the service pre-check and the storage-level
	// unique-constraint rejection; callers cannot tell which path fired.
	ErrReviewExists = errors.New("you have already reviewed this title")

	// ErrCategoryInUse is the protect-on-delete outcome.
	ErrCategoryInUse = errors.New("category is still referenced by titles")
)
