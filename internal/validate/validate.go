package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

const (
	MaxUsernameLen = 150
	MaxEmailLen    = 254
	MaxCommentLen  = 1200

	MinScore = 1
	MaxScore = 10
)

// usernamePattern requires the whole username to consist of word characters
// and . @ + - (the full-string form of the usual username charset).
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// FieldErrors collects validation failures keyed by field name. It is the
// shape returned to clients on 400 responses.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, messages := range fe {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(messages, "; ")))
	}
	return strings.Join(parts, ", ")
}

// Year checks the publication year of a title. The upper bound is the server
// clock's current year, read fresh on every call.
func Year(year int) error {
	now := time.Now().Year()
	if year < 0 || year > now {
		return fmt.Errorf("year must be between 0 and %d", now)
	}
	return nil
}

// Score checks a review score against the 1..10 scale.
func Score(score int) error {
	if score < MinScore || score > MaxScore {
		return fmt.Errorf("score must be between %d and %d", MinScore, MaxScore)
	}
	return nil
}

// Username checks length and charset. Reserved names are handled separately
// by ReservedUsername since only self-registration forbids them.
func Username(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must be at most %d characters", MaxUsernameLen)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username may only contain letters, digits and . @ + -")
	}
	return nil
}

// ReservedUsername rejects "me", which collides with the profile route alias.
func ReservedUsername(username string) error {
	if strings.EqualFold(username, "me") {
		return fmt.Errorf("username %q is not allowed", username)
	}
	return nil
}

// Email checks length and syntax.
func Email(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must be at most %d characters", MaxEmailLen)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email is not a valid address")
	}
	return nil
}

// CommentText checks the comment length cap.
func CommentText(text string) error {
	if text == "" {
		return fmt.Errorf("text is required")
	}
	if len(text) > MaxCommentLen {
		return fmt.Errorf("text must be at most %d characters", MaxCommentLen)
	}
	return nil
}
