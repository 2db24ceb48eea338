package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestYear_AcceptsCurrentYear(t *testing.T) {
	assert.NoError(t, Year(time.Now().Year()))
}

func TestYear_AcceptsZeroAndOldYears(t *testing.T) {
	assert.NoError(t, Year(0))
	assert.NoError(t, Year(1890))
}

func TestYear_RejectsFuture(t *testing.T) {
	assert.Error(t, Year(time.Now().Year()+1))
}

func TestYear_RejectsNegative(t *testing.T) {
	assert.Error(t, Year(-1))
}

func TestScore_Bounds(t *testing.T) {
	assert.Error(t, Score(0))
	assert.NoError(t, Score(1))
	assert.NoError(t, Score(10))
	assert.Error(t, Score(11))
}

func TestUsername_ValidCharset(t *testing.T) {
	for _, name := range []string{"alice", "alice.smith", "a_b-c", "user@host", "plus+name", "User123"} {
		assert.NoError(t, Username(name), "username %q should pass", name)
	}
}

func TestUsername_RejectsBadCharacters(t *testing.T) {
	for _, name := range []string{"", "has space", "semi;colon", "sla/sh", "percent%"} {
		assert.Error(t, Username(name), "username %q should fail", name)
	}
}

func TestUsername_RejectsOverlong(t *testing.T) {
	assert.NoError(t, Username(strings.Repeat("a", MaxUsernameLen)))
	assert.Error(t, Username(strings.Repeat("a", MaxUsernameLen+1)))
}

func TestReservedUsername_RejectsMeCaseInsensitive(t *testing.T) {
	assert.Error(t, ReservedUsername("me"))
	assert.Error(t, ReservedUsername("Me"))
	assert.Error(t, ReservedUsername("ME"))
	assert.NoError(t, ReservedUsername("meredith"))
}

func TestEmail_Valid(t *testing.T) {
	assert.NoError(t, Email("user@example.com"))
}

func TestEmail_Rejects(t *testing.T) {
	for _, email := range []string{"", "not-an-email", "User Name <user@example.com>", "a@b@c"} {
		assert.Error(t, Email(email), "email %q should fail", email)
	}
}

func TestEmail_RejectsOverlong(t *testing.T) {
	long := strings.Repeat("a", MaxEmailLen) + "@example.com"
	assert.Error(t, Email(long))
}

func TestCommentText_LengthCap(t *testing.T) {
	assert.Error(t, CommentText(""))
	assert.NoError(t, CommentText(strings.Repeat("x", MaxCommentLen)))
	assert.Error(t, CommentText(strings.Repeat("x", MaxCommentLen+1)))
}

func TestFieldErrors_CollectsPerField(t *testing.T) {
	fe := FieldErrors{}
	assert.True(t, fe.Empty())

	fe.Add("username", "required")
	fe.Add("username", "too long")
	fe.Add("email", "invalid")

	assert.False(t, fe.Empty())
	assert.Len(t, fe["username"], 2)
	assert.Contains(t, fe.Error(), "email")
}
