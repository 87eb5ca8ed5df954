package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNotFoundKeepsLiteralMessage(t *testing.T) {
	err := NewNotFoundError("Blog post not found")

	assert.Equal(t, "Blog post not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsBadRequest(err))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusConflict, StatusCode(NewConflictError("slug taken")))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
}

func TestNewDatabaseErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		status int
		check  func(error) bool
	}{
		{"postgres duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "idx_slug"`), http.StatusConflict, IsConflict},
		{"sqlite unique", errors.New("UNIQUE constraint failed: blog_posts.slug"), http.StatusConflict, IsConflict},
		{"gorm duplicated", gorm.ErrDuplicatedKey, http.StatusConflict, IsConflict},
		{"foreign key", errors.New("FOREIGN KEY constraint failed"), http.StatusBadRequest, IsBadRequest},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, IsNotFound},
		{"connection", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, func(err error) bool { return errors.Is(err, ErrDatabaseConnection) }},
		{"generic", errors.New("syntax error at or near"), http.StatusInternalServerError, IsInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("find", "blog_post", tt.cause)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.True(t, tt.check(err))
			assert.Equal(t, tt.cause, err.Cause)
		})
	}
}

func TestGetFullErrorIncludesCauseChain(t *testing.T) {
	inner := NewInternalErrorWithCause("inner", errors.New("root cause"))
	outer := NewInternalErrorWithCause("outer", inner)

	assert.Equal(t, "outer -> inner -> root cause", outer.GetFullError())
}

func TestEnvironmentVariableError(t *testing.T) {
	err := NewEnvironmentVariableError("RESEND_API_KEY")

	assert.Equal(t, "RESEND_API_KEY is not defined", err.Error())
	assert.True(t, IsConfigError(err))
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
}

func TestTokenErrorsAreUnauthorized(t *testing.T) {
	for _, err := range []*ApiErr{NewMissingTokenError(), NewInvalidTokenError(nil), NewTokenExpiredError()} {
		assert.True(t, IsUnauthorized(err), err.Error())
		assert.Equal(t, http.StatusUnauthorized, err.StatusCode)
	}
	assert.True(t, IsMissingTokenError(NewMissingTokenError()))
}
