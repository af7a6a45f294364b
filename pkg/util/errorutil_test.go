package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"validation", NewValidationError("bad input", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{"not found", NewNotFound("Ticket", nil), "NOT_FOUND", http.StatusNotFound},
		{"unauthorized", NewUnauthorized("nope"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"forbidden", NewForbidden("nope"), "FORBIDDEN", http.StatusForbidden},
		{"conflict", NewConflict("taken", nil), "CONFLICT", http.StatusConflict},
		{"internal", NewInternalError(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var domainErr *DomainError
			require.ErrorAs(t, tc.err, &domainErr)
			assert.Equal(t, tc.wantCode, domainErr.Code)
			assert.Equal(t, tc.wantStatus, domainErr.HTTPStatus)
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NewNotFound("Asset", map[string]any{"id": "abc"})
	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Asset not found", domainErr.Message)
	assert.Equal(t, "abc", domainErr.Details["id"])
}

func TestToDomainError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("passes DomainError through", func(t *testing.T) {
		original := NewConflict("taken", nil)
		var want *DomainError
		require.ErrorAs(t, original, &want)
		assert.Same(t, want, ToDomainError(original))
	})

	t.Run("unwraps wrapped DomainError", func(t *testing.T) {
		wrapped := fmt.Errorf("while saving: %w", NewForbidden("nope"))
		domainErr := ToDomainError(wrapped)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
	})

	t.Run("maps pgx.ErrNoRows to not found", func(t *testing.T) {
		domainErr := ToDomainError(pgx.ErrNoRows)
		assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)
	})

	t.Run("wraps unknown errors as internal", func(t *testing.T) {
		domainErr := ToDomainError(errors.New("boom"))
		assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
		assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
		assert.ErrorContains(t, domainErr, "boom")
	})
}
