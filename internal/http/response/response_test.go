package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reynal240212/agora-finance/internal/models"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", fmt.Errorf("admin.EditUser: %w", models.ErrNotFound), http.StatusNotFound, "not found"},
		{"email taken", models.ErrEmailTaken, http.StatusConflict, "email already registered"},
		{"bad credentials", models.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
		{"inactive", models.ErrInactiveUser, http.StatusForbidden, "account is inactive or expired"},
		{"malformed date", fmt.Errorf("op: %w", models.ErrMalformedDate), http.StatusUnprocessableEntity, "malformed date, expected YYYY-MM-DD"},
		{"invalid input", models.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid input"},
		{"persistence", fmt.Errorf("%w: disk full", models.ErrPersistence), http.StatusInternalServerError, "failed to save changes"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, StatusError, resp.Status)
			assert.Equal(t, tt.wantMsg, resp.Error)
		})
	}
}

func TestValidationError(t *testing.T) {
	type request struct {
		Email string `validate:"required,email"`
		Days  int    `validate:"gte=0"`
		Name  string `validate:"required"`
	}

	err := validator.New().Struct(request{Email: "nope", Days: -1})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	resp := ValidationError(verrs)
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Email must be a valid email")
	assert.Contains(t, resp.Error, "field Days must not be negative")
	assert.Contains(t, resp.Error, "field Name is a required field")
}

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]int{"id": 1})
	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, map[string]int{"id": 1}, resp.Data)
}
