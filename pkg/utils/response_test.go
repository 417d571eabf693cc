package utils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"hr-system/internal/authz"
	apperrors "hr-system/pkg/errors"
)

func TestErrorResponse_Codes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"invalid input", fmt.Errorf("%w: роль", authz.ErrInvalidInput), http.StatusBadRequest},
		{"corrupt stored data", fmt.Errorf("%w: пользователь 7: роль", apperrors.ErrCorruptData), http.StatusInternalServerError},
		{"forbidden", apperrors.NewForbiddenError("нет доступа", nil), http.StatusForbidden},
	}
	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			assert.NoError(t, ErrorResponse(c, tt.err, zap.NewNop()))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
