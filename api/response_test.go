package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"vereinskasse/config"
	"vereinskasse/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation", service.ErrInvalidAmount, http.StatusBadRequest, "invalid amount"},
		{"wrapped validation", fmt.Errorf("draft: %w", service.ErrNoSelection), http.StatusBadRequest, "draft: no member selected"},
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized, "not authenticated"},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
		{"not found", service.ErrMemberNotFound, http.StatusNotFound, "member not found"},
		{"nothing to undo", service.ErrNothingToUndo, http.StatusBadRequest, "nothing to undo"},
		{"internal", errors.New("disk full"), http.StatusInternalServerError, "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/x", nil)

			ServiceError(c, tt.err, "fallback")

			assert.Equal(t, tt.code, w.Code)
			resp := decode(t, w, nil)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestServiceError_ReleaseModeHidesInternalErrors(t *testing.T) {
	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "release"}}
	defer func() { config.GlobalConfig = nil }()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/x", nil)

	ServiceError(c, errors.New("dial tcp 10.0.0.1:3306: refused"), "failed to load costs")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to load costs", decode(t, w, nil).Message)
}
