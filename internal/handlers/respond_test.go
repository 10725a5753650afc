package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"invoice_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	tests := []struct {
		err  error
		want int
	}{
		{&services.ValidationError{Fields: map[string]string{"name": "x"}}, http.StatusBadRequest},
		{services.ErrEmptyOrder, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", services.ErrNotFound), http.StatusNotFound},
		{services.ErrDuplicateEmail, http.StatusConflict},
		{services.ErrAlreadyPaid, http.StatusConflict},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrTemplateMissing, http.StatusInternalServerError},
		{errors.New("smtp: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		RespondError(c, log, tt.err)
		assert.Equal(t, tt.want, w.Code, tt.err.Error())
	}
}

func TestBindingErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var form struct {
		Email string `json:"email" binding:"required,email"`
		Name  string `json:"name" binding:"required"`
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"not-an-email"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	err := c.ShouldBindJSON(&form)
	fields := BindingErrors(err)
	assert.Equal(t, "Invalid email address.", fields["email"])
	assert.Equal(t, "Name is required.", fields["name"])
}
