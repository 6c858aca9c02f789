package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pillflow-backend/services"
	"pillflow-backend/store"
	"pillflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctl := New(services.New(store.NewMemoryStore(), nil, nil, services.Options{}), nil, nil)

	// the customer lookup error matches both NotFound and AccessDenied
	_, combined := ctl.svc.Customers.Get(contextWithCaller(), uuid.New())
	require.Error(t, combined)

	cases := []struct {
		err    error
		status int
		body   string
	}{
		{services.ErrUnauthenticated, http.StatusUnauthorized, "Not authenticated"},
		{combined, http.StatusNotFound, "customer not found or access denied"},
		{services.ErrAccessDenied, http.StatusForbidden, "access denied"},
		{fmt.Errorf("C-1: %w", services.ErrDuplicateCustomerID), http.StatusConflict, "C-1: customer ID already exists"},
		{services.ErrDuplicateInitials, http.StatusConflict, services.ErrDuplicateInitials.Error()},
		{services.ErrInvalidFrequency, http.StatusBadRequest, "enter at least one frequency value"},
		{services.ErrInvalidInitialsFormat, http.StatusBadRequest, "initials must be 2-3 letters only"},
		{errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		ctl.respondWithServiceError(c, tc.err)

		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.body, body["error"])
	}
}

func TestParseIDRejectsGarbage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	_, ok := parseID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func contextWithCaller() context.Context {
	return utils.WithCaller(context.Background(), uuid.New())
}
