package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()
	tok, err := GenerateToken("s3cret", userID, time.Hour)
	require.NoError(t, err)

	got, err := ParseToken("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = ParseToken("other", tok)
	assert.Error(t, err)

	expired, err := GenerateToken("s3cret", userID, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("s3cret", expired)
	assert.Error(t, err)

	_, err = GenerateToken("", userID, time.Hour)
	assert.Error(t, err)
}

func TestCallerFromContext(t *testing.T) {
	_, err := CallerFromContext(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = CallerFromContext(WithCaller(context.Background(), uuid.Nil))
	assert.ErrorIs(t, err, ErrUnauthenticated)

	id := uuid.New()
	got, err := CallerFromContext(WithCaller(context.Background(), id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware("s3cret"))
	r.GET("/whoami", func(c *gin.Context) {
		id, err := CallerFromContext(c.Request.Context())
		if err != nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, id.String())
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := authRouter()
	userID := uuid.New()
	tok, err := GenerateToken("s3cret", userID, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
		body   string
	}{
		{"anonymous", func(*http.Request) {}, http.StatusOK, "anonymous"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }, http.StatusOK, userID.String()},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: tok}) }, http.StatusOK, userID.String()},
		{"invalid", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized, `{"error":"Invalid token"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}
