package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"zoo-server/services/media-api/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(v *Validator, header string) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(v.Middleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":     "abc",
		"bearer  abc ":   "abc",
		"Basic abc":      "",
		"Bearer":         "",
		"":               "",
		"  Bearer xyz  ": "xyz",
	}
	for header, want := range tests {
		assert.Equal(t, want, bearerToken(header), header)
	}
}

func TestMiddleware_Disabled(t *testing.T) {
	v := NewValidator(context.Background(), &config.Config{}, zerolog.Nop())

	assert.True(t, v.Ready())
	assert.Equal(t, http.StatusOK, serve(v, "").Code)

	var nilValidator *Validator
	assert.True(t, nilValidator.Ready())
	assert.Equal(t, http.StatusOK, serve(nilValidator, "").Code)
}

func TestMiddleware_Enabled(t *testing.T) {
	v := &Validator{enabled: true, issuer: "https://auth.zoo.test", log: zerolog.Nop()}

	assert.False(t, v.Ready())
	assert.Equal(t, http.StatusServiceUnavailable, serve(v, "Bearer abc").Code)

	v.keyfunc = func(token *jwt.Token) (any, error) {
		return nil, jwt.ErrTokenUnverifiable
	}
	v.ready.Store(true)

	assert.Equal(t, http.StatusUnauthorized, serve(v, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(v, "Bearer not.a.jwt").Code)
}
