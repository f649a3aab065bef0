package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"saratovquest/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedRouter(issuer *utils.TokenIssuer) *gin.Engine {
	router := gin.New()
	router.GET("/protected", AuthMiddleware(issuer), func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	router.GET("/optional", OptionalAuthMiddleware(issuer), func(c *gin.Context) {
		id, ok := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "authenticated": ok})
	})
	return router
}

func get(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	issuer := utils.NewTokenIssuer("test-secret", 7)
	router := newProtectedRouter(issuer)

	token, err := issuer.GenerateToken(42, "tourist")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		w := get(router, "/protected", "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "42")
	})

	t.Run("missing header", func(t *testing.T) {
		w := get(router, "/protected", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := get(router, "/protected", "Token "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := get(router, "/protected", "Bearer not.a.token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := utils.NewTokenIssuer("other-secret", 7)
		foreign, err := other.GenerateToken(42, "tourist")
		require.NoError(t, err)

		w := get(router, "/protected", "Bearer "+foreign)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	issuer := utils.NewTokenIssuer("test-secret", 7)
	router := newProtectedRouter(issuer)

	token, err := issuer.GenerateToken(42, "tourist")
	require.NoError(t, err)

	t.Run("with token", func(t *testing.T) {
		w := get(router, "/optional", "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":true`)
	})

	t.Run("anonymous", func(t *testing.T) {
		w := get(router, "/optional", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	})

	t.Run("invalid token passes through anonymously", func(t *testing.T) {
		w := get(router, "/optional", "Bearer not.a.token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	})
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2)

	router := gin.New()
	router.GET("/limited", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// The burst allows two immediate requests from one client, the
	// third is rejected.
	assert.Equal(t, http.StatusOK, get(router, "/limited", "").Code)
	assert.Equal(t, http.StatusOK, get(router, "/limited", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "/limited", "").Code)
}

func TestRateLimiterKeysPerUser(t *testing.T) {
	limiter := NewRateLimiter(1, 1)

	router := gin.New()
	router.GET("/limited/:user", func(c *gin.Context) {
		id := c.Param("user")
		if id != "anon" {
			c.Set(ContextUserID, len(id))
		}
		c.Next()
	}, limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Distinct users draw from distinct buckets.
	assert.Equal(t, http.StatusOK, get(router, "/limited/a", "").Code)
	assert.Equal(t, http.StatusOK, get(router, "/limited/bb", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "/limited/a", "").Code)
}
