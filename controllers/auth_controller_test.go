package controllers

import (
	"context"
	"net/http"
	"testing"

	"saratovquest/db"
	"saratovquest/models"
	"saratovquest/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(users UserStore) (*gin.Engine, *utils.TokenIssuer) {
	issuer := utils.NewTokenIssuer("test-secret", 7)
	ac := NewAuthController(users, issuer)

	router := gin.New()
	router.POST("/api/auth/register", ac.Register)
	router.POST("/api/auth/login", ac.Login)
	router.GET("/api/auth/me", authAs(1), ac.Me)
	return router, issuer
}

func TestRegister(t *testing.T) {
	router, issuer := newAuthRouter(&fakeUserStore{})

	w := performJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "tourist",
		"email":    "tourist@example.com",
		"password": "secret123",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)

	token, ok := body["token"].(string)
	require.True(t, ok)
	claims, err := issuer.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, "tourist", claims.Username)

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "tourist", user["username"])
	assert.NotContains(t, user, "password_hash")
}

func TestRegisterValidation(t *testing.T) {
	router, _ := newAuthRouter(&fakeUserStore{})

	cases := []struct {
		name string
		body gin.H
	}{
		{"short username", gin.H{"username": "ab", "email": "a@b.com", "password": "secret123"}},
		{"bad email", gin.H{"username": "tourist", "email": "not-an-email", "password": "secret123"}},
		{"short password", gin.H{"username": "tourist", "email": "a@b.com", "password": "12345"}},
		{"empty body", gin.H{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performJSON(t, router, http.MethodPost, "/api/auth/register", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	router, _ := newAuthRouter(&fakeUserStore{
		existsFunc: func(ctx context.Context, username, email string) (bool, error) {
			return true, nil
		},
	})

	w := performJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "tourist",
		"email":    "tourist@example.com",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicateRace(t *testing.T) {
	// The pre-check passes but the insert loses against the unique
	// index. Still a 400, not a 500.
	router, _ := newAuthRouter(&fakeUserStore{
		createFunc: func(ctx context.Context, username, email, passwordHash, fullName string) (*models.User, error) {
			return nil, db.ErrDuplicate
		},
	})

	w := performJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "tourist",
		"email":    "tourist@example.com",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	stored := &models.User{ID: 7, Username: "tourist", PasswordHash: hash, Level: 2}
	router, issuer := newAuthRouter(&fakeUserStore{
		getByLoginFunc: func(ctx context.Context, login string) (*models.User, error) {
			if login == "tourist" || login == "tourist@example.com" {
				return stored, nil
			}
			return nil, db.ErrNotFound
		},
	})

	for _, login := range []string{"tourist", "tourist@example.com"} {
		w := performJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
			"login":    login,
			"password": "secret123",
		})

		require.Equal(t, http.StatusOK, w.Code, "login=%q", login)
		body := decodeBody(t, w)
		claims, err := issuer.ParseToken(body["token"].(string))
		require.NoError(t, err)
		assert.Equal(t, 7, claims.UserID)
	}
}

func TestLoginUniformFailure(t *testing.T) {
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	router, _ := newAuthRouter(&fakeUserStore{
		getByLoginFunc: func(ctx context.Context, login string) (*models.User, error) {
			if login == "tourist" {
				return &models.User{ID: 7, Username: "tourist", PasswordHash: hash}, nil
			}
			return nil, db.ErrNotFound
		},
	})

	// Unknown account and wrong password produce the same status and
	// the same message.
	missing := performJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"login":    "nobody",
		"password": "secret123",
	})
	wrong := performJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"login":    "tourist",
		"password": "wrongpass",
	})

	assert.Equal(t, http.StatusBadRequest, missing.Code)
	assert.Equal(t, http.StatusBadRequest, wrong.Code)
	assert.Equal(t, decodeBody(t, missing)["message"], decodeBody(t, wrong)["message"])
}

func TestMe(t *testing.T) {
	router, _ := newAuthRouter(&fakeUserStore{
		getByIDFunc: func(ctx context.Context, id int) (*models.User, error) {
			return &models.User{ID: id, Username: "tourist", Points: 150, Level: 2}, nil
		},
	})

	w := performJSON(t, router, http.MethodGet, "/api/auth/me", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	user := body["user"].(map[string]any)
	assert.Equal(t, float64(150), user["points"])
	assert.Equal(t, float64(2), user["level"])
}
