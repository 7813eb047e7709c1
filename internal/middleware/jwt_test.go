package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTokens() *utils.TokenService {
	return utils.NewTokenService("middleware-secret", time.Hour)
}

func TestResolveUserID(t *testing.T) {
	tokens := newTokens()
	token, err := tokens.Issue("user-42")
	require.NoError(t, err)

	valid := map[string]string{
		"bearer prefix":    "Bearer " + token,
		"lowercase prefix": "bearer " + token,
		"no prefix":        token,
		"extra whitespace": "  Bearer   " + token + "  ",
	}
	for name, header := range valid {
		userID, err := ResolveUserID(header, tokens)
		require.NoError(t, err, name)
		assert.Equal(t, "user-42", userID, name)
	}

	invalid := map[string]string{
		"empty":        "",
		"prefix only":  "Bearer ",
		"garbage":      "Bearer not-a-token",
		"other scheme": "Basic dXNlcjpwYXNz",
	}
	for name, header := range invalid {
		_, err := ResolveUserID(header, tokens)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated, name)
	}
}

func TestResolveUserIDOtherKey(t *testing.T) {
	token, err := utils.NewTokenService("someone-else", time.Hour).Issue("user-42")
	require.NoError(t, err)

	_, err = ResolveUserID("Bearer "+token, newTokens())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestJWTAuthMiddleware(t *testing.T) {
	tokens := newTokens()
	r := gin.New()
	r.GET("/whoami", JWTAuthMiddleware(tokens), func(c *gin.Context) {
		userID, ok := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "ok": ok})
	})

	t.Run("accepts a valid token", func(t *testing.T) {
		token, err := tokens.Issue("user-7")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			UserID string `json:"user_id"`
			OK     bool   `json:"ok"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "user-7", body.UserID)
		assert.True(t, body.OK)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "UNAUTHENTICATED", body.Error.Code)
		assert.Equal(t, "Not authenticated", body.Error.Message)
	})

	t.Run("rejects an invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer abc.def.ghi")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid or expired token")
	})
}

func TestUserIDUnset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := UserID(c)
	assert.False(t, ok)
}
