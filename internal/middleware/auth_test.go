package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chatcall/pkg/auth"
)

// fakeBlacklist подменяет Redis: в чёрном списке только перечисленные ключи.
type fakeBlacklist struct {
	redis.Cmdable
	tokens map[string]bool
}

func (f *fakeBlacklist) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if f.tokens[key] {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func newAuthTestRouter(t *testing.T, blacklisted ...string) (*gin.Engine, *auth.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	rdb := &fakeBlacklist{tokens: map[string]bool{}}
	for _, token := range blacklisted {
		rdb.tokens["blacklist:"+token] = true
	}

	r := gin.New()
	echo := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.MustGet(UserIDKey).(uuid.UUID).String(),
			"username": c.MustGet(UsernameKey),
		})
	}
	r.GET("/ws", WSAuthMiddleware(jwtMgr, rdb), echo)
	r.GET("/api", AuthMiddleware(jwtMgr, rdb), echo)
	return r, jwtMgr
}

func doRequest(r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWSAuthRejectsMissingToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := doRequest(r, "/ws", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "missing token")
}

func TestWSAuthRejectsInvalidToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := doRequest(r, "/ws?token=not-a-jwt", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid token")
}

func TestWSAuthRejectsForeignSignature(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	foreign := auth.NewJWTManager("other-secret", time.Hour)
	token, err := foreign.Generate(uuid.NewString(), "mallory")
	require.NoError(t, err)

	w := doRequest(r, "/ws?token="+token, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid token")
}

func TestWSAuthRejectsBlacklistedToken(t *testing.T) {
	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	token, err := jwtMgr.Generate(uuid.NewString(), "alice")
	require.NoError(t, err)

	r, _ := newAuthTestRouter(t, token)

	w := doRequest(r, "/ws?token="+token, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "token is blacklisted")
}

func TestWSAuthAcceptsQueryToken(t *testing.T) {
	r, jwtMgr := newAuthTestRouter(t)

	userID := uuid.New()
	token, err := jwtMgr.Generate(userID.String(), "alice")
	require.NoError(t, err)

	w := doRequest(r, "/ws?token="+token, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), userID.String())
	require.Contains(t, w.Body.String(), "alice")
}

func TestWSAuthAcceptsBearerHeader(t *testing.T) {
	r, jwtMgr := newAuthTestRouter(t)

	token, err := jwtMgr.Generate(uuid.NewString(), "bob")
	require.NoError(t, err)

	w := doRequest(r, "/ws", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "bob")
}

func TestAuthMiddlewareRequiresHeader(t *testing.T) {
	r, jwtMgr := newAuthTestRouter(t)

	w := doRequest(r, "/api", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := jwtMgr.Generate(uuid.NewString(), "alice")
	require.NoError(t, err)

	w = doRequest(r, "/api", token)
	require.Equal(t, http.StatusOK, w.Code)
}
