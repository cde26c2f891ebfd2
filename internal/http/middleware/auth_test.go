package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/profileforms-backend/internal/platform/ctxutil"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject, role string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "auth-service",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.Nop(), AuthConfig{SecretKey: testSecret, Issuer: "auth-service", AdminRole: "admin"})
	r := gin.New()
	authed := r.Group("/", am.RequireAuth())
	authed.GET("/me", func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.String(http.StatusOK, rd.UserID.String())
	})
	authed.GET("/admin", am.RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter()
	user := uuid.New().String()

	cases := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"missing token", "/me", "", http.StatusUnauthorized},
		{"bad signature", "/me", signToken(t, "other", user, "", time.Minute), http.StatusUnauthorized},
		{"expired", "/me", signToken(t, testSecret, user, "", -time.Minute), http.StatusUnauthorized},
		{"non-uuid subject", "/me", signToken(t, testSecret, "bob", "", time.Minute), http.StatusUnauthorized},
		{"valid user", "/me", signToken(t, testSecret, user, "", time.Minute), http.StatusOK},
		{"user on admin route", "/admin", signToken(t, testSecret, user, "member", time.Minute), http.StatusForbidden},
		{"admin", "/admin", signToken(t, testSecret, user, "ADMIN", time.Minute), http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status: want=%d got=%d body=%s", tc.want, rec.Code, rec.Body.String())
			}
			if tc.want == http.StatusOK && rec.Body.String() != user {
				t.Fatalf("request data user: want=%s got=%s", user, rec.Body.String())
			}
		})
	}
}
