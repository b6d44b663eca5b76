package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	r.Use(mw...)
	r.GET("/whoami", func(c *gin.Context) {
		userID, _ := GetUserIDFromContext(c)
		ctxUserID, _ := GetUserIDFromCtx(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"userID": userID, "ctxUserID": ctxUserID})
	})
	return r
}

func do(r http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStructuredLoggingMiddleware_RequestID(t *testing.T) {
	r := newEngine()

	w := do(r, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = do(r, map[string]string{RequestIDHeader: "req-42"})
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestGetLoggerFromCtx_FallsBackToDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, slog.Default(), GetLoggerFromCtx(req.Context()))

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Equal(t, logger, GetLoggerFromCtx(WithLogger(req.Context(), logger)))
}

func TestAuthMiddleware(t *testing.T) {
	r := newEngine(AuthMiddleware(testSecret, "coop"))

	valid, err := IssueAdminToken(testSecret, "coop", "admin-7", time.Hour)
	require.NoError(t, err)
	expired, err := IssueAdminToken(testSecret, "coop", "admin-7", -time.Minute)
	require.NoError(t, err)
	otherIssuer, err := IssueAdminToken(testSecret, "elsewhere", "admin-7", time.Hour)
	require.NoError(t, err)
	wrongSecret, err := IssueAdminToken("nope", "coop", "admin-7", time.Hour)
	require.NoError(t, err)

	memberToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		Role: "MEMBER",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "member-1",
			Issuer:    "coop",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid admin", header: "Bearer " + valid, want: http.StatusOK},
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Token " + valid, want: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, want: http.StatusUnauthorized},
		{name: "other issuer", header: "Bearer " + otherIssuer, want: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + wrongSecret, want: http.StatusUnauthorized},
		{name: "not an admin", header: "Bearer " + memberToken, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := do(r, headers)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "admin-7", body["userID"])
				assert.Equal(t, "admin-7", body["ctxUserID"])
			}
		})
	}
}

func TestCronKeyAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	r := newEngine(CronKeyAuth(string(hash)))

	w := do(r, map[string]string{CronKeyHeader: "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, domain.SystemActor, body["userID"])

	assert.Equal(t, http.StatusUnauthorized, do(r, map[string]string{CronKeyHeader: "guess"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, nil).Code)

	disabled := newEngine(CronKeyAuth(""))
	assert.Equal(t, http.StatusUnauthorized, do(disabled, map[string]string{CronKeyHeader: "s3cret"}).Code)
}

func TestRateLimit(t *testing.T) {
	lim, err := NewRateLimiter("2-M")
	require.NoError(t, err)
	r := newEngine(RateLimit(lim))

	assert.Equal(t, http.StatusOK, do(r, nil).Code)
	w := do(r, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, do(r, nil).Code)

	_, err = NewRateLimiter("lots")
	assert.Error(t, err)
}
