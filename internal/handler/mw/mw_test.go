package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoUser(t *testing.T, want int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, want, UserID(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	})
}

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/info", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuth_RoundTrip(t *testing.T) {
	auth := NewAuth([]byte("secret"))
	token, err := auth.IssueToken(7, "Ziyo")
	require.NoError(t, err)

	rec := serve(auth.Middleware(echoUser(t, 7)), "Bearer "+token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuth_Rejects(t *testing.T) {
	auth := NewAuth([]byte("secret"))
	foreign, err := NewAuth([]byte("other")).IssueToken(7, "Ziyo")
	require.NoError(t, err)

	expiredAuth := NewAuth([]byte("secret"))
	expiredAuth.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, err := expiredAuth.IssueToken(7, "Ziyo")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, ownerClaims{UserID: 7})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing header", "", "unauthorized"},
		{"wrong scheme", "Basic abc", "invalid token format"},
		{"garbage", "Bearer abc", "unauthorized"},
		{"other secret", "Bearer " + foreign, "unauthorized"},
		{"expired", "Bearer " + expired, "unauthorized"},
		{"unsigned", "Bearer " + unsigned, "unauthorized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not be reached")
			})
			rec := serve(auth.Middleware(next), tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"errors":"`+tt.want+`"}`, rec.Body.String())
		})
	}
}

func TestAuth_NoSecret(t *testing.T) {
	rec := serve(NewAuth(nil).Middleware(echoUser(t, 0)), "Bearer x")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2, zerolog.Nop())
	h := rl.Handler(echoUser(t, 0))

	assert.Equal(t, http.StatusNoContent, serve(h, "").Code)
	assert.Equal(t, http.StatusNoContent, serve(h, "").Code)
	rec := serve(h, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestRateLimiter_KeysByUser(t *testing.T) {
	rl := NewRateLimiter(1, 1, zerolog.Nop())
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(userID int) int {
		req := httptest.NewRequest(http.MethodGet, "/api/info", nil)
		req = req.WithContext(WithUserID(req.Context(), userID))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call(1))
	assert.Equal(t, http.StatusNoContent, call(2), "owners have separate buckets")
	assert.Equal(t, http.StatusTooManyRequests, call(1))
}

func TestWriteErrorEncodesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusBadRequest, `bad "quote" \ here`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"errors":"bad \"quote\" \\ here"}`, rec.Body.String())
}
