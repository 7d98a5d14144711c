package mw

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	tokenTTL  = 24 * time.Hour
	splitSize = 2
)

var errSigningMethod = errors.New("unexpected signing method")

type userCtxKeyType int

const userCtxKey userCtxKeyType = iota

type ownerClaims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Auth issues and checks HS256 bearer tokens for pet owners.
type Auth struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuth(secret []byte) *Auth {
	return &Auth{secret: secret, ttl: tokenTTL, now: time.Now}
}

func (a *Auth) IssueToken(userID int, username string) (string, error) {
	claims := ownerClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(a.now()),
			ExpiresAt: jwt.NewNumericDate(a.now().Add(a.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Middleware rejects requests without a valid bearer token and stores the
// owner's id in the request context.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(a.secret) == 0 {
			writeError(w, http.StatusInternalServerError, "jwt secret not configured")
			return
		}
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		parts := strings.SplitN(authHeader, " ", splitSize)
		if len(parts) != splitSize || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "invalid token format")
			return
		}
		token, err := jwt.ParseWithClaims(parts[1], &ownerClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errSigningMethod
			}
			return a.secret, nil
		})
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		claims, ok := token.Claims.(*ownerClaims)
		if !ok || !token.Valid || claims.UserID <= 0 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
	})
}

func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userCtxKey, userID)
}

// UserID returns the authenticated owner, or 0 outside the auth middleware.
func UserID(ctx context.Context) int {
	val, _ := ctx.Value(userCtxKey).(int)
	return val
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"errors": msg})
}
