package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	MerchantIDKey  contextKey = "merchantID"
	TokenClaimsKey contextKey = "jwtClaims"
)

var jwtKey = []byte(os.Getenv("SECRET_KEY"))

// RequireAuth rejects charge operations without a valid merchant token.
// Every lifecycle endpoint moves money, so there is no anonymous path.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			ctx := context.WithValue(r.Context(), TokenClaimsKey, claims)
			if mid, ok := claims["merchant_id"].(string); ok {
				ctx = context.WithValue(ctx, MerchantIDKey, mid)
			}
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

func MerchantIDFromContext(ctx context.Context) (string, bool) {
	mid, ok := ctx.Value(MerchantIDKey).(string)
	return mid, ok
}
