package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerAuth 校验 Authorization: Bearer <token> 是否在允许列表中。
// tokens 为空时直接放行。
func BearerAuth(tokens []string) func(http.Handler) http.Handler {
	allowed := make([][]byte, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			allowed = append(allowed, []byte(t))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(allowed) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || !validToken(allowed, []byte(strings.TrimSpace(token))) {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeJSON(w, http.StatusUnauthorized, errorBody{Detail: "invalid token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func validToken(allowed [][]byte, token []byte) bool {
	found := false
	for _, a := range allowed {
		if subtle.ConstantTimeCompare(a, token) == 1 {
			found = true
		}
	}
	return found
}
