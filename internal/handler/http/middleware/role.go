package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sekolahku/attendance-backend-go/internal/handler/http/response"
	"github.com/sekolahku/attendance-backend-go/internal/pkg/jwt"
)

// RequireStaff requires teacher or admin role
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "Staff access required")
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.Forbidden(w, "Staff access required")
			return
		}

		role := jwt.Role(roleStr)
		if role != jwt.RoleTeacher && role != jwt.RoleAdmin {
			response.Forbidden(w, "Staff access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin requires admin role
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "Admin access required")
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			response.Forbidden(w, "Admin access required")
			return
		}

		if role != string(jwt.RoleAdmin) {
			response.Forbidden(w, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
