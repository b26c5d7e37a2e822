package middleware

import (
	"net/http"

	"github.com/vfg2006/traffic-assistant-api/internal/domain"
	"github.com/vfg2006/traffic-assistant-api/pkg/apiErrors"
	"github.com/vfg2006/traffic-assistant-api/pkg/log"
)

// Roles emitidos pelo serviço de identidade do dashboard
const (
	RoleAdmin      = 1
	RoleSupervisor = 2
	RoleClient     = 3
)

// RoleMiddleware restringe o acesso aos roles informados.
// Com a autenticação desligada, a verificação é ignorada.
func RoleMiddleware(allowedRoles []int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if disabled, _ := r.Context().Value(ContextKeyAuthDisabled).(bool); disabled {
				next.ServeHTTP(w, r)
				return
			}

			logger := log.ForContext(r.Context())

			userClaims, ok := r.Context().Value(ContextKeyUser).(*domain.Claims)
			if !ok {
				logger.Warn("auth: access attempt without authentication")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "User not authenticated", nil)
				return
			}

			for _, role := range allowedRoles {
				if userClaims.UserRoleID == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.WithFields(log.Fields{
				"user_id":      userClaims.UserID,
				"user_role_id": userClaims.UserRoleID,
			}).Warn("auth: access denied")
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "You are not allowed to access this resource", nil)
		})
	}
}

// AdminOnly permite acesso apenas para administradores
func AdminOnly() func(http.Handler) http.Handler {
	return RoleMiddleware([]int{RoleAdmin})
}

func AllRoles() func(http.Handler) http.Handler {
	return RoleMiddleware([]int{RoleAdmin, RoleSupervisor, RoleClient})
}
