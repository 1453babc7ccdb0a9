package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/pkg/response"
)

// ActorFromContext returns the caller's role as set by Authenticate.
func ActorFromContext(ctx context.Context) (entity.ActorRole, bool) {
	roleID, ok := GetRoleIDFromContext(ctx)
	if !ok {
		return entity.ActorUnknown, false
	}
	return entity.ActorFromRoleID(roleID), true
}

// RequireActor admits only callers whose role is in allowed. Unknown role
// ids are always refused.
func RequireActor(allowed ...entity.ActorRole) func(http.Handler) http.Handler {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = a.String()
	}
	denied := "Only " + strings.Join(names, " or ") + " accounts can access this resource"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}
			if actor == entity.ActorUnknown || !slices.Contains(allowed, actor) {
				response.Forbidden(w, denied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireActor(entity.ActorAdmin)(next)
}

func RequireDoctor(next http.Handler) http.Handler {
	return RequireActor(entity.ActorDoctor)(next)
}

func RequirePatient(next http.Handler) http.Handler {
	return RequireActor(entity.ActorPatient)(next)
}

// RequirePatientOrAdmin guards booking; doctors only change status.
func RequirePatientOrAdmin(next http.Handler) http.Handler {
	return RequireActor(entity.ActorPatient, entity.ActorAdmin)(next)
}
