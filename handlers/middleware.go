package handlers

import (
	"context"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteworks/services"
)

type contextKey string

const ActorKey contextKey = "actor"

// Actor is the authenticated identity attached to each request by the
// external identity provider, forwarded as the X-Auth-UID and X-Auth-Role
// headers.
type Actor struct {
	UID  string
	Role services.Role
}

// GetActor extracts the actor from the request context. A request that
// skipped the middleware yields a zero Actor.
func GetActor(r *http.Request) Actor {
	if val, ok := r.Context().Value(ActorKey).(Actor); ok {
		return val
	}
	return Actor{}
}

// ActorMiddleware reads the identity headers and stores the actor in the
// request context. Requests without a recognized role are rejected before
// any handler runs.
func ActorMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		uid := e.Request.Header.Get("X-Auth-UID")
		role := services.Role(e.Request.Header.Get("X-Auth-Role"))

		if role != services.RoleContractor && role != services.RoleClient {
			return apiError(e, http.StatusUnauthorized, "Missing or unrecognized auth role")
		}
		if uid == "" {
			return apiError(e, http.StatusUnauthorized, "Missing auth UID")
		}

		actor := Actor{UID: uid, Role: role}
		ctx := context.WithValue(e.Request.Context(), ActorKey, actor)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}

// RequireRole short-circuits a handler when the actor's role does not match.
func RequireRole(e *core.RequestEvent, role services.Role) error {
	if GetActor(e.Request).Role != role {
		return apiError(e, http.StatusForbidden, "This action is not available for your role")
	}
	return nil
}

// RequireContractorSelf guards contractor-scoped mutations: the actor must be
// a contractor and must match the contractor addressed by the route.
func RequireContractorSelf(e *core.RequestEvent) error {
	if err := RequireRole(e, services.RoleContractor); err != nil {
		return err
	}
	if GetActor(e.Request).UID != e.Request.PathValue("contractorId") {
		return apiError(e, http.StatusForbidden, "You can only manage your own records")
	}
	return nil
}
