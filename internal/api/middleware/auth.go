// Package middleware holds the HTTP-layer cross-cutting concerns: actor
// identification, metrics, and panic recovery. None of it talks to the
// domain directly — handlers pull the actor back out of the context.
package middleware

import (
	"context"
	"net/http"
	"strconv"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	actorRoleKey
)

// ActorRole distinguishes a customer-initiated request from one made by
// staff/admin tooling. Only a handful of operations (admin cancel bypass,
// MarkDone/MarkNoShow) care about the distinction.
type ActorRole string

const (
	RoleCustomer ActorRole = "customer"
	RoleAdmin    ActorRole = "admin"
)

// Auth reads X-User-ID and the optional X-Actor-Role header and stashes
// them on the request context. It does not reject unauthenticated
// requests itself — handlers that require an actor call GetUserID and
// respond 401 if it's missing, the same division of labor the teacher
// uses between this middleware and its handlers.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if raw := r.Header.Get("X-User-ID"); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				ctx = context.WithValue(ctx, userIDKey, id)
			}
		}

		role := RoleCustomer
		if r.Header.Get("X-Actor-Role") == string(RoleAdmin) {
			role = RoleAdmin
		}
		ctx = context.WithValue(ctx, actorRoleKey, role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID returns the caller's user id and whether X-User-ID was present
// and well-formed.
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// GetActorRole returns the caller's role, defaulting to RoleCustomer when
// Auth never ran (e.g. in a unit test calling the handler directly).
func GetActorRole(ctx context.Context) ActorRole {
	role, ok := ctx.Value(actorRoleKey).(ActorRole)
	if !ok {
		return RoleCustomer
	}
	return role
}
