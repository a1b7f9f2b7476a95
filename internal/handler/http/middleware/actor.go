package middleware

import (
	"context"
	"errors"

	"github.com/go-chi/jwtauth/v5"

	"github.com/leavedesk/leave-backend-go/internal/domain/user"
)

var ErrNoActor = errors.New("no authenticated actor in request context")

// ActorFromContext rebuilds the acting user from verified JWT claims.
// Everything below the handler layer receives this value explicitly
// instead of reading ambient request state.
func ActorFromContext(ctx context.Context) (user.Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Actor{}, ErrNoActor
	}

	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return user.Actor{}, ErrNoActor
	}

	roleStr, ok := claims["role"].(string)
	role := user.Role(roleStr)
	if !ok || !role.IsValid() {
		return user.Actor{}, ErrNoActor
	}

	actor := user.Actor{ID: id, Role: role}
	if departmentID, ok := claims["department_id"].(string); ok {
		actor.DepartmentID = departmentID
	}

	return actor, nil
}
