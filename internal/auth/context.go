package auth

import (
	"context"

	"github.com/google/uuid"
)

type employeeContextKey struct{}

// ContextWithEmployee кладёт id аутентифицированного сотрудника в контекст.
func ContextWithEmployee(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, employeeContextKey{}, id)
}

// EmployeeFromContext достаёт id сотрудника, положенный middleware.
func EmployeeFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	id, ok := ctx.Value(employeeContextKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
