package utils

import "context"

type contextKey string

const (
	CustomerIDKey contextKey = "customer_id"
	UserRoleKey   contextKey = "role"
)

const RoleAdmin = "ADMIN"

// SetUserContext stores the caller identity resolved by the transport layer.
func SetUserContext(ctx context.Context, customerID string, role string) context.Context {
	ctx = context.WithValue(ctx, CustomerIDKey, customerID)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return ctx
}

func GetCustomerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CustomerIDKey).(string)
	return id, ok && id != ""
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}

func IsAdmin(ctx context.Context) bool {
	return GetUserRoleFromContext(ctx) == RoleAdmin
}
