package middleware

import "context"

type contextKey string

const (
	ctxProfileID contextKey = "profile_id"
	ctxOrgID     contextKey = "organization_id"
	ctxBranchID  contextKey = "branch_id"
	ctxRole      contextKey = "role"
)

func ProfileIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxProfileID).(string); ok {
		return v
	}
	return ""
}

func OrganizationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxOrgID).(string); ok {
		return v
	}
	return ""
}

func BranchIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxBranchID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// WithIdentity seeds the context with an authenticated identity. Used by the
// auth middleware and by handler tests.
func WithIdentity(ctx context.Context, profileID, orgID, branchID, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxProfileID, profileID)
	ctx = context.WithValue(ctx, ctxOrgID, orgID)
	if branchID != "" {
		ctx = context.WithValue(ctx, ctxBranchID, branchID)
	}
	return context.WithValue(ctx, ctxRole, role)
}
