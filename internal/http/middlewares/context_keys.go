package middlewares

const (
	ctxUserIDKey = "auth.userID"
	ctxEmailKey  = "auth.email"
	ctxRoleKey   = "auth.role"

	CtxRequestID = "request_id"
)
