package contextkeys

type contextKey string

const (
	PrincipalKey contextKey = "Principal"
	RequestIDKey contextKey = "RequestID"
)
