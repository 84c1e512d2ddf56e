package domain

type CtxKey string

const (
	KeyRequestID     CtxKey = "RequestID"
	KeyAdminUsername CtxKey = "AdminUsername"
)
