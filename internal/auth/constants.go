package auth

const (
	ContextKeyOwnerID = "owner_id"

	headerAuthorization = "Authorization"
	bearerScheme        = "bearer"
	authHeaderParts     = 2

	msgMissingAuthorization  = "missing authorization header"
	msgInvalidOrExpiredToken = "invalid or expired token"
	msgMissingOwnerIdentity  = "caller identity not found in request context"
	msgAssetNotFound         = "asset not found"
)
