package dynamo

// DynamoDB attribute names used in keys and update expressions across all repos.
const (
	fieldSessionID    = "session_id"
	fieldKey          = "key"
	fieldType         = "type"
	fieldEnable       = "enable"
	fieldAccessToken  = "access_token"
	fieldRefreshToken = "refresh_token"
	fieldExpiresAt    = "expires_at"
	fieldUserID       = "user_id"
	fieldUpdatedAt    = "updated_at"
)
