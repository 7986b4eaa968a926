package gotrue

// Auth API endpoint paths, relative to the backend base URL.
const (
	authBasePath = "/auth/v1"

	userPath    = authBasePath + "/user"
	verifyPath  = authBasePath + "/verify"
	recoverPath = authBasePath + "/recover"
	tokenPath   = authBasePath + "/token"
)

const (
	grantPKCE       = "pkce"
	grantRefresh    = "refresh_token"
	challengeMethod = "s256"
)

const (
	headerAPIKey    = "apikey"
	headerAuthorize = "Authorization"
	headerAccept    = "Accept"
	headerContent   = "Content-Type"
	contentTypeJSON = "application/json"
)
