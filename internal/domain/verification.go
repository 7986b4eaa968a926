package domain

// Verification types stored in the verifications table.
const (
	VerificationPKCE         = "pkce"
	VerificationResetRequest = "reset_request"
)

// Verification stores short-lived reset artefacts.
// PK: key (browser session id for "pkce", normalized email for "reset_request"), SK: type.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type Verification struct {
	Key       string `json:"key" dynamodbav:"key"`
	Type      string `json:"type" dynamodbav:"type"`
	Code      string `json:"code" dynamodbav:"code"`
	Email     string `json:"email" dynamodbav:"email"`
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
