package constants

// Context keys
const (
	ContextKeyUser     = "user"
	ContextKeyToken    = "token"
	ContextKeyDecision = "decision"
)

// HTTP header and response keys
const (
	HeaderAuthorization = "Authorization"
	ResponseError       = "error"
	ResponseData        = "data"
	FieldMessage        = "message"
)
