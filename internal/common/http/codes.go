package http

const (
	CodeUnknown          = "UNKNOWN"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInvalidJSON      = "INVALID_JSON"
	CodeBadRequest       = "BAD_REQUEST"
	CodeInvalidUserID    = "INVALID_USER_ID"
	CodeMissingAuth      = "MISSING_AUTHORIZATION"
	CodeInvalidToken     = "INVALID_TOKEN"
	CodeBodyTooLarge     = "BODY_TOO_LARGE"
)
