package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidState       = "INVALID_STATE"
	CodeMissingToken       = "MISSING_TOKEN"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeAccountDeactivated = "ACCOUNT_DEACTIVATED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeQuotaExceeded      = "QUOTA_EXCEEDED"
	CodeNotFound           = "NOT_FOUND"
	CodeDuplicateKey       = "DUPLICATE_KEY"
	CodeVersionConflict    = "VERSION_CONFLICT"
	CodeRateLimited        = "RATE_LIMITED"

	// Server errors (5xx)
	CodeRequestTimeout = "REQUEST_TIMEOUT"
	CodeInternalError  = "INTERNAL_ERROR"
)
