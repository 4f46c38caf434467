package constants

// User types. Exactly one root ever exists; it is assigned to the first
// registered user.
const (
	UserTypeRoot   = "root"
	UserTypeAdmin  = "admin"
	UserTypeNormal = "normal"
)

// User statuses (soft delete is tracked separately via deleted_at).
const (
	UserStatusActive  = "active"
	UserStatusDeleted = "deleted"
)

// Defaults applied at registration.
const (
	DefaultAvatar = "v2/avatars/default.png"

	// Public user identifier: 8 characters over an alphanumeric alphabet.
	UserIDLength   = 8
	UserIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Locale handling for response messages.
const (
	QueryParamLang = "lang"
	DefaultLang    = "en"
)

// Gin context keys set by middleware.
const (
	CtxKeyRequestID = "request_id"
	CtxKeyToken     = "token"
)
