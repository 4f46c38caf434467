package dto

type RegisterRequest struct {
	Nickname string `json:"nickname" binding:"required,min=1,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// UserInfo is the public profile projection returned by GET /user.
type UserInfo struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Type     string `json:"type"`
}

// UpdateProfileRequest carries a partial update: a nil field means the
// corresponding column is left unchanged.
type UpdateProfileRequest struct {
	Nickname *string `json:"nickname" binding:"omitempty,min=1,max=50"`
	Password *string `json:"password" binding:"omitempty,min=8,max=100"`
}

type SetUserTypeRequest struct {
	Type string `json:"type" binding:"required,oneof=normal admin"`
}
