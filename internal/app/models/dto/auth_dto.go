package dto

// RegisterRequest is the signup payload
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100" example:"Jane Doe"`
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"s3cret-pass"`
	Role     string `json:"role" binding:"required,oneof=TEACHER STUDENT" example:"TEACHER"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// TokenResponse carries the access token issued after register/login
type TokenResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType" example:"Bearer"`
	ExpiresIn   int          `json:"expiresIn" example:"3600"`
	User        UserResponse `json:"user"`
}

// UserResponse is the public view of a user (no password hash)
type UserResponse struct {
	ID    int64  `json:"id" example:"1"`
	Name  string `json:"name" example:"Jane Doe"`
	Email string `json:"email" example:"jane@example.com"`
	Role  string `json:"role" example:"TEACHER"`
}
