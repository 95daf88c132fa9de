package auth

// RegisterRequest is the request payload for creating an account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the request payload for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyEmailRequest is the request payload for confirming a verification code
type VerifyEmailRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}
