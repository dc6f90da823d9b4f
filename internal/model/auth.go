package model

// TokenClaims are the claims carried by a session token.
type TokenClaims struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	TokenID string `json:"jti"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=admin doctor receptionist patient"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// OAuthRequest carries an identity assertion from an external provider.
// The provider's token verification happens upstream; this API trusts the
// asserted subject and upserts a profile for it.
type OAuthRequest struct {
	Provider string `json:"provider" binding:"required"`
	Subject  string `json:"subject" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}
