package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinicware/clinic-api/internal/handler"
	"github.com/clinicware/clinic-api/internal/model"
	"github.com/clinicware/clinic-api/internal/service/auth"
	"github.com/clinicware/clinic-api/internal/service/session"
)

const sessionCookie = "token"

// sessionCookies mirrors the names the auth middleware and route gate accept.
var sessionCookies = []string{sessionCookie, "__session"}

type Handler struct {
	svc      *auth.Service
	sessions *session.Resolver
}

func NewHandler(svc *auth.Service, sessions *session.Resolver) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/login", h.Login)
		auth.POST("/oauth", h.OAuthLogin)
		auth.POST("/logout", h.Logout)
		auth.GET("/session", h.Session)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
	}
}

type authResponse struct {
	User  *model.UserProfile   `json:"user"`
	Token *model.TokenResponse `json:"token"`
}

func (h *Handler) SignUp(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	user, token, err := h.svc.SignUp(c.Request.Context(), &req)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(authResponse{User: user, Token: token}))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	user, token, err := h.svc.SignIn(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid credentials"))
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(authResponse{User: user, Token: token}))
}

func (h *Handler) OAuthLogin(c *gin.Context) {
	var req model.OAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	user, token, err := h.svc.SignInWithOAuth(c.Request.Context(), &req)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(authResponse{User: user, Token: token}))
}

func (h *Handler) Logout(c *gin.Context) {
	token := requestToken(c)
	if token != "" {
		if err := h.svc.SignOut(c.Request.Context(), token); err != nil {
			handler.WriteError(c, err)
			return
		}
	}

	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, handler.NewSuccessResponse("logged out successfully"))
}

// Session resolves the caller's session and role gate. The allow query
// parameter carries a comma-separated role list; an empty list admits any
// authenticated user.
func (h *Handler) Session(c *gin.Context) {
	var allow []model.Role
	if raw := c.Query("allow"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			allow = append(allow, model.Role(strings.TrimSpace(part)))
		}
	}

	guard := h.sessions.Resolve(c.Request.Context(), requestToken(c), allow)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"outcome": guard.Outcome.String(),
		"loading": guard.Loading,
		"role":    guard.Role,
		"user":    guard.User,
	}))
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.svc.SendPasswordReset(c.Request.Context(), req.Email); err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("if the account exists, a reset email has been sent"))
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("password updated"))
}

func (h *Handler) setSessionCookie(c *gin.Context, token *model.TokenResponse) {
	c.SetCookie(sessionCookie, token.AccessToken, int(token.ExpiresIn), "/", "", false, true)
}

func requestToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	for _, name := range sessionCookies {
		if cookie, err := c.Request.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value
		}
	}
	return ""
}
