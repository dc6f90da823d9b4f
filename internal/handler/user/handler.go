package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicware/clinic-api/internal/authz"
	"github.com/clinicware/clinic-api/internal/handler"
	"github.com/clinicware/clinic-api/internal/middleware"
	"github.com/clinicware/clinic-api/internal/model"
	"github.com/clinicware/clinic-api/internal/service/session"
	"github.com/clinicware/clinic-api/internal/service/user"
)

type Handler struct {
	svc      *user.Service
	sessions *session.Resolver
}

func NewHandler(svc *user.Service, sessions *session.Resolver) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	users := r.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/me", h.CurrentUser)
		users.PUT("/me", h.UpdateCurrentUser)
		users.GET("/:id", h.GetUser)
		users.POST("", auth.RequirePermission(authz.ActionCreate, authz.ResourceUser), h.CreateUser)
	}
}

// ListUsers supports a role filter; the appointment form uses it to load
// the doctor list.
func (h *Handler) ListUsers(c *gin.Context) {
	role := model.Role(c.Query("role"))
	if role != "" && !role.Valid() {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("unknown role"))
		return
	}

	users, err := h.svc.ListUsers(c.Request.Context(), role)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(users))
}

func (h *Handler) CurrentUser(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) UpdateCurrentUser(c *gin.Context) {
	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	uid := c.GetString(middleware.ContextUserID)
	user, err := h.svc.UpdateUser(c.Request.Context(), uid, &req)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	// Cached session profiles go stale after a profile edit.
	h.sessions.Invalidate(uid)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), &req)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(user))
}
