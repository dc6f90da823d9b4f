package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicware/clinic-api/internal/authz"
	"github.com/clinicware/clinic-api/internal/handler"
	"github.com/clinicware/clinic-api/internal/middleware"
	"github.com/clinicware/clinic-api/internal/model"
	"github.com/clinicware/clinic-api/internal/service/appointment"
)

type Handler struct {
	svc *appointment.Service
}

func NewHandler(svc *appointment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.POST("", auth.RequirePermission(authz.ActionCreate, authz.ResourceAppointment), h.CreateAppointment)
		appointments.PUT("/:id", auth.RequirePermission(authz.ActionUpdate, authz.ResourceAppointment), h.UpdateAppointment)
		appointments.PATCH("/:id/status", auth.RequirePermission(authz.ActionUpdateStatus, authz.ResourceAppointment), h.UpdateStatus)
		appointments.DELETE("/:id", auth.RequirePermission(authz.ActionDelete, authz.ResourceAppointment), h.DeleteAppointment)
	}
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filter := model.AppointmentFilter{
		DoctorID:  c.Query("doctorId"),
		PatientID: c.Query("patientId"),
		Status:    model.AppointmentStatus(c.Query("status")),
	}

	appointments, err := h.svc.FetchAppointments(c.Request.Context(), filter)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	appt, err := h.svc.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appt))
}

// CreateAppointment always books into pending; any status in the request
// body is ignored at the model level.
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appt, err := h.svc.CreateAppointment(c.Request.Context(), &req)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(appt))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appt, err := h.svc.UpdateAppointment(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appt))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appt, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appt))
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	if err := h.svc.DeleteAppointment(c.Request.Context(), c.Param("id")); err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("appointment deleted"))
}
