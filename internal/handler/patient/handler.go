package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicware/clinic-api/internal/authz"
	"github.com/clinicware/clinic-api/internal/handler"
	"github.com/clinicware/clinic-api/internal/middleware"
	"github.com/clinicware/clinic-api/internal/model"
	"github.com/clinicware/clinic-api/internal/service/appointment"
	"github.com/clinicware/clinic-api/internal/service/patient"
	"github.com/clinicware/clinic-api/internal/service/prescription"
)

type Handler struct {
	svc           *patient.Service
	appointments  *appointment.Service
	prescriptions *prescription.Service
}

func NewHandler(svc *patient.Service, appointments *appointment.Service,
	prescriptions *prescription.Service) *Handler {
	return &Handler{svc: svc, appointments: appointments, prescriptions: prescriptions}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.GET("/:id/history", h.PatientHistory)
		patients.POST("", auth.RequirePermission(authz.ActionCreate, authz.ResourcePatient), h.CreatePatient)
		patients.PUT("/:id", auth.RequirePermission(authz.ActionUpdate, authz.ResourcePatient), h.UpdatePatient)
		patients.DELETE("/:id", auth.RequirePermission(authz.ActionDelete, authz.ResourcePatient), h.DeletePatient)
	}
}

func (h *Handler) ListPatients(c *gin.Context) {
	filter := model.PatientFilter{Email: c.Query("email")}

	patients, err := h.svc.FetchPatients(c.Request.Context(), filter)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

// GetPatient returns a null data field for an unknown ID rather than 404,
// so a detail view can distinguish "missing" from "failed".
func (h *Handler) GetPatient(c *gin.Context) {
	patient, err := h.svc.GetPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

// PatientHistory assembles the medical record view for one patient: the
// profile plus their appointments and prescriptions.
func (h *Handler) PatientHistory(c *gin.Context) {
	id := c.Param("id")

	patient, err := h.svc.GetPatient(c.Request.Context(), id)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	if patient == nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("patient not found"))
		return
	}

	appointments, err := h.appointments.FetchAppointments(c.Request.Context(),
		model.AppointmentFilter{PatientID: id})
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	prescriptions, err := h.prescriptions.FetchPrescriptions(c.Request.Context(),
		model.PrescriptionFilter{PatientID: id})
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"patient":       patient,
		"appointments":  appointments,
		"prescriptions": prescriptions,
	}))
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patient, err := h.svc.CreatePatient(c.Request.Context(), &req)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(patient))
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patient, err := h.svc.UpdatePatient(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) DeletePatient(c *gin.Context) {
	if err := h.svc.DeletePatient(c.Request.Context(), c.Param("id")); err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("patient deleted"))
}
