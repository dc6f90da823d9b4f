package prescription

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicware/clinic-api/internal/authz"
	"github.com/clinicware/clinic-api/internal/handler"
	"github.com/clinicware/clinic-api/internal/middleware"
	"github.com/clinicware/clinic-api/internal/model"
	"github.com/clinicware/clinic-api/internal/service/prescription"
)

type Handler struct {
	svc *prescription.Service
}

func NewHandler(svc *prescription.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	prescriptions := r.Group("/prescriptions")
	{
		prescriptions.GET("", h.ListPrescriptions)
		prescriptions.GET("/:id", h.GetPrescription)
		prescriptions.POST("", auth.RequirePermission(authz.ActionCreate, authz.ResourcePrescription), h.CreatePrescription)
	}
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	filter := model.PrescriptionFilter{
		PatientID: c.Query("patientId"),
		DoctorID:  c.Query("doctorId"),
	}

	prescriptions, err := h.svc.FetchPrescriptions(c.Request.Context(), filter)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(prescriptions))
}

func (h *Handler) GetPrescription(c *gin.Context) {
	presc, err := h.svc.GetPrescription(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(presc))
}

// CreatePrescription persists the record, renders the PDF and responds with
// the document id plus either a signed pdfUrl or the inline pdfBase64 bytes.
func (h *Handler) CreatePrescription(c *gin.Context) {
	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.svc.CreatePrescription(c.Request.Context(), &req)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(result))
}
