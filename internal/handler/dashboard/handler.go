package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicware/clinic-api/internal/handler"
	"github.com/clinicware/clinic-api/internal/middleware"
	"github.com/clinicware/clinic-api/internal/model"
	"github.com/clinicware/clinic-api/internal/repository"
)

type Handler struct {
	patients      repository.PatientRepository
	appointments  repository.AppointmentRepository
	prescriptions repository.PrescriptionRepository
	users         repository.UserRepository
}

func NewHandler(patients repository.PatientRepository, appointments repository.AppointmentRepository,
	prescriptions repository.PrescriptionRepository, users repository.UserRepository) *Handler {
	return &Handler{
		patients:      patients,
		appointments:  appointments,
		prescriptions: prescriptions,
		users:         users,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard/summary", h.Summary)
}

type summary struct {
	TotalPatients       int `json:"totalPatients"`
	TotalDoctors        int `json:"totalDoctors"`
	TodaysAppointments  int `json:"todaysAppointments"`
	PendingAppointments int `json:"pendingAppointments"`
	TotalPrescriptions  int `json:"totalPrescriptions"`
}

// Summary aggregates the landing-page counters in one round trip. Doctors
// see counts scoped to their own caseload; other roles see clinic totals.
func (h *Handler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	apptFilter := model.AppointmentFilter{}
	rxFilter := model.PrescriptionFilter{}
	if model.Role(c.GetString(middleware.ContextRole)) == model.RoleDoctor {
		uid := c.GetString(middleware.ContextUserID)
		apptFilter.DoctorID = uid
		rxFilter.DoctorID = uid
	}

	patients, err := h.patients.List(ctx, model.PatientFilter{})
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	appointments, err := h.appointments.List(ctx, apptFilter)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	prescriptions, err := h.prescriptions.List(ctx, rxFilter)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	users, err := h.users.List(ctx)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	s := summary{
		TotalPatients:      len(patients),
		TotalPrescriptions: len(prescriptions),
	}

	for _, u := range users {
		if u.Role == model.RoleDoctor {
			s.TotalDoctors++
		}
	}

	today := time.Now().UTC().Format("2006-01-02")
	for _, a := range appointments {
		if a.ScheduledAt.UTC().Format("2006-01-02") == today {
			s.TodaysAppointments++
		}
		if a.Status == model.AppointmentStatusPending {
			s.PendingAppointments++
		}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(s))
}
