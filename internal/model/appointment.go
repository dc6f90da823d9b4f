package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// appointmentTransitions is the enforced lifecycle graph. Completed and
// cancelled are terminal.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusCompleted: {},
	AppointmentStatusCancelled: {},
}

// CanTransition reports whether moving from s to target is a legal
// lifecycle step.
func (s AppointmentStatus) CanTransition(target AppointmentStatus) bool {
	for _, next := range appointmentTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Appointment references Patient and the doctor's UserProfile by id.
// PatientName and DoctorName are snapshots copied at creation time; they are
// display caches and may drift from the source records.
type Appointment struct {
	ID          string            `json:"id"`
	PatientID   string            `json:"patientId"`
	PatientName string            `json:"patientName"`
	DoctorID    string            `json:"doctorId"`
	DoctorName  string            `json:"doctorName"`
	ScheduledAt time.Time         `json:"scheduledAt"`
	Reason      string            `json:"reason"`
	Status      AppointmentStatus `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// CreateAppointmentRequest carries no status field on purpose: new
// appointments always start as pending regardless of caller input.
type CreateAppointmentRequest struct {
	PatientID   string    `json:"patientId" binding:"required"`
	PatientName string    `json:"patientName"`
	DoctorID    string    `json:"doctorId" binding:"required"`
	DoctorName  string    `json:"doctorName"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
	Reason      string    `json:"reason" binding:"required,min=3"`
	Notes       string    `json:"notes"`
}

type UpdateAppointmentRequest struct {
	ScheduledAt *time.Time `json:"scheduledAt"`
	Reason      *string    `json:"reason" binding:"omitempty,min=3"`
	Notes       *string    `json:"notes"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
}

type AppointmentFilter struct {
	DoctorID  string            `form:"doctor_id"`
	PatientID string            `form:"patient_id"`
	Status    AppointmentStatus `form:"status"`
}
