// Package appointment implements the appointment lifecycle. New appointments
// always start pending regardless of caller input, and status changes must
// follow the transition graph: pending may be confirmed or cancelled,
// confirmed may be completed or cancelled, completed and cancelled are
// terminal.
package appointment

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/clinicware/clinic-api/internal/docstore"
	"github.com/clinicware/clinic-api/internal/model"
	"github.com/clinicware/clinic-api/internal/repository"
	"github.com/clinicware/clinic-api/internal/store"
	apperrors "github.com/clinicware/clinic-api/pkg/errors"
)

type Service struct {
	repo     repository.AppointmentRepository
	patients repository.PatientRepository
	users    repository.UserRepository
	state    *store.Slice[model.Appointment]
	validate *validator.Validate
	log      zerolog.Logger
}

func NewService(repo repository.AppointmentRepository, patients repository.PatientRepository,
	users repository.UserRepository, log zerolog.Logger) *Service {
	// Validate against the same binding tags gin uses.
	validate := validator.New()
	validate.SetTagName("binding")

	return &Service{
		repo:     repo,
		patients: patients,
		users:    users,
		state:    store.NewSlice[model.Appointment](),
		validate: validate,
		log:      log,
	}
}

func (s *Service) State() *store.Slice[model.Appointment] {
	return s.state
}

func (s *Service) FetchAppointments(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	s.state.SetLoading(true)

	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		s.state.SetError(err.Error())
		return nil, apperrors.Gateway("failed to fetch appointments", err)
	}

	items := make([]model.Appointment, len(appointments))
	for i, apt := range appointments {
		items[i] = *apt
	}
	s.state.SetList(items)
	return appointments, nil
}

func (s *Service) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	s.state.SetLoading(true)

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			s.state.SetCurrent(nil)
			return nil, nil
		}
		s.state.SetError(err.Error())
		return nil, apperrors.Gateway("failed to get appointment", err)
	}

	s.state.SetCurrent(apt)
	return apt, nil
}

// CreateAppointment validates required fields, snapshots the patient and
// doctor names if the caller did not supply them, forces status to pending
// and refetches the list.
func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if len(strings.TrimSpace(req.Reason)) < 3 {
		return nil, apperrors.Validation("reason must be at least 3 characters")
	}

	apt := &model.Appointment{
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		DoctorID:    req.DoctorID,
		DoctorName:  req.DoctorName,
		ScheduledAt: req.ScheduledAt,
		Reason:      req.Reason,
		Status:      model.AppointmentStatusPending,
		Notes:       req.Notes,
	}

	// Name fields are point-in-time snapshots; fill them from the source
	// records when absent.
	if apt.PatientName == "" {
		if patient, err := s.patients.Get(ctx, apt.PatientID); err == nil {
			apt.PatientName = patient.Name
		}
	}
	if apt.DoctorName == "" {
		if doctor, err := s.users.Get(ctx, apt.DoctorID); err == nil {
			apt.DoctorName = doctor.Name
		}
	}

	s.state.SetLoading(true)
	if err := s.repo.Create(ctx, apt); err != nil {
		s.state.SetError(err.Error())
		return nil, apperrors.Gateway("failed to create appointment", err)
	}

	if _, err := s.FetchAppointments(ctx, model.AppointmentFilter{}); err != nil {
		s.log.Warn().Err(err).Msg("refetch after appointment create failed")
	}
	return apt, nil
}

// UpdateStatus moves the appointment along the lifecycle graph. Illegal
// transitions are rejected before any write. There is no optimistic update:
// state reflects the prior status until the refetch completes.
func (s *Service) UpdateStatus(ctx context.Context, id string, target model.AppointmentStatus) (*model.Appointment, error) {
	if !target.Valid() {
		return nil, apperrors.Validation("unknown appointment status")
	}

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Gateway("failed to get appointment", err)
	}

	if !apt.Status.CanTransition(target) {
		return nil, apperrors.InvalidTransition(string(apt.Status), string(target))
	}

	s.state.SetLoading(true)
	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		s.state.SetError(err.Error())
		return nil, apperrors.Gateway("failed to update appointment status", err)
	}

	apt.Status = target
	if _, err := s.FetchAppointments(ctx, model.AppointmentFilter{}); err != nil {
		s.log.Warn().Err(err).Msg("refetch after status update failed")
	}
	return apt, nil
}

// UpdateAppointment applies reschedule/notes edits and refetches the list.
func (s *Service) UpdateAppointment(ctx context.Context, id string, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Gateway("failed to get appointment", err)
	}

	if req.ScheduledAt != nil {
		apt.ScheduledAt = *req.ScheduledAt
	}
	if req.Reason != nil {
		if len(strings.TrimSpace(*req.Reason)) < 3 {
			return nil, apperrors.Validation("reason must be at least 3 characters")
		}
		apt.Reason = *req.Reason
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	s.state.SetLoading(true)
	if err := s.repo.Update(ctx, apt); err != nil {
		s.state.SetError(err.Error())
		return nil, apperrors.Gateway("failed to update appointment", err)
	}

	if _, err := s.FetchAppointments(ctx, model.AppointmentFilter{}); err != nil {
		s.log.Warn().Err(err).Msg("refetch after appointment update failed")
	}
	return apt, nil
}

// DeleteAppointment hard-deletes, irreversibly; confirmation is the caller's
// responsibility.
func (s *Service) DeleteAppointment(ctx context.Context, id string) error {
	s.state.SetLoading(true)
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			s.state.SetError("appointment not found")
			return apperrors.NotFound("appointment", err)
		}
		s.state.SetError(err.Error())
		return apperrors.Gateway("failed to delete appointment", err)
	}

	if _, err := s.FetchAppointments(ctx, model.AppointmentFilter{}); err != nil {
		s.log.Warn().Err(err).Msg("refetch after appointment delete failed")
	}
	return nil
}
