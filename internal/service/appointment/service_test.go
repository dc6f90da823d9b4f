package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicware/clinic-api/internal/docstore"
	"github.com/clinicware/clinic-api/internal/model"
	"github.com/clinicware/clinic-api/internal/repository"
	apperrors "github.com/clinicware/clinic-api/pkg/errors"
)

type fixture struct {
	svc      *Service
	patients repository.PatientRepository
	users    repository.UserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := docstore.NewMemoryStore()
	patients := repository.NewPatientRepository(store)
	users := repository.NewUserRepository(store)
	svc := NewService(repository.NewAppointmentRepository(store), patients, users, zerolog.Nop())
	return &fixture{svc: svc, patients: patients, users: users}
}

func (f *fixture) seedPatientAndDoctor(t *testing.T) (patientID, doctorID string) {
	t.Helper()
	ctx := context.Background()

	patient := &model.Patient{Name: "Ravi Shah", Email: "ravi@example.com", Phone: "555-0102",
		DateOfBirth: "1975-09-30", Gender: model.GenderMale}
	require.NoError(t, f.patients.Create(ctx, patient))

	doctor := &model.UserProfile{Name: "Dr. Mira Chen", Email: "mira@clinic.example", Role: model.RoleDoctor}
	require.NoError(t, f.users.Create(ctx, doctor))

	return patient.ID, doctor.UID
}

func createRequest(patientID, doctorID string) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		PatientID:   patientID,
		DoctorID:    doctorID,
		ScheduledAt: time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
		Reason:      "annual checkup",
	}
}

func TestCreateAppointmentAlwaysStartsPending(t *testing.T) {
	f := newFixture(t)
	patientID, doctorID := f.seedPatientAndDoctor(t)

	apt, err := f.svc.CreateAppointment(context.Background(), createRequest(patientID, doctorID))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, apt.Status)

	stored, err := f.svc.GetAppointment(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, stored.Status)
}

func TestCreateAppointmentSnapshotsNames(t *testing.T) {
	f := newFixture(t)
	patientID, doctorID := f.seedPatientAndDoctor(t)

	apt, err := f.svc.CreateAppointment(context.Background(), createRequest(patientID, doctorID))
	require.NoError(t, err)
	assert.Equal(t, "Ravi Shah", apt.PatientName)
	assert.Equal(t, "Dr. Mira Chen", apt.DoctorName)
}

func TestCreateAppointmentKeepsCallerNames(t *testing.T) {
	f := newFixture(t)
	patientID, doctorID := f.seedPatientAndDoctor(t)

	req := createRequest(patientID, doctorID)
	req.PatientName = "R. Shah"
	apt, err := f.svc.CreateAppointment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "R. Shah", apt.PatientName)
}

func TestCreateAppointmentShortReason(t *testing.T) {
	f := newFixture(t)
	patientID, doctorID := f.seedPatientAndDoctor(t)

	req := createRequest(patientID, doctorID)
	req.Reason = "x"
	_, err := f.svc.CreateAppointment(context.Background(), req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	// Whitespace padding does not help.
	req.Reason = " x "
	_, err = f.svc.CreateAppointment(context.Background(), req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	f := newFixture(t)
	patientID, doctorID := f.seedPatientAndDoctor(t)
	ctx := context.Background()

	apt, err := f.svc.CreateAppointment(ctx, createRequest(patientID, doctorID))
	require.NoError(t, err)

	confirmed, err := f.svc.UpdateStatus(ctx, apt.ID, model.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, confirmed.Status)

	// A fresh read reflects the persisted transition.
	stored, err := f.svc.GetAppointment(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, stored.Status)

	completed, err := f.svc.UpdateStatus(ctx, apt.ID, model.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, completed.Status)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	f := newFixture(t)
	patientID, doctorID := f.seedPatientAndDoctor(t)
	ctx := context.Background()

	apt, err := f.svc.CreateAppointment(ctx, createRequest(patientID, doctorID))
	require.NoError(t, err)

	// pending -> completed skips confirmation.
	_, err = f.svc.UpdateStatus(ctx, apt.ID, model.AppointmentStatusCompleted)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidTransition))

	// The stored record is untouched.
	stored, err := f.svc.GetAppointment(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, stored.Status)
}

func TestUpdateStatusTerminalStatesAreFinal(t *testing.T) {
	f := newFixture(t)
	patientID, doctorID := f.seedPatientAndDoctor(t)
	ctx := context.Background()

	apt, err := f.svc.CreateAppointment(ctx, createRequest(patientID, doctorID))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, apt.ID, model.AppointmentStatusCancelled)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, apt.ID, model.AppointmentStatusConfirmed)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidTransition))
}

func TestUpdateStatusUnknownTarget(t *testing.T) {
	f := newFixture(t)
	patientID, doctorID := f.seedPatientAndDoctor(t)
	ctx := context.Background()

	apt, err := f.svc.CreateAppointment(ctx, createRequest(patientID, doctorID))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, apt.ID, model.AppointmentStatus("rescheduled"))
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestUpdateStatusMissingAppointment(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), "missing", model.AppointmentStatusConfirmed)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestUpdateAppointmentReschedule(t *testing.T) {
	f := newFixture(t)
	patientID, doctorID := f.seedPatientAndDoctor(t)
	ctx := context.Background()

	apt, err := f.svc.CreateAppointment(ctx, createRequest(patientID, doctorID))
	require.NoError(t, err)

	newTime := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
	notes := "patient requested afternoon"
	updated, err := f.svc.UpdateAppointment(ctx, apt.ID, &model.UpdateAppointmentRequest{
		ScheduledAt: &newTime,
		Notes:       &notes,
	})
	require.NoError(t, err)
	assert.True(t, updated.ScheduledAt.Equal(newTime))
	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, "annual checkup", updated.Reason)
}

func TestFetchAppointmentsFilters(t *testing.T) {
	f := newFixture(t)
	patientID, doctorID := f.seedPatientAndDoctor(t)
	ctx := context.Background()

	otherDoctor := &model.UserProfile{Name: "Dr. Lee", Email: "lee@clinic.example", Role: model.RoleDoctor}
	require.NoError(t, f.users.Create(ctx, otherDoctor))

	_, err := f.svc.CreateAppointment(ctx, createRequest(patientID, doctorID))
	require.NoError(t, err)
	req := createRequest(patientID, otherDoctor.UID)
	req.Reason = "follow-up visit"
	_, err = f.svc.CreateAppointment(ctx, req)
	require.NoError(t, err)

	byDoctor, err := f.svc.FetchAppointments(ctx, model.AppointmentFilter{DoctorID: doctorID})
	require.NoError(t, err)
	require.Len(t, byDoctor, 1)
	assert.Equal(t, doctorID, byDoctor[0].DoctorID)

	byPatient, err := f.svc.FetchAppointments(ctx, model.AppointmentFilter{PatientID: patientID})
	require.NoError(t, err)
	assert.Len(t, byPatient, 2)
}

func TestDeleteAppointment(t *testing.T) {
	f := newFixture(t)
	patientID, doctorID := f.seedPatientAndDoctor(t)
	ctx := context.Background()

	apt, err := f.svc.CreateAppointment(ctx, createRequest(patientID, doctorID))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteAppointment(ctx, apt.ID))
	assert.True(t, apperrors.Is(f.svc.DeleteAppointment(ctx, apt.ID), apperrors.ErrNotFound))
}
