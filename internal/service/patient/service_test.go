package patient

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicware/clinic-api/internal/docstore"
	"github.com/clinicware/clinic-api/internal/model"
	"github.com/clinicware/clinic-api/internal/repository"
	apperrors "github.com/clinicware/clinic-api/pkg/errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo := repository.NewPatientRepository(docstore.NewMemoryStore())
	return NewService(repo, zerolog.Nop())
}

func validCreateRequest() *model.CreatePatientRequest {
	return &model.CreatePatientRequest{
		Name:        "Asha Verma",
		Email:       "asha@example.com",
		Phone:       "555-0101",
		DateOfBirth: "1988-04-12",
		Gender:      "female",
		BloodGroup:  "O+",
	}
}

func TestCreatePatientRefreshesList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePatient(ctx, validCreateRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	snap := svc.State().Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Asha Verma", snap.Items[0].Name)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err)
}

func TestCreatePatientValidation(t *testing.T) {
	svc := newTestService(t)

	req := validCreateRequest()
	req.Email = "not-an-email"

	_, err := svc.CreatePatient(context.Background(), req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	req = validCreateRequest()
	req.Gender = "unknown"
	_, err = svc.CreatePatient(context.Background(), req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestGetPatientMissingReturnsNil(t *testing.T) {
	svc := newTestService(t)

	patient, err := svc.GetPatient(context.Background(), "missing-id")
	require.NoError(t, err)
	assert.Nil(t, patient)

	snap := svc.State().Snapshot()
	assert.Nil(t, snap.Current)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err)
}

func TestUpdatePatientAppliesPartialFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePatient(ctx, validCreateRequest())
	require.NoError(t, err)

	name := "Asha V."
	history := "penicillin allergy"
	updated, err := svc.UpdatePatient(ctx, created.ID, &model.UpdatePatientRequest{
		Name:           &name,
		MedicalHistory: &history,
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha V.", updated.Name)
	assert.Equal(t, "penicillin allergy", updated.MedicalHistory)
	// Untouched fields survive.
	assert.Equal(t, "asha@example.com", updated.Email)
	assert.Equal(t, model.GenderFemale, updated.Gender)
}

func TestUpdatePatientUnknownID(t *testing.T) {
	svc := newTestService(t)

	name := "nobody"
	_, err := svc.UpdatePatient(context.Background(), "missing", &model.UpdatePatientRequest{Name: &name})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestUpdatePatientRejectsBadGender(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePatient(ctx, validCreateRequest())
	require.NoError(t, err)

	bad := "robot"
	_, err = svc.UpdatePatient(ctx, created.ID, &model.UpdatePatientRequest{Gender: &bad})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestDeletePatientRemovesFromList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePatient(ctx, validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeletePatient(ctx, created.ID))
	assert.Empty(t, svc.State().Snapshot().Items)

	err = svc.DeletePatient(ctx, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestFetchPatientsFilterByEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreatePatient(ctx, validCreateRequest())
	require.NoError(t, err)

	other := validCreateRequest()
	other.Name = "Ben Kim"
	other.Email = "ben@example.com"
	_, err = svc.CreatePatient(ctx, other)
	require.NoError(t, err)

	patients, err := svc.FetchPatients(ctx, model.PatientFilter{Email: "ben@example.com"})
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Ben Kim", patients[0].Name)
}

type failingPatientRepo struct {
	repository.PatientRepository
}

func (f *failingPatientRepo) List(ctx context.Context, filter model.PatientFilter) ([]*model.Patient, error) {
	return nil, assert.AnError
}

func TestFetchPatientsFailureKeepsPriorList(t *testing.T) {
	memRepo := repository.NewPatientRepository(docstore.NewMemoryStore())
	svc := NewService(memRepo, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.CreatePatient(ctx, validCreateRequest())
	require.NoError(t, err)
	require.Len(t, svc.State().Snapshot().Items, 1)

	// Swap in a repo whose List always fails.
	svc.repo = &failingPatientRepo{PatientRepository: memRepo}

	_, err = svc.FetchPatients(ctx, model.PatientFilter{})
	assert.True(t, apperrors.Is(err, apperrors.ErrGateway))

	snap := svc.State().Snapshot()
	assert.Len(t, snap.Items, 1, "failed fetch must not clobber the previous list")
	assert.NotEmpty(t, snap.Err)
	assert.False(t, snap.Loading)
}
