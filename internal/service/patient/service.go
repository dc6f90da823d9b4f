// Package patient orchestrates patient record operations: validate, write
// through the persistence gateway, then refetch the full list into the state
// container.
package patient

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/clinicware/clinic-api/internal/docstore"
	"github.com/clinicware/clinic-api/internal/model"
	"github.com/clinicware/clinic-api/internal/repository"
	"github.com/clinicware/clinic-api/internal/store"
	apperrors "github.com/clinicware/clinic-api/pkg/errors"
)

type Service struct {
	repo     repository.PatientRepository
	state    *store.Slice[model.Patient]
	validate *validator.Validate
	log      zerolog.Logger
}

func NewService(repo repository.PatientRepository, log zerolog.Logger) *Service {
	// Validate against the same binding tags gin uses.
	validate := validator.New()
	validate.SetTagName("binding")

	return &Service{
		repo:     repo,
		state:    store.NewSlice[model.Patient](),
		validate: validate,
		log:      log,
	}
}

// State exposes the patients state container.
func (s *Service) State() *store.Slice[model.Patient] {
	return s.state
}

// FetchPatients loads the full list into the state container.
func (s *Service) FetchPatients(ctx context.Context, filter model.PatientFilter) ([]*model.Patient, error) {
	s.state.SetLoading(true)

	patients, err := s.repo.List(ctx, filter)
	if err != nil {
		s.state.SetError(err.Error())
		return nil, apperrors.Gateway("failed to fetch patients", err)
	}

	items := make([]model.Patient, len(patients))
	for i, p := range patients {
		items[i] = *p
	}
	s.state.SetList(items)
	return patients, nil
}

// GetPatient resolves a single record. A missing record clears the current
// item and returns nil without error.
func (s *Service) GetPatient(ctx context.Context, id string) (*model.Patient, error) {
	s.state.SetLoading(true)

	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			s.state.SetCurrent(nil)
			return nil, nil
		}
		s.state.SetError(err.Error())
		return nil, apperrors.Gateway("failed to get patient", err)
	}

	s.state.SetCurrent(patient)
	return patient, nil
}

// CreatePatient validates input, writes the record and refetches the list.
// On gateway failure the previously fetched list is left untouched.
func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	patient := &model.Patient{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		DateOfBirth:    req.DateOfBirth,
		Gender:         model.Gender(req.Gender),
		Address:        req.Address,
		BloodGroup:     req.BloodGroup,
		MedicalHistory: req.MedicalHistory,
	}

	s.state.SetLoading(true)
	if err := s.repo.Create(ctx, patient); err != nil {
		s.state.SetError(err.Error())
		return nil, apperrors.Gateway("failed to create patient", err)
	}

	if _, err := s.FetchPatients(ctx, model.PatientFilter{}); err != nil {
		s.log.Warn().Err(err).Msg("refetch after patient create failed")
	}
	return patient, nil
}

// UpdatePatient applies partial updates and refetches the list.
func (s *Service) UpdatePatient(ctx context.Context, id string, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Gateway("failed to get patient", err)
	}

	applyPatientUpdates(patient, req)
	if patient.Gender != "" && patient.Gender != model.GenderMale &&
		patient.Gender != model.GenderFemale && patient.Gender != model.GenderOther {
		return nil, apperrors.Validation("invalid gender")
	}

	s.state.SetLoading(true)
	if err := s.repo.Update(ctx, patient); err != nil {
		s.state.SetError(err.Error())
		return nil, apperrors.Gateway("failed to update patient", err)
	}

	if _, err := s.FetchPatients(ctx, model.PatientFilter{}); err != nil {
		s.log.Warn().Err(err).Msg("refetch after patient update failed")
	}
	return patient, nil
}

// DeletePatient hard-deletes the record and refetches the list. The caller is
// expected to have confirmed the deletion.
func (s *Service) DeletePatient(ctx context.Context, id string) error {
	s.state.SetLoading(true)
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			s.state.SetError("patient not found")
			return apperrors.NotFound("patient", err)
		}
		s.state.SetError(err.Error())
		return apperrors.Gateway("failed to delete patient", err)
	}

	if _, err := s.FetchPatients(ctx, model.PatientFilter{}); err != nil {
		s.log.Warn().Err(err).Msg("refetch after patient delete failed")
	}
	return nil
}

func applyPatientUpdates(patient *model.Patient, req *model.UpdatePatientRequest) {
	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = *req.DateOfBirth
	}
	if req.Gender != nil {
		patient.Gender = model.Gender(*req.Gender)
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.BloodGroup != nil {
		patient.BloodGroup = *req.BloodGroup
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = *req.MedicalHistory
	}
}
