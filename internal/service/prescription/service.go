// Package prescription implements the prescription creation pipeline. The
// document write is the durability checkpoint; PDF rendering follows, and the
// upload to blob storage may fail independently without failing the caller.
// The result always carries exactly one of a hosted pdfUrl or the inline
// pdfBase64 content.
package prescription

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clinicware/clinic-api/internal/docstore"
	"github.com/clinicware/clinic-api/internal/model"
	"github.com/clinicware/clinic-api/internal/pdf"
	"github.com/clinicware/clinic-api/internal/repository"
	"github.com/clinicware/clinic-api/internal/storage"
	"github.com/clinicware/clinic-api/internal/store"
	apperrors "github.com/clinicware/clinic-api/pkg/errors"
)

type Service struct {
	repo     repository.PrescriptionRepository
	patients repository.PatientRepository
	users    repository.UserRepository
	renderer pdf.Renderer
	blobs    storage.BlobStore // nil when storage is unconfigured
	state    *store.Slice[model.Prescription]
	log      zerolog.Logger
}

func NewService(repo repository.PrescriptionRepository, patients repository.PatientRepository,
	users repository.UserRepository, renderer pdf.Renderer, blobs storage.BlobStore,
	log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		users:    users,
		renderer: renderer,
		blobs:    blobs,
		state:    store.NewSlice[model.Prescription](),
		log:      log,
	}
}

func (s *Service) State() *store.Slice[model.Prescription] {
	return s.state
}

func (s *Service) FetchPrescriptions(ctx context.Context, filter model.PrescriptionFilter) ([]*model.Prescription, error) {
	s.state.SetLoading(true)

	prescriptions, err := s.repo.List(ctx, filter)
	if err != nil {
		s.state.SetError(err.Error())
		return nil, apperrors.Gateway("failed to fetch prescriptions", err)
	}

	items := make([]model.Prescription, len(prescriptions))
	for i, p := range prescriptions {
		items[i] = *p
	}
	s.state.SetList(items)
	return prescriptions, nil
}

func (s *Service) GetPrescription(ctx context.Context, id string) (*model.Prescription, error) {
	s.state.SetLoading(true)

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			s.state.SetCurrent(nil)
			return nil, nil
		}
		s.state.SetError(err.Error())
		return nil, apperrors.Gateway("failed to get prescription", err)
	}

	s.state.SetCurrent(p)
	return p, nil
}

// CreatePrescription runs the full pipeline:
//
//  1. validate the payload,
//  2. persist the document (a failure here stops everything),
//  3. render the PDF in memory (a failure here surfaces to the caller),
//  4. upload to blob storage (a failure here is swallowed and logged),
//  5. patch the document with the hosted location, or fall back to returning
//     the PDF bytes inline.
func (s *Service) CreatePrescription(ctx context.Context, req *model.CreatePrescriptionRequest) (*model.CreatePrescriptionResult, error) {
	meds := make([]model.Medication, len(req.Medications))
	for i, m := range req.Medications {
		meds[i] = m.Medication()
	}
	if err := validateCreate(req, meds); err != nil {
		return nil, err
	}

	p := &model.Prescription{
		PatientID:     req.PatientID,
		PatientName:   req.PatientName,
		DoctorID:      req.DoctorID,
		DoctorName:    req.DoctorName,
		AppointmentID: req.AppointmentID,
		Diagnosis:     req.Diagnosis,
		Medications:   meds,
		Notes:         req.Notes,
	}

	if p.PatientName == "" {
		if patient, err := s.patients.Get(ctx, p.PatientID); err == nil {
			p.PatientName = patient.Name
		}
	}
	if p.DoctorName == "" {
		if doctor, err := s.users.Get(ctx, p.DoctorID); err == nil {
			p.DoctorName = doctor.Name
		}
	}

	s.state.SetLoading(true)
	if err := s.repo.Create(ctx, p); err != nil {
		s.state.SetError(err.Error())
		return nil, apperrors.Gateway("failed to create prescription", err)
	}

	pdfBytes, err := s.renderer.Render(p)
	if err != nil {
		s.state.SetError(err.Error())
		return nil, apperrors.Internal(fmt.Errorf("pdf rendering failed: %w", err))
	}

	result := &model.CreatePrescriptionResult{ID: p.ID}
	key := fmt.Sprintf("prescriptions/%s.pdf", p.ID)

	uploaded := false
	if s.blobs != nil {
		url, uploadErr := s.blobs.Put(ctx, key, pdfBytes)
		if uploadErr != nil {
			s.log.Warn().Err(uploadErr).Str("prescription_id", p.ID).Msg("pdf upload failed, returning inline content")
		} else {
			if patchErr := s.repo.AttachPDF(ctx, p.ID, url, key); patchErr != nil {
				// The upload stuck; the URL is still usable.
				s.log.Warn().Err(patchErr).Str("prescription_id", p.ID).Msg("failed to attach pdf url to prescription")
			}
			result.PDFURL = url
			uploaded = true
		}
	}
	if !uploaded {
		result.PDFBase64 = base64.StdEncoding.EncodeToString(pdfBytes)
	}

	if _, err := s.FetchPrescriptions(ctx, model.PrescriptionFilter{}); err != nil {
		s.log.Warn().Err(err).Msg("refetch after prescription create failed")
	}
	return result, nil
}

func validateCreate(req *model.CreatePrescriptionRequest, meds []model.Medication) error {
	if strings.TrimSpace(req.PatientID) == "" {
		return apperrors.Validation("patient is required")
	}
	if strings.TrimSpace(req.DoctorID) == "" {
		return apperrors.Validation("doctor is required")
	}
	if len(meds) == 0 {
		return apperrors.Validation("at least one medication is required")
	}
	for i, med := range meds {
		if strings.TrimSpace(med.Name) == "" ||
			strings.TrimSpace(med.Dosage) == "" ||
			strings.TrimSpace(med.Frequency) == "" {
			return apperrors.Validation(fmt.Sprintf("medication %d needs a name, dosage and frequency", i+1))
		}
	}
	return nil
}
