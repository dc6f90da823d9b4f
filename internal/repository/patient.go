package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicware/clinic-api/internal/docstore"
	"github.com/clinicware/clinic-api/internal/model"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id string) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter model.PatientFilter) ([]*model.Patient, error)
}

type patientRepository struct {
	store docstore.Store
}

func NewPatientRepository(store docstore.Store) PatientRepository {
	return &patientRepository{store: store}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	if patient.ID == "" {
		patient.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	patient.CreatedAt = now
	patient.UpdatedAt = now

	data, err := encode(patient)
	if err != nil {
		return fmt.Errorf("failed to encode patient: %w", err)
	}
	if _, err := r.store.Put(ctx, docstore.CollectionPatients, patient.ID, data); err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id string) (*model.Patient, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionPatients, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return decodePatient(*doc)
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	patient.UpdatedAt = time.Now().UTC()

	data, err := encode(patient)
	if err != nil {
		return fmt.Errorf("failed to encode patient: %w", err)
	}
	if _, err := r.store.Put(ctx, docstore.CollectionPatients, patient.ID, data); err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, docstore.CollectionPatients, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return docstore.ErrNotFound
		}
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, filter model.PatientFilter) ([]*model.Patient, error) {
	q := docstore.Query{OrderBy: "createdAt", Desc: true}
	if filter.Email != "" {
		q.Field, q.Value = "email", filter.Email
	}

	docs, err := r.store.List(ctx, docstore.CollectionPatients, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	patients := make([]*model.Patient, 0, len(docs))
	for _, doc := range docs {
		patient, err := decodePatient(doc)
		if err != nil {
			return nil, err
		}
		patients = append(patients, patient)
	}
	return patients, nil
}

func decodePatient(doc docstore.Document) (*model.Patient, error) {
	var patient model.Patient
	if err := decode(docstore.CollectionPatients, doc, &patient); err != nil {
		return nil, err
	}
	patient.ID = doc.ID
	return &patient, nil
}
