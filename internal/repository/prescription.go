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

type PrescriptionRepository interface {
	Create(ctx context.Context, p *model.Prescription) error
	Get(ctx context.Context, id string) (*model.Prescription, error)
	// AttachPDF patches the document with its hosted PDF location once the
	// upload completes.
	AttachPDF(ctx context.Context, id, pdfURL, storagePath string) error
	List(ctx context.Context, filter model.PrescriptionFilter) ([]*model.Prescription, error)
}

type prescriptionRepository struct {
	store docstore.Store
}

func NewPrescriptionRepository(store docstore.Store) PrescriptionRepository {
	return &prescriptionRepository{store: store}
}

func (r *prescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now().UTC()

	data, err := encode(p)
	if err != nil {
		return fmt.Errorf("failed to encode prescription: %w", err)
	}
	if _, err := r.store.Put(ctx, docstore.CollectionPrescriptions, p.ID, data); err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id string) (*model.Prescription, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionPrescriptions, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return decodePrescription(*doc)
}

func (r *prescriptionRepository) AttachPDF(ctx context.Context, id, pdfURL, storagePath string) error {
	err := r.store.Patch(ctx, docstore.CollectionPrescriptions, id, map[string]interface{}{
		"pdfUrl":      pdfURL,
		"storagePath": storagePath,
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return docstore.ErrNotFound
		}
		return fmt.Errorf("failed to attach pdf: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) List(ctx context.Context, filter model.PrescriptionFilter) ([]*model.Prescription, error) {
	q := docstore.Query{OrderBy: "createdAt", Desc: true}
	switch {
	case filter.PatientID != "":
		q.Field, q.Value = "patientId", filter.PatientID
	case filter.DoctorID != "":
		q.Field, q.Value = "doctorId", filter.DoctorID
	}

	docs, err := r.store.List(ctx, docstore.CollectionPrescriptions, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}

	prescriptions := make([]*model.Prescription, 0, len(docs))
	for _, doc := range docs {
		p, err := decodePrescription(doc)
		if err != nil {
			return nil, err
		}
		prescriptions = append(prescriptions, p)
	}
	return prescriptions, nil
}

func decodePrescription(doc docstore.Document) (*model.Prescription, error) {
	var p model.Prescription
	if err := decode(docstore.CollectionPrescriptions, doc, &p); err != nil {
		return nil, err
	}
	p.ID = doc.ID
	return &p, nil
}
