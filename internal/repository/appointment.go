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

type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id string) (*model.Appointment, error)
	Update(ctx context.Context, apt *model.Appointment) error
	// UpdateStatus patches only the status and updatedAt fields.
	UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error)
}

type appointmentRepository struct {
	store docstore.Store
}

func NewAppointmentRepository(store docstore.Store) AppointmentRepository {
	return &appointmentRepository{store: store}
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	if apt.ID == "" {
		apt.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	apt.CreatedAt = now
	apt.UpdatedAt = now

	data, err := encode(apt)
	if err != nil {
		return fmt.Errorf("failed to encode appointment: %w", err)
	}
	if _, err := r.store.Put(ctx, docstore.CollectionAppointments, apt.ID, data); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id string) (*model.Appointment, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionAppointments, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return decodeAppointment(*doc)
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	apt.UpdatedAt = time.Now().UTC()

	data, err := encode(apt)
	if err != nil {
		return fmt.Errorf("failed to encode appointment: %w", err)
	}
	if _, err := r.store.Put(ctx, docstore.CollectionAppointments, apt.ID, data); err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	err := r.store.Patch(ctx, docstore.CollectionAppointments, id, map[string]interface{}{
		"status":    string(status),
		"updatedAt": time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return docstore.ErrNotFound
		}
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, docstore.CollectionAppointments, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return docstore.ErrNotFound
		}
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

// List applies at most one filter, doctor taking precedence over patient over
// status, ordered by scheduledAt descending.
func (r *appointmentRepository) List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	q := docstore.Query{OrderBy: "scheduledAt", Desc: true}
	switch {
	case filter.DoctorID != "":
		q.Field, q.Value = "doctorId", filter.DoctorID
	case filter.PatientID != "":
		q.Field, q.Value = "patientId", filter.PatientID
	case filter.Status != "":
		q.Field, q.Value = "status", string(filter.Status)
	}

	docs, err := r.store.List(ctx, docstore.CollectionAppointments, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	appointments := make([]*model.Appointment, 0, len(docs))
	for _, doc := range docs {
		apt, err := decodeAppointment(doc)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, apt)
	}
	return appointments, nil
}

func decodeAppointment(doc docstore.Document) (*model.Appointment, error) {
	var apt model.Appointment
	if err := decode(docstore.CollectionAppointments, doc, &apt); err != nil {
		return nil, err
	}
	apt.ID = doc.ID
	return &apt, nil
}
