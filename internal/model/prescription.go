package model

import "time"

type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions,omitempty"`
}

// Prescription is immutable after creation, except for the asynchronous
// attachment of PDFURL/StoragePath once rendering and upload complete.
// PatientName and DoctorName are creation-time snapshots.
type Prescription struct {
	ID            string       `json:"id"`
	PatientID     string       `json:"patientId"`
	PatientName   string       `json:"patientName"`
	DoctorID      string       `json:"doctorId"`
	DoctorName    string       `json:"doctorName"`
	AppointmentID string       `json:"appointmentId,omitempty"`
	Diagnosis     string       `json:"diagnosis"`
	Medications   []Medication `json:"medications"`
	Notes         string       `json:"notes,omitempty"`
	PDFURL        string       `json:"pdfUrl,omitempty"`
	StoragePath   string       `json:"storagePath,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// MedicationInput is the wire form of a medication item. Clients send the
// strength as `dose`; `dosage` is accepted too and wins when both appear.
type MedicationInput struct {
	Name         string `json:"name"`
	Dose         string `json:"dose"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

// Medication converts the wire form to the stored entity.
func (m MedicationInput) Medication() Medication {
	dosage := m.Dosage
	if dosage == "" {
		dosage = m.Dose
	}
	return Medication{
		Name:         m.Name,
		Dosage:       dosage,
		Frequency:    m.Frequency,
		Duration:     m.Duration,
		Instructions: m.Instructions,
	}
}

type CreatePrescriptionRequest struct {
	PatientID     string            `json:"patientId" binding:"required"`
	PatientName   string            `json:"patientName"`
	DoctorID      string            `json:"doctorId" binding:"required"`
	DoctorName    string            `json:"doctorName"`
	AppointmentID string            `json:"appointmentId"`
	Diagnosis     string            `json:"diagnosis"`
	Medications   []MedicationInput `json:"meds" binding:"required"`
	Notes         string            `json:"notes"`
}

// CreatePrescriptionResult always carries exactly one of PDFURL or PDFBase64.
// PDFURL when the rendered document was uploaded to blob storage, PDFBase64
// when storage was unavailable and the bytes are returned inline.
type CreatePrescriptionResult struct {
	ID        string `json:"id"`
	PDFURL    string `json:"pdfUrl,omitempty"`
	PDFBase64 string `json:"pdfBase64,omitempty"`
}

type PrescriptionFilter struct {
	PatientID string `form:"patient_id"`
	DoctorID  string `form:"doctor_id"`
}
