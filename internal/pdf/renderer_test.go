package pdf

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicware/clinic-api/internal/model"
)

func samplePrescription() *model.Prescription {
	return &model.Prescription{
		ID:          "rx-1",
		PatientID:   "p1",
		PatientName: "Ravi Shah",
		DoctorID:    "d1",
		DoctorName:  "Dr. Mira Chen",
		Diagnosis:   "seasonal allergy",
		Medications: []model.Medication{
			{Name: "Cetirizine", Dosage: "10mg", Frequency: "once daily", Duration: "14 days"},
			{Name: "Saline spray", Dosage: "2 sprays", Frequency: "twice daily"},
		},
		Notes:     "take after food",
		CreatedAt: time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer("Test Clinic")

	data, err := r.Render(samplePrescription())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "output must be a PDF document")
	assert.Greater(t, len(data), 500)
}

func TestRenderWithoutOptionalFields(t *testing.T) {
	r := NewRenderer("")

	p := samplePrescription()
	p.Diagnosis = ""
	p.Notes = ""
	p.CreatedAt = time.Time{}

	data, err := r.Render(p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestRenderLongMedicationList(t *testing.T) {
	r := NewRenderer("Test Clinic")

	p := samplePrescription()
	p.Medications = nil
	for i := 0; i < 60; i++ {
		p.Medications = append(p.Medications, model.Medication{
			Name: "Medication", Dosage: "5mg", Frequency: "daily", Duration: "30 days",
			Instructions: "with a full glass of water",
		})
	}

	data, err := r.Render(p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
