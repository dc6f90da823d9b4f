package prescription

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicware/clinic-api/internal/docstore"
	"github.com/clinicware/clinic-api/internal/model"
	"github.com/clinicware/clinic-api/internal/pdf"
	"github.com/clinicware/clinic-api/internal/repository"
	"github.com/clinicware/clinic-api/internal/storage"
	apperrors "github.com/clinicware/clinic-api/pkg/errors"
)

func newTestService(t *testing.T, blobs storage.BlobStore) *Service {
	t.Helper()
	store := docstore.NewMemoryStore()
	return NewService(
		repository.NewPrescriptionRepository(store),
		repository.NewPatientRepository(store),
		repository.NewUserRepository(store),
		pdf.NewRenderer("Test Clinic"),
		blobs,
		zerolog.Nop(),
	)
}

func newMemBlobs() *storage.FileStore {
	return storage.NewFileStore(afero.NewMemMapFs(), storage.Config{
		Root:    "blobs",
		BaseURL: "http://localhost:8080/api/v1",
		Secret:  "test-secret",
	})
}

func createRequest() *model.CreatePrescriptionRequest {
	return &model.CreatePrescriptionRequest{
		PatientID:   "p1",
		PatientName: "Ravi Shah",
		DoctorID:    "d1",
		DoctorName:  "Dr. Mira Chen",
		Diagnosis:   "seasonal allergy",
		Medications: []model.MedicationInput{
			{Name: "Cetirizine", Dose: "10mg", Frequency: "once daily", Duration: "14 days"},
		},
		Notes: "take after food",
	}
}

func TestCreatePrescriptionUploadsPDF(t *testing.T) {
	blobs := newMemBlobs()
	svc := newTestService(t, blobs)
	ctx := context.Background()

	result, err := svc.CreatePrescription(ctx, createRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)

	// Uploaded: a signed URL and no inline bytes.
	assert.NotEmpty(t, result.PDFURL)
	assert.Empty(t, result.PDFBase64)
	assert.Contains(t, result.PDFURL, "/files/prescriptions/"+result.ID+".pdf")

	// The blob exists and is a PDF.
	data, err := blobs.Open(ctx, "prescriptions/"+result.ID+".pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))

	// The stored record carries the hosted location.
	stored, err := svc.GetPrescription(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.PDFURL, stored.PDFURL)
	assert.Equal(t, "prescriptions/"+result.ID+".pdf", stored.StoragePath)
}

func TestCreatePrescriptionInlineFallbackWithoutStorage(t *testing.T) {
	svc := newTestService(t, nil)

	result, err := svc.CreatePrescription(context.Background(), createRequest())
	require.NoError(t, err)

	// No storage configured: inline bytes and no URL.
	assert.Empty(t, result.PDFURL)
	require.NotEmpty(t, result.PDFBase64)

	raw, err := base64.StdEncoding.DecodeString(result.PDFBase64)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

type failingBlobStore struct{}

func (failingBlobStore) Put(ctx context.Context, key string, data []byte) (string, error) {
	return "", assert.AnError
}
func (failingBlobStore) Open(ctx context.Context, key string) ([]byte, error) {
	return nil, storage.ErrNotFound
}
func (failingBlobStore) Verify(key, expires, signature string) error { return nil }

func TestCreatePrescriptionUploadFailureIsSwallowed(t *testing.T) {
	svc := newTestService(t, failingBlobStore{})

	result, err := svc.CreatePrescription(context.Background(), createRequest())
	require.NoError(t, err, "upload failure must not fail the request")
	assert.Empty(t, result.PDFURL)
	assert.NotEmpty(t, result.PDFBase64)
}

func TestCreatePrescriptionValidation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	req := createRequest()
	req.PatientID = " "
	_, err := svc.CreatePrescription(ctx, req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	req = createRequest()
	req.Medications = nil
	_, err = svc.CreatePrescription(ctx, req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	req = createRequest()
	req.Medications[0].Dose = ""
	_, err = svc.CreatePrescription(ctx, req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestFetchPrescriptionsFilterByPatient(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.CreatePrescription(ctx, createRequest())
	require.NoError(t, err)

	other := createRequest()
	other.PatientID = "p2"
	_, err = svc.CreatePrescription(ctx, other)
	require.NoError(t, err)

	list, err := svc.FetchPrescriptions(ctx, model.PrescriptionFilter{PatientID: "p1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0].PatientID)
}

func TestGetPrescriptionMissingReturnsNil(t *testing.T) {
	svc := newTestService(t, nil)

	p, err := svc.GetPrescription(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}
