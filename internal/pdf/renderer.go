// Package pdf renders prescription documents.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/clinicware/clinic-api/internal/model"
)

// Renderer produces the prescription PDF content in memory.
type Renderer interface {
	Render(p *model.Prescription) ([]byte, error)
}

type renderer struct {
	clinicName string
}

func NewRenderer(clinicName string) Renderer {
	if clinicName == "" {
		clinicName = "Clinic Management"
	}
	return &renderer{clinicName: clinicName}
}

// Render lays out a fixed-format document: header, patient/doctor/diagnosis
// rows, a numbered medication list and optional notes. Long medication lists
// flow onto additional pages.
func (r *renderer) Render(p *model.Prescription) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, r.clinicName, "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 8, "Prescription", "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 11)
	writeRow(doc, "Patient", valueOr(p.PatientName, p.PatientID))
	writeRow(doc, "Doctor", valueOr(p.DoctorName, p.DoctorID))
	if p.Diagnosis != "" {
		writeRow(doc, "Diagnosis", p.Diagnosis)
	}
	if !p.CreatedAt.IsZero() {
		writeRow(doc, "Date", p.CreatedAt.Format("2 Jan 2006"))
	}
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, "Medications", "B", 1, "L", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Helvetica", "", 11)
	for i, med := range p.Medications {
		line := fmt.Sprintf("%d. %s - %s, %s", i+1, med.Name, med.Dosage, med.Frequency)
		if med.Duration != "" {
			line += fmt.Sprintf(" for %s", med.Duration)
		}
		doc.MultiCell(0, 7, line, "", "L", false)
		if med.Instructions != "" {
			doc.SetFont("Helvetica", "I", 10)
			doc.MultiCell(0, 6, "    "+med.Instructions, "", "L", false)
			doc.SetFont("Helvetica", "", 11)
		}
	}

	if p.Notes != "" {
		doc.Ln(4)
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(0, 8, "Notes", "B", 1, "L", false, 0, "")
		doc.Ln(2)
		doc.SetFont("Helvetica", "", 11)
		doc.MultiCell(0, 7, p.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render prescription pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(doc *gofpdf.Fpdf, label, value string) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(35, 7, label+":", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func valueOr(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}
