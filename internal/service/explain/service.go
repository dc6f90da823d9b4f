// Package explain turns a prescription into a patient-friendly explanation.
// Delivery degrades through three tiers: a primary LLM endpoint, a secondary
// LLM endpoint, and a local template assembled purely from the input fields.
// The caller-visible operation never fails.
package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Fallback is returned when even prompt assembly goes wrong.
const Fallback = "AI explanation is currently unavailable. Please consult your doctor or pharmacist for detailed information about this prescription."

// Medication is the lenient medication shape accepted by the explainer.
type Medication struct {
	Name      string
	Dose      string
	Frequency string
	Duration  string
}

// Input is the prescription payload after lenient decoding: both the
// medications/meds keys and the dose/dosage field names are accepted.
type Input struct {
	PatientID   string
	Diagnosis   string
	Medications []Medication
	Notes       string
}

// ParseInput decodes a raw prescription value without rejecting unexpected
// or missing fields.
func ParseInput(raw json.RawMessage) Input {
	var loose struct {
		PatientID   string     `json:"patientId"`
		Diagnosis   string     `json:"diagnosis"`
		Medications []looseMed `json:"medications"`
		Meds        []looseMed `json:"meds"`
		Notes       string     `json:"notes"`
	}
	// Decode errors leave an empty input; the template tier still produces
	// an answer.
	_ = json.Unmarshal(raw, &loose)

	meds := loose.Medications
	if len(meds) == 0 {
		meds = loose.Meds
	}

	input := Input{PatientID: loose.PatientID, Diagnosis: loose.Diagnosis, Notes: loose.Notes}
	for _, m := range meds {
		dose := m.Dose
		if dose == "" {
			dose = m.Dosage
		}
		input.Medications = append(input.Medications, Medication{
			Name:      m.Name,
			Dose:      dose,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		})
	}
	return input
}

type looseMed struct {
	Name      string `json:"name"`
	Dose      string `json:"dose"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

type Service struct {
	remote []Provider
	log    zerolog.Logger
}

// NewService builds the degrade chain from the configured remote providers,
// in order of preference.
func NewService(remote []Provider, log zerolog.Logger) *Service {
	return &Service{remote: remote, log: log}
}

// Explain tries each remote tier once, then the local template. It always
// returns a usable explanation.
func (s *Service) Explain(ctx context.Context, input Input) string {
	prompt := buildPrompt(input)

	providers := make([]Provider, 0, len(s.remote)+1)
	providers = append(providers, s.remote...)
	providers = append(providers, &templateProvider{input: input})

	for _, p := range providers {
		text, err := p.Explain(ctx, prompt)
		if err != nil {
			s.log.Warn().Err(err).Str("provider", p.Name()).Msg("explanation tier failed")
			continue
		}
		return text
	}
	return Fallback
}

func buildPrompt(input Input) string {
	var medLines []string
	for _, m := range input.Medications {
		medLines = append(medLines, fmt.Sprintf("- %s: %s, %s for %s", m.Name, m.Dose, m.Frequency, m.Duration))
	}

	patient := input.PatientID
	if patient == "" {
		patient = "Unknown"
	}
	notes := input.Notes
	if notes == "" {
		notes = "None"
	}

	return fmt.Sprintf(`You are a helpful medical assistant. Explain this prescription to a patient in simple, clear language (no jargon). Keep it under 200 words.

Prescription:
Patient: %s
Medications:
%s
Notes: %s

Explain what each medication does, why it might be prescribed, and any important instructions.`,
		patient, strings.Join(medLines, "\n"), notes)
}
