package model

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Patient is a clinic patient record. It has a lifecycle independent of
// UserProfile: a patient record does not imply a login-capable account.
type Patient struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	DateOfBirth    string    `json:"dateOfBirth"`
	Gender         Gender    `json:"gender"`
	Address        string    `json:"address,omitempty"`
	BloodGroup     string    `json:"bloodGroup,omitempty"`
	MedicalHistory string    `json:"medicalHistory,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type CreatePatientRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required"`
	DateOfBirth    string `json:"dateOfBirth" binding:"required"`
	Gender         string `json:"gender" binding:"required,oneof=male female other"`
	Address        string `json:"address"`
	BloodGroup     string `json:"bloodGroup"`
	MedicalHistory string `json:"medicalHistory"`
}

type UpdatePatientRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone"`
	DateOfBirth    *string `json:"dateOfBirth"`
	Gender         *string `json:"gender" binding:"omitempty,oneof=male female other"`
	Address        *string `json:"address"`
	BloodGroup     *string `json:"bloodGroup"`
	MedicalHistory *string `json:"medicalHistory"`
}

type PatientFilter struct {
	Email string `form:"email"`
}
