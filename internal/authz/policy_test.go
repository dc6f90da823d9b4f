package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinicware/clinic-api/internal/model"
)

func TestCanPerform(t *testing.T) {
	tests := []struct {
		name     string
		role     model.Role
		action   Action
		resource Resource
		want     bool
	}{
		{"receptionist creates patient", model.RoleReceptionist, ActionCreate, ResourcePatient, true},
		{"doctor cannot create patient", model.RoleDoctor, ActionCreate, ResourcePatient, false},
		{"patient cannot create patient", model.RolePatient, ActionCreate, ResourcePatient, false},
		{"patient reads patients", model.RolePatient, ActionRead, ResourcePatient, true},

		{"doctor creates appointment", model.RoleDoctor, ActionCreate, ResourceAppointment, true},
		{"patient cannot create appointment", model.RolePatient, ActionCreate, ResourceAppointment, false},
		{"doctor updates appointment status", model.RoleDoctor, ActionUpdateStatus, ResourceAppointment, true},
		{"patient cannot update appointment status", model.RolePatient, ActionUpdateStatus, ResourceAppointment, false},
		{"doctor cannot delete appointment", model.RoleDoctor, ActionDelete, ResourceAppointment, false},
		{"receptionist deletes appointment", model.RoleReceptionist, ActionDelete, ResourceAppointment, true},

		{"doctor creates prescription", model.RoleDoctor, ActionCreate, ResourcePrescription, true},
		{"receptionist cannot create prescription", model.RoleReceptionist, ActionCreate, ResourcePrescription, false},
		{"patient reads prescriptions", model.RolePatient, ActionRead, ResourcePrescription, true},

		{"admin creates user", model.RoleAdmin, ActionCreate, ResourceUser, true},
		{"receptionist cannot create user", model.RoleReceptionist, ActionCreate, ResourceUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPerform(tt.role, tt.action, tt.resource))
		})
	}
}

func TestCanPerformDeniesUnknownCombinations(t *testing.T) {
	assert.False(t, CanPerform(model.Role("ghost"), ActionRead, ResourcePatient))
	assert.False(t, CanPerform(model.RoleAdmin, Action("publish"), ResourcePatient))
	assert.False(t, CanPerform(model.RoleAdmin, ActionRead, Resource("invoice")))
}
